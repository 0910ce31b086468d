/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zmb3/spotify/v2"

	"github.com/ademuri/spotify-history-tools/internal/catalog"
	"github.com/ademuri/spotify-history-tools/internal/spotifetch"
)

var (
	discographyMarket string
	skipTrackIDs      []string
	skipAlbumIDs      []string
	includeAlbumIDs   []string
)

var buildDiscographyCmd = &cobra.Command{
	Use:   "build-discography <artist-id> [playlist-id]",
	Short: "Rebuilds a playlist as an artist's discography in release order",
	Long: `Walks every album of the artist in the given market, collects the
tracks the artist actually appears on (skipping compilations, Various
Artists albums, and blacklisted ids), wipes the target playlist, and adds
the tracks oldest album first.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		playlistID := defaultPlaylistID
		if len(args) > 1 {
			playlistID = args[1]
		}
		err := runBuildDiscography(cmd.Context(), os.Stdout, args[0], playlistID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildDiscographyCmd)
	buildDiscographyCmd.Flags().StringVar(&discographyMarket, "market", "MX",
		"market whose album availability to walk")
	buildDiscographyCmd.Flags().StringSliceVar(&skipTrackIDs, "skip-track", nil,
		"track id to leave out (repeatable)")
	buildDiscographyCmd.Flags().StringSliceVar(&skipAlbumIDs, "skip-album", nil,
		"album id to leave out (repeatable)")
	buildDiscographyCmd.Flags().StringSliceVar(&includeAlbumIDs, "include-album", nil,
		"album id to keep even when it would be skipped (repeatable)")
}

func runBuildDiscography(ctx context.Context, out io.Writer, artistID, playlistID string) error {
	client, err := authorizedClient(ctx, writeScopes...)
	if err != nil {
		return err
	}

	if err := client.WipePlaylist(ctx, playlistID); err != nil {
		return fmt.Errorf("wiping playlist %s: %w", playlistID, err)
	}

	tracks, err := collectDiscography(ctx, out, client, artistID,
		toSet(skipTrackIDs), toSet(skipAlbumIDs), toSet(includeAlbumIDs))
	if err != nil {
		return err
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		return catalog.NormalizeReleaseDate(tracks[i].ReleaseDate) < catalog.NormalizeReleaseDate(tracks[j].ReleaseDate)
	})

	ids := make([]spotify.ID, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, spotify.ID(t.ID))
	}
	return client.AddTracks(ctx, playlistID, ids)
}

// collectDiscography walks the artist's albums and returns the artist's
// tracks, deduplicated by title: the first album to carry a title keeps it,
// so re-releases do not shadow the original.
func collectDiscography(ctx context.Context, out io.Writer, client *spotifetch.Client, artistID string, skipTracks, skipAlbums, includeAlbums map[string]bool) ([]catalog.Track, error) {
	albums, err := client.ArtistAlbums(ctx, artistID, discographyMarket)
	if err != nil {
		return nil, fmt.Errorf("fetching albums for artist %s: %w", artistID, err)
	}

	var tracks []catalog.Track
	seenTitles := make(map[string]bool)
	for _, album := range albums {
		if skipDiscographyAlbum(album, skipAlbums) && !includeAlbums[string(album.ID)] {
			continue
		}

		fmt.Fprintf(out, "%s (%s released on %s)\n", album.Name, album.AlbumType, album.ReleaseDate)
		full, err := client.Album(ctx, album.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching album %s: %w", album.ID, err)
		}

		for _, track := range full.Tracks.Tracks {
			if !artistOnTrack(artistID, track) {
				continue
			}
			if seenTitles[track.Name] || skipTracks[string(track.ID)] {
				continue
			}
			seenTitles[track.Name] = true

			artists := make([]string, 0, len(track.Artists))
			for _, artist := range track.Artists {
				artists = append(artists, artist.Name)
			}
			fmt.Fprintf(out, "-- %s (%s) - %s\n", track.Name, track.ID, strings.Join(artists, ", "))

			tracks = append(tracks, catalog.Track{
				ID:          string(track.ID),
				Title:       track.Name,
				Artists:     artists,
				Album:       album.Name,
				ReleaseDate: album.ReleaseDate,
			})
		}
	}
	return tracks, nil
}

func skipDiscographyAlbum(album spotify.SimpleAlbum, skipAlbums map[string]bool) bool {
	if album.AlbumType == "compilation" || skipAlbums[string(album.ID)] {
		return true
	}
	for _, artist := range album.Artists {
		if artist.Name == "Various Artists" {
			return true
		}
	}
	return false
}

func artistOnTrack(artistID string, track spotify.SimpleTrack) bool {
	for _, artist := range track.Artists {
		if string(artist.ID) == artistID {
			return true
		}
	}
	return false
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
