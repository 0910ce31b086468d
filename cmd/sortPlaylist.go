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

	"github.com/spf13/cobra"
	"github.com/zmb3/spotify/v2"

	"github.com/ademuri/spotify-history-tools/internal/catalog"
	"github.com/ademuri/spotify-history-tools/internal/spotifetch"
)

// unknownReleaseDate sorts tracks with no resolvable date to the very end.
const unknownReleaseDate = "9999-12-31"

// releaseDateOverrides corrects catalog release dates known to be wrong,
// usually re-releases carrying the reissue date instead of the original one.
var releaseDateOverrides = map[spotify.ID]string{
	"2Eg6dOam7cAe5turf2bnCg": "2001-12-04",
	"3xKOScU4dJYq30uDzbpG2j": "2004-06-08",
	"1DdrejuwM8C3ExsXaPAgF8": "2004-10-12",
	"57zpFPybSWc4aNwDHV0kBo": "2006-06-12",
	"7Fmf6fTY42XwGIgQQR69CU": "2006-01-01",
	"59L5lxOJNIfcp8INaT9vkV": "1992-12-01",
	"2pr7niU3YfbVMQZxzsXubr": "2005-05-10",
}

var sortPlaylistCmd = &cobra.Command{
	Use:   "sort-playlist [playlist-id]",
	Short: "Reorders a playlist by release date, oldest first",
	Long: `Fetches every item of the playlist, resolves each track's release date
(with per-track overrides and a full-album fallback fetch), wipes the
playlist, and re-adds the tracks oldest first, keeping album track order
within an album.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		playlistID := defaultExcludePlaylistID
		if len(args) > 0 && args[0] != "" {
			playlistID = args[0]
		}
		err := runSortPlaylist(cmd.Context(), os.Stdout, playlistID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sortPlaylistCmd)
}

// orderedTrack carries the sort key for one playlist item. Original playlist
// position is the final tie-break so equal keys stay deterministic.
type orderedTrack struct {
	releaseDate string
	albumID     string
	discNumber  int
	trackNumber int
	index       int
	id          spotify.ID
}

func runSortPlaylist(ctx context.Context, out io.Writer, playlistID string) error {
	client, err := authorizedClient(ctx, writeScopes...)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Sorting playlist %s by release date...\n", playlistID)
	entries, err := client.PlaylistEntries(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("fetching playlist %s: %w", playlistID, err)
	}

	fmt.Fprintln(out, "Computing dates...")
	ordered := make([]orderedTrack, 0, len(entries))
	for i, track := range entries {
		if track.ID == "" {
			continue
		}
		date, err := trackReleaseDate(ctx, client, track)
		if err != nil {
			return err
		}
		ordered = append(ordered, orderedTrack{
			releaseDate: date,
			albumID:     string(track.Album.ID),
			discNumber:  int(track.DiscNumber),
			trackNumber: int(track.TrackNumber),
			index:       i,
			id:          track.ID,
		})
	}

	sort.Slice(ordered, func(i, j int) bool {
		return releaseOrderLess(ordered[i], ordered[j])
	})

	fmt.Fprintln(out, "Clearing playlist...")
	if err := client.WipePlaylist(ctx, playlistID); err != nil {
		return fmt.Errorf("wiping playlist %s: %w", playlistID, err)
	}

	fmt.Fprintln(out, "Re-adding tracks...")
	ids := make([]spotify.ID, 0, len(ordered))
	for _, t := range ordered {
		ids = append(ids, t.id)
	}
	if err := client.AddTracks(ctx, playlistID, ids); err != nil {
		return fmt.Errorf("re-adding tracks to %s: %w", playlistID, err)
	}

	fmt.Fprintln(out, "Done.")
	return nil
}

// releaseOrderLess orders oldest release first, keeping album track order
// within an album.
func releaseOrderLess(a, b orderedTrack) bool {
	if a.releaseDate != b.releaseDate {
		return a.releaseDate < b.releaseDate
	}
	if a.albumID != b.albumID {
		return a.albumID < b.albumID
	}
	if a.discNumber != b.discNumber {
		return a.discNumber < b.discNumber
	}
	if a.trackNumber != b.trackNumber {
		return a.trackNumber < b.trackNumber
	}
	return a.index < b.index
}

// trackReleaseDate resolves a playlist track's normalized release date,
// preferring overrides, then the album metadata on the track, then a
// full-album fetch. Tracks with no date anywhere sort last.
func trackReleaseDate(ctx context.Context, client *spotifetch.Client, track spotify.FullTrack) (string, error) {
	if date, ok := releaseDateOverrides[track.ID]; ok {
		return catalog.NormalizeReleaseDate(date), nil
	}

	date := track.Album.ReleaseDate
	if date == "" && track.Album.ID != "" {
		album, err := client.Album(ctx, track.Album.ID)
		if err != nil {
			return "", fmt.Errorf("fetching album %s: %w", track.Album.ID, err)
		}
		date = album.ReleaseDate
	}
	if date == "" {
		return unknownReleaseDate, nil
	}
	return catalog.NormalizeReleaseDate(date), nil
}
