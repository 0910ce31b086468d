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

	"github.com/ademuri/spotify-history-tools/internal/aggregate"
	"github.com/ademuri/spotify-history-tools/internal/history"
)

var playlistTopCmd = &cobra.Command{
	Use:   "playlist-top <folder> [playlist-id]",
	Short: "Ranks a playlist's tracks and artists by total listening time",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		playlistID := defaultExcludePlaylistID
		if len(args) > 1 {
			playlistID = args[1]
		}
		err := runPlaylistTop(cmd.Context(), os.Stdout, args[0], playlistID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playlistTopCmd)
}

// artistRef identifies one artist on a playlist track. Artists missing a
// catalog id are keyed by name so they still accumulate.
type artistRef struct {
	ID   string
	Name string
}

func runPlaylistTop(ctx context.Context, out io.Writer, folder, playlistID string) error {
	client, err := readOnlyClient(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Loading playlist %s...\n", playlistID)
	entries, err := client.PlaylistEntries(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("fetching playlist %s: %w", playlistID, err)
	}

	uriToName := make(map[string]string, len(entries))
	uriToArtists := make(map[string][]artistRef, len(entries))
	for _, track := range entries {
		uri := string(track.URI)
		if uri == "" {
			continue
		}
		name := track.Name
		if name == "" {
			name = uri
		}
		uriToName[uri] = name
		refs := make([]artistRef, 0, len(track.Artists))
		for _, artist := range track.Artists {
			refs = append(refs, artistRefFrom(artist))
		}
		uriToArtists[uri] = refs
	}

	return printPlaylistTop(out, folder, uriToName, uriToArtists, aggregate.DefaultConfig())
}

func artistRefFrom(artist spotify.SimpleArtist) artistRef {
	name := artist.Name
	if name == "" {
		name = "Unknown"
	}
	id := string(artist.ID)
	if id == "" {
		id = "name:" + name
	}
	return artistRef{ID: id, Name: name}
}

func printPlaylistTop(out io.Writer, folder string, uriToName map[string]string, uriToArtists map[string][]artistRef, config aggregate.Config) error {
	songMs := make(map[string]int64)
	songPlays := make(aggregate.Counts)
	artistMs := make(map[string]int64)
	artistAppearances := make(aggregate.Counts)
	artistNames := aggregate.NewNames()

	fmt.Fprintf(out, "Scanning history files in %s...\n", folder)
	err := history.Each(folder, func(r history.Record) {
		rec := history.FromRecord(r)
		if !config.Qualifies(rec) {
			return
		}
		if rec.TrackID == "" {
			return
		}
		if _, ok := uriToName[rec.TrackID]; !ok {
			return
		}

		songMs[rec.TrackID] += rec.MsPlayed
		songPlays.Inc(rec.TrackID)

		for _, artist := range uriToArtists[rec.TrackID] {
			artistMs[artist.ID] += rec.MsPlayed
			artistAppearances.Inc(artist.ID)
			artistNames.SetIfAbsent(artist.ID, artist.Name)
		}
	})
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	fmt.Fprintln(out, "Top 50 songs by ms_played (playlist-only):")
	printTimeRanking(out, songMs, songPlays, func(uri string) string { return uriToName[uri] }, "plays")

	fmt.Fprintln(out, "\nTop 50 artists by ms_played (playlist-only):")
	printTimeRanking(out, artistMs, artistAppearances, artistNames.Get, "appearances")

	return nil
}

func printTimeRanking(out io.Writer, msByKey map[string]int64, countByKey aggregate.Counts, nameOf func(string) string, unit string) {
	type row struct {
		name  string
		ms    int64
		plays int
	}

	rows := make([]row, 0, len(msByKey))
	for key, ms := range msByKey {
		name := nameOf(key)
		if name == "" {
			name = key
		}
		rows = append(rows, row{name: name, ms: ms, plays: countByKey[key]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ms != rows[j].ms {
			return rows[i].ms > rows[j].ms
		}
		return rows[i].name < rows[j].name
	})
	if len(rows) > 50 {
		rows = rows[:50]
	}

	for i, r := range rows {
		fmt.Fprintf(out, "%d. %s - %.1f min across %d %s\n", i+1, r.name, float64(r.ms)/60000.0, r.plays, unit)
	}
}
