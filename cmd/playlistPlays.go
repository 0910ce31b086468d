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
	"strings"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-history-tools/internal/aggregate"
	"github.com/ademuri/spotify-history-tools/internal/catalog"
	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/report"
)

const (
	defaultPlaylistID        = "3cwfW1Gn2qABuaD6ryiSZS"
	defaultExcludePlaylistID = "5gTwnL2iQATKAYeHaEoo0I"
)

var oldCriteriaArtists []string

var playlistPlaysCmd = &cobra.Command{
	Use:   "playlist-plays <folder> [playlist-id] [exclude-playlist-id]",
	Short: "Counts qualifying plays of a playlist's tracks across the history",
	Long: `Builds a catalog index from a playlist, counts the qualifying history
plays that resolve against it, and compares the result with the older
lead-artist-only counting criteria.`,
	Args: cobra.RangeArgs(1, 3),
	Run: func(cmd *cobra.Command, args []string) {
		playlistID := defaultPlaylistID
		if len(args) > 1 {
			playlistID = args[1]
		}
		excludeID := defaultExcludePlaylistID
		if len(args) > 2 {
			excludeID = args[2]
		}
		err := runPlaylistPlays(cmd.Context(), os.Stdout, args[0], playlistID, excludeID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playlistPlaysCmd)
	playlistPlaysCmd.Flags().StringSliceVar(&oldCriteriaArtists, "artist", []string{"Bad Bunny"},
		"lead artist counted under the old criteria (repeatable)")
}

func runPlaylistPlays(ctx context.Context, out io.Writer, folder, playlistID, excludeID string) error {
	client, err := authorizedClient(ctx, readScopes...)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Loading playlist %s...\n", playlistID)
	tracks, _, err := client.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("fetching playlist %s: %w", playlistID, err)
	}
	index := catalog.NewIndex(tracks)

	fmt.Fprintf(out, "Loading exclude playlist %s...\n", excludeID)
	excludeTracks, _, err := client.PlaylistTracks(ctx, excludeID)
	if err != nil {
		return fmt.Errorf("fetching playlist %s: %w", excludeID, err)
	}
	excludeKeys := catalog.NewIndex(excludeTracks).Keys()

	oldArtists := make(map[string]bool, len(oldCriteriaArtists))
	for _, name := range oldCriteriaArtists {
		oldArtists[strings.ToLower(name)] = true
	}

	return printPlaylistPlays(out, folder, index, excludeKeys, oldArtists, aggregate.DefaultConfig())
}

func printPlaylistPlays(out io.Writer, folder string, index *catalog.Index, excludeKeys map[string]bool, oldArtists map[string]bool, config aggregate.Config) error {
	songCounts := make(aggregate.Counts)
	oldCounts := make(aggregate.Counts)
	byYear := aggregate.NewGroupedCounts()

	fmt.Fprintf(out, "Scanning history in %s (plays > 30s, exact platform exclusions applied)...\n", folder)
	err := history.Each(folder, func(r history.Record) {
		rec := history.FromRecord(r)
		if !config.Qualifies(rec) {
			return
		}
		match, ok := index.Resolve(rec.TrackID, rec.TrackName, rec.ArtistName)
		if !ok {
			return
		}
		display := match.Entry.Display

		songCounts.Inc(display)
		byYear.Inc(history.Year(rec.Timestamp), display)

		lead := strings.TrimSpace(rec.ArtistName)
		if lead != "" && oldArtists[strings.ToLower(lead)] {
			oldCounts.Inc(display)
		}
	})
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	fmt.Fprintf(out, "\nTotal qualifying plays (new criteria - playlist): %d\n", songCounts.Total())
	fmt.Fprintf(out, "Total qualifying plays (old criteria - lead artist only): %d\n", oldCounts.Total())

	fmt.Fprintln(out, "Top 100 Songs (Playlist-qualified):")
	report.RankedList(out, aggregate.TopN(songCounts, nil, 100), "plays")

	// A display with no recorded key cannot be proven excluded, so it stays in.
	notExcluded := make(aggregate.Counts)
	for display, count := range songCounts {
		if key, ok := index.KeyForDisplay(display); ok && excludeKeys[key] {
			continue
		}
		notExcluded[display] = count
	}
	fmt.Fprintln(out, "\nTop 50 Songs NOT in exclude playlist:")
	report.RankedList(out, aggregate.TopN(notExcluded, nil, 50), "plays")

	fmt.Fprintln(out, "\nTop 20 Songs by Year (Playlist-qualified):")
	for _, year := range byYear.Groups() {
		counts := byYear.Counts(year)
		fmt.Fprintf(out, "\nYear: %s (Total plays: %d)\n", year, counts.Total())
		report.RankedList(out, aggregate.TopN(counts, nil, 20), "plays")
	}

	diff := make(aggregate.Counts)
	for display, newCount := range songCounts {
		if extra := newCount - oldCounts[display]; extra > 0 {
			diff[display] = extra
		}
	}
	fmt.Fprintln(out, "\nTop 50 Songs newly included vs old criteria:")
	report.RankedList(out, aggregate.TopN(diff, nil, 50), "additional plays")

	return nil
}
