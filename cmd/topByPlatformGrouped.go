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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-history-tools/internal/aggregate"
	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/platform"
	"github.com/ademuri/spotify-history-tools/internal/report"
)

var (
	excludeGroups []string
	minGroupPlays int
)

var topByPlatformGroupedCmd = &cobra.Command{
	Use:   "top-by-platform-grouped <folder>",
	Short: "Ranks songs per platform family (Android 10, iOS 14, Web Player macOS, ...)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopByPlatformGrouped(os.Stdout, args[0], aggregate.DefaultConfig(),
			excludeGroups, minGroupPlays)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topByPlatformGroupedCmd)
	topByPlatformGroupedCmd.Flags().StringSliceVar(&excludeGroups, "exclude-group", nil,
		"platform group to omit from the report (repeatable)")
	topByPlatformGroupedCmd.Flags().IntVar(&minGroupPlays, "min-group-plays", 25,
		"hide groups with fewer total plays than this")
}

func printTopByPlatformGrouped(out io.Writer, folder string, config aggregate.Config, exclude []string, minPlays int) error {
	// Group exclusions match case-insensitively against classifier output.
	excluded := make(map[string]bool, len(exclude))
	for _, group := range exclude {
		excluded[strings.ToLower(group)] = true
	}

	byGroup := aggregate.NewGroupedCounts()
	names := aggregate.NewNames()

	err := history.Each(folder, func(r history.Record) {
		rec := history.FromRecord(r)
		if !config.Qualifies(rec) {
			return
		}
		raw := rec.Platform
		if raw == "" {
			raw = "Unknown"
		}
		group := platform.Classify(raw)
		if excluded[strings.ToLower(group)] {
			return
		}
		key, display := aggregate.TrackKey(rec)
		byGroup.Inc(group, key)
		names.SetIfAbsent(key, display)
	})
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	for _, group := range byGroup.Order() {
		counts := byGroup.Counts(group)
		total := counts.Total()
		if total < minPlays {
			continue
		}
		fmt.Fprintf(out, "\nGroup: %s (Total plays: %d)\n", group, total)
		report.RankedList(out, aggregate.TopN(counts, names.Get, 10), "plays")
	}

	return nil
}
