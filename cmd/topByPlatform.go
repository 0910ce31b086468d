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

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-history-tools/internal/aggregate"
	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/report"
)

var topByPlatformCmd = &cobra.Command{
	Use:   "top-by-platform <folder>",
	Short: "Ranks songs separately for each raw platform string",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopByPlatform(os.Stdout, args[0], aggregate.DefaultConfig())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topByPlatformCmd)
}

func printTopByPlatform(out io.Writer, folder string, config aggregate.Config) error {
	byPlatform := aggregate.NewGroupedCounts()
	names := aggregate.NewNames()

	err := history.Each(folder, func(r history.Record) {
		rec := history.FromRecord(r)
		if !config.Qualifies(rec) {
			return
		}
		platform := rec.Platform
		if platform == "" {
			platform = "Unknown"
		}
		key, display := aggregate.TrackKey(rec)
		byPlatform.Inc(platform, key)
		names.SetIfAbsent(key, display)
	})
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	for _, platform := range byPlatform.Order() {
		fmt.Fprintf(out, "\nPlatform: %s\n", platform)
		report.RankedList(out, aggregate.TopN(byPlatform.Counts(platform), names.Get, 20), "plays")
	}

	return nil
}
