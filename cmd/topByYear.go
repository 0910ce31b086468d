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
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-history-tools/internal/aggregate"
	"github.com/ademuri/spotify-history-tools/internal/history"
	"github.com/ademuri/spotify-history-tools/internal/report"
	"github.com/ademuri/spotify-history-tools/internal/stats"
)

// minDetailPlays filters the per-artist song/album tables to entries with at
// least this many plays.
const minDetailPlays = 10

var topByYearCmd = &cobra.Command{
	Use:   "top-by-year <folder>",
	Short: "Ranks songs and artists per year and overall",
	Long: `Reads a streaming history export folder and prints per-year and global
top lists, per-artist breakdowns, song consistency scores, and artist
flatness metrics.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopByYear(os.Stdout, args[0], aggregate.DefaultConfig())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topByYearCmd)
}

func printTopByYear(out io.Writer, folder string, config aggregate.Config) error {
	engine := aggregate.NewEngine(config)
	err := history.Each(folder, func(r history.Record) {
		engine.Add(history.FromRecord(r))
	})
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	for _, year := range engine.SongsByYear.Groups() {
		songs := aggregate.TopN(engine.SongsByYear.Counts(year), engine.Names.Get, 100)
		report.Table(out, fmt.Sprintf("Year: %s — Top 100 Songs", year),
			[]string{"#", "Song", "Plays"}, report.RankedRows(songs))

		artists := aggregate.TopN(engine.ArtistsByYear.Counts(year), nil, 100)
		report.Table(out, fmt.Sprintf("Year: %s — Top 100 Artists", year),
			[]string{"#", "Artist", "Plays"}, report.RankedRows(artists))
	}

	fmt.Fprintln(out, "Global Totals")
	globalSongs := aggregate.TopN(engine.GlobalSongs, engine.Names.Get, 100)
	report.Table(out, "Top 100 Songs (Global)",
		[]string{"#", "Song", "Plays"}, report.RankedRows(globalSongs))

	globalArtists := aggregate.TopN(engine.GlobalArtists, nil, 0)
	report.Table(out, "Top 100 Artists (Global)",
		[]string{"#", "Artist", "Plays"}, report.RankedRows(truncate(globalArtists, 100)))

	printArtistDetails(out, engine, truncate(globalArtists, 10))
	printConsistency(out, engine, config)
	printFlatness(out, engine, config)

	return nil
}

// printArtistDetails prints each top artist's summary line, top songs, and
// top albums contiguously.
func printArtistDetails(out io.Writer, engine *aggregate.Engine, topArtists []aggregate.Item) {
	for _, artist := range topArtists {
		songCounts := engine.ArtistSongs.Counts(artist.Name)
		flatness := stats.Flatness(songCounts.Values())

		fmt.Fprintf(out, "Artist: %s — %d plays, flatness %.3f\n\n", artist.Name, artist.Count, flatness)

		songs := aggregate.TopN(atLeast(songCounts, minDetailPlays), engine.Names.Get, 100)
		rows := make([][]string, 0, len(songs))
		for i, song := range songs {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				stripArtistSuffix(song.Name, artist.Name),
				strconv.Itoa(song.Count),
			})
		}
		report.Table(out, fmt.Sprintf("Top 100 Songs for Artist: %s", artist.Name),
			[]string{"#", "Song", "Plays"}, rows)

		albums := aggregate.TopN(atLeast(engine.ArtistAlbums.Counts(artist.Name), minDetailPlays), nil, 10)
		report.Table(out, fmt.Sprintf("Top 10 Albums for Artist: %s", artist.Name),
			[]string{"#", "Album", "Plays"}, report.RankedRows(albums))
	}
}

func printConsistency(out io.Writer, engine *aggregate.Engine, config aggregate.Config) {
	type row struct {
		name string
		c    stats.Consistency
	}

	songYears := engine.SongYears()
	rows := make([]row, 0, len(songYears))
	for songKey, years := range songYears {
		rows = append(rows, row{
			name: engine.Names.Get(songKey),
			c:    stats.ConsistencyScore(years, config.ConsistencyCap),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.c.Score != b.c.Score {
			return a.c.Score > b.c.Score
		}
		if a.c.YearsActive != b.c.YearsActive {
			return a.c.YearsActive > b.c.YearsActive
		}
		if a.c.TotalPlays != b.c.TotalPlays {
			return a.c.TotalPlays > b.c.TotalPlays
		}
		return a.name < b.name
	})
	if len(rows) > 25 {
		rows = rows[:25]
	}

	table := make([][]string, 0, len(rows))
	for i, r := range rows {
		table = append(table, []string{
			strconv.Itoa(i + 1),
			r.name,
			strconv.Itoa(r.c.Score),
			strconv.Itoa(r.c.YearsActive),
			strconv.Itoa(r.c.TotalPlays),
		})
	}
	report.Table(out, fmt.Sprintf("Top 25 Songs by Consistency (cap per year = %d)", config.ConsistencyCap),
		[]string{"#", "Song", "Score", "Years Active", "Total Plays"}, table)

	fmt.Fprintln(out)
}

func printFlatness(out io.Writer, engine *aggregate.Engine, config aggregate.Config) {
	type row struct {
		artist   string
		flatness float64
		numSongs int
		total    int
	}

	var rows []row
	for _, artist := range engine.ArtistSongs.Order() {
		counts := engine.ArtistSongs.Counts(artist).Values()
		numSongs := 0
		total := 0
		for _, c := range counts {
			if c > 0 {
				numSongs++
			}
			total += c
		}
		if numSongs == 0 || total == 0 || total <= config.FlatnessMinPlays {
			continue
		}
		rows = append(rows, row{
			artist:   artist,
			flatness: stats.Flatness(counts),
			numSongs: numSongs,
			total:    total,
		})
	}

	// Both tables share the tie-breaks; only the flatness direction flips.
	less := func(a, b row, flatterFirst bool) bool {
		if a.flatness != b.flatness {
			if flatterFirst {
				return a.flatness > b.flatness
			}
			return a.flatness < b.flatness
		}
		if a.numSongs != b.numSongs {
			return a.numSongs > b.numSongs
		}
		if a.total != b.total {
			return a.total > b.total
		}
		return a.artist < b.artist
	}

	render := func(title string, rows []row) {
		table := make([][]string, 0, len(rows))
		for i, r := range rows {
			table = append(table, []string{
				strconv.Itoa(i + 1),
				r.artist,
				fmt.Sprintf("%.3f", r.flatness),
				strconv.Itoa(r.numSongs),
				strconv.Itoa(r.total),
			})
		}
		report.Table(out, title, []string{"#", "Artist", "Flatness", "Songs", "Plays"}, table)
	}

	top := make([]row, len(rows))
	copy(top, rows)
	sort.Slice(top, func(i, j int) bool { return less(top[i], top[j], true) })
	render(fmt.Sprintf("Top 50 Artists by Flatness (>%d plays, higher = flatter distribution)", config.FlatnessMinPlays),
		truncate(top, 50))

	bottom := make([]row, len(rows))
	copy(bottom, rows)
	sort.Slice(bottom, func(i, j int) bool { return less(bottom[i], bottom[j], false) })
	render(fmt.Sprintf("Bottom 50 Artists by Flatness (>%d plays, lower = more skewed)", config.FlatnessMinPlays),
		truncate(bottom, 50))
}

// stripArtistSuffix removes a trailing " - <artist>" from a display name, so
// per-artist song tables show titles only.
func stripArtistSuffix(display, artist string) string {
	if display == "" {
		return display
	}
	if artist != "" && strings.HasSuffix(display, " - "+artist) {
		return display[:len(display)-len(" - "+artist)]
	}
	if i := strings.LastIndex(display, " - "); i != -1 {
		return display[:i]
	}
	return display
}

// atLeast copies a bucket keeping only entries with min or more plays.
func atLeast(c aggregate.Counts, min int) aggregate.Counts {
	filtered := make(aggregate.Counts)
	for key, count := range c {
		if count >= min {
			filtered[key] = count
		}
	}
	return filtered
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
