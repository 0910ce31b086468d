// Package aggregate maintains the counting buckets shared by the analysis
// commands. Buckets are scoped to one run: created empty, incremented while
// the record stream is consumed, then read-only for ranking.
package aggregate

import (
	"sort"

	"github.com/ademuri/spotify-history-tools/internal/history"
)

// Sentinels substituted for missing record fields. Missing fields never drop
// a record from a dimension; they bucket under these labels instead.
const (
	UnknownTrack  = "(Unknown Track)"
	UnknownArtist = "(Unknown Artist)"
	UnknownAlbum  = "(Unknown Album)"
)

// Config carries the thresholds and exclusion sets the filter and engine
// need. Passing it explicitly keeps tests repeatable with overridden values.
type Config struct {
	// ExcludedPlatforms is matched exactly against the raw platform string,
	// before any grouping.
	ExcludedPlatforms map[string]bool
	// MinPlayMs qualifies a play only when ms_played is strictly greater.
	MinPlayMs int64
	// ConsistencyCap limits one year's contribution to a song's
	// consistency score.
	ConsistencyCap int
	// FlatnessMinPlays restricts flatness rankings to artists with strictly
	// more total plays, to avoid low-sample noise.
	FlatnessMinPlays int
}

// DefaultConfig returns the production thresholds and the known-erroneous
// legacy device strings excluded from every analysis.
func DefaultConfig() Config {
	return Config{
		ExcludedPlatforms: map[string]bool{
			"iOS 5.1.1 (iPod4,1)": true,
			"iOS 7.1.1 (iPad2,1)": true,
			"iOS 6.1.3 (iPod4,1)": true,
			"Android OS 4.1.1 API 16 (samsung, SGH-I747M)":           true,
			"Android OS 4.2.2 API 17 (TCT, ALCATEL ONE TOUCH 5036A)": true,
			"Android OS 5.0.2 API 21 (motorola, XT1032)":             true,
			"Android-tablet OS 5.0.2 API 21 (samsung, SM-P350)":      true,
			"Windows 10 (10.0.10586; x64)":                           true,
		},
		MinPlayMs:        30000,
		ConsistencyCap:   10,
		FlatnessMinPlays: 250,
	}
}

// Qualifies reports whether a record feeds any bucket: its raw platform must
// not be in the exact exclusion set and it must have played strictly longer
// than MinPlayMs. Records with missing duration carry 0 and never qualify.
func (c Config) Qualifies(rec history.PlayRecord) bool {
	if c.ExcludedPlatforms[rec.Platform] {
		return false
	}
	return rec.MsPlayed > c.MinPlayMs
}

// TrackKey derives the counting key and display name for a record outside
// catalog-scoped analyses: the track id when present, otherwise a name-based
// key. Display falls back progressively, ending in the unknown sentinel.
func TrackKey(rec history.PlayRecord) (key, display string) {
	switch {
	case rec.TrackName != "" && rec.ArtistName != "":
		display = rec.TrackName + " - " + rec.ArtistName
	case rec.TrackName != "":
		display = rec.TrackName
	case rec.TrackID != "":
		display = rec.TrackID
	default:
		display = UnknownTrack
	}

	key = rec.TrackID
	if key == "" {
		key = "name:" + display
	}
	return key, display
}

// Counts is one aggregation bucket: key to qualifying-play count. Counts
// only increase while streaming.
type Counts map[string]int

// Inc adds one play for key.
func (c Counts) Inc(key string) {
	c[key]++
}

// Total sums the bucket.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Values returns the bucket's counts without their keys, the shape the
// distribution metrics consume. Order is unspecified.
func (c Counts) Values() []int {
	values := make([]int, 0, len(c))
	for _, n := range c {
		values = append(values, n)
	}
	return values
}

// Names records the display name first seen for each key. Later records with
// the same key do not overwrite it, keeping display stable for the run.
type Names struct {
	m map[string]string
}

// NewNames returns an empty registry.
func NewNames() *Names {
	return &Names{m: make(map[string]string)}
}

// SetIfAbsent records name for key unless one is already present.
func (n *Names) SetIfAbsent(key, name string) {
	if _, ok := n.m[key]; !ok {
		n.m[key] = name
	}
}

// Get returns the recorded name, or the key itself when none was recorded.
func (n *Names) Get(key string) string {
	if name, ok := n.m[key]; ok {
		return name
	}
	return key
}

// GroupedCounts buckets counts under an outer dimension (year, platform,
// platform group, artist) and remembers the order in which outer keys first
// appeared, for reports that present groups in first-seen order.
type GroupedCounts struct {
	counts map[string]Counts
	order  []string
}

// NewGroupedCounts returns an empty two-dimensional bucket.
func NewGroupedCounts() *GroupedCounts {
	return &GroupedCounts{counts: make(map[string]Counts)}
}

// Inc adds one play for key within group.
func (g *GroupedCounts) Inc(group, key string) {
	c, ok := g.counts[group]
	if !ok {
		c = make(Counts)
		g.counts[group] = c
		g.order = append(g.order, group)
	}
	c.Inc(key)
}

// Counts returns the bucket for group, which may be nil.
func (g *GroupedCounts) Counts(group string) Counts {
	return g.counts[group]
}

// Order returns the groups in order of first appearance.
func (g *GroupedCounts) Order() []string {
	return g.order
}

// Groups returns the group labels sorted lexicographically.
func (g *GroupedCounts) Groups() []string {
	groups := make([]string, 0, len(g.counts))
	for group := range g.counts {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups
}

// Item is one ranked row of a report.
type Item struct {
	Name  string
	Count int
}

// TopN ranks a bucket: count descending, display name ascending on ties.
// The tie-break makes rankings deterministic for identical counts. nameOf
// translates bucket keys to display names; nil means keys are already names.
// A non-positive n returns the full ranking.
func TopN(c Counts, nameOf func(string) string, n int) []Item {
	if nameOf == nil {
		nameOf = func(key string) string { return key }
	}
	items := make([]Item, 0, len(c))
	for key, count := range c {
		items = append(items, Item{Name: nameOf(key), Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// Engine consumes the qualified record stream once and maintains every
// bucket dimension the per-year analysis reports on. Single-goroutine use
// only; no bucket update depends on any other.
type Engine struct {
	Config Config

	SongsByYear   *GroupedCounts
	ArtistsByYear *GroupedCounts
	GlobalSongs   Counts
	GlobalArtists Counts
	ArtistAlbums  *GroupedCounts
	ArtistSongs   *GroupedCounts

	Names *Names
	Total int
}

// NewEngine returns an Engine with empty buckets.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		Config:        cfg,
		SongsByYear:   NewGroupedCounts(),
		ArtistsByYear: NewGroupedCounts(),
		GlobalSongs:   make(Counts),
		GlobalArtists: make(Counts),
		ArtistAlbums:  NewGroupedCounts(),
		ArtistSongs:   NewGroupedCounts(),
		Names:         NewNames(),
	}
}

// Add applies the qualification filter and, for qualifying records,
// increments every dimension. It reports whether the record was counted.
func (e *Engine) Add(rec history.PlayRecord) bool {
	if !e.Config.Qualifies(rec) {
		return false
	}

	year := history.Year(rec.Timestamp)
	songKey, songName := TrackKey(rec)
	artist := rec.ArtistName
	if artist == "" {
		artist = UnknownArtist
	}
	album := rec.AlbumName
	if album == "" {
		album = UnknownAlbum
	}

	e.Names.SetIfAbsent(songKey, songName)

	e.SongsByYear.Inc(year, songKey)
	e.ArtistsByYear.Inc(year, artist)
	e.GlobalSongs.Inc(songKey)
	e.GlobalArtists.Inc(artist)
	e.ArtistAlbums.Inc(artist, album)
	e.ArtistSongs.Inc(artist, songKey)
	e.Total++
	return true
}

// SongYears inverts the year-by-song bucket into per-song year counts, the
// shape the consistency metric consumes.
func (e *Engine) SongYears() map[string]map[string]int {
	byYear := make(map[string]map[string]int)
	for _, year := range e.SongsByYear.Order() {
		for songKey, count := range e.SongsByYear.Counts(year) {
			m, ok := byYear[songKey]
			if !ok {
				m = make(map[string]int)
				byYear[songKey] = m
			}
			m[year] += count
		}
	}
	return byYear
}
