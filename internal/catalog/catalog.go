// Package catalog reconciles noisy history records against an authoritative
// track list. Identity is primarily the track's catalog id (its URI); records
// lacking one fall back to a normalized title+artist key.
package catalog

import "strings"

// Track is one entry as returned by the catalog source. Artists are ordered;
// the first is the lead artist.
type Track struct {
	ID      string
	Title   string
	Artists []string
	Album   string
	// ReleaseDate is the raw catalog release date (YYYY, YYYY-MM, or
	// YYYY-MM-DD), populated by full-catalog fetches.
	ReleaseDate string
}

// LeadArtist returns the first artist, or "" when the track has none.
func (t Track) LeadArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Entry is a catalog track prepared for matching. Immutable for the run.
type Entry struct {
	ID      string
	Display string
	Key     string
}

// NormalizeKey builds the fallback identity key from title and lead artist
// text. Two records without ids are the same track iff their normalized keys
// are equal.
func NormalizeKey(title, artist string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "||" + strings.ToLower(strings.TrimSpace(artist))
}

// NormalizeReleaseDate pads partial catalog release dates (YYYY or YYYY-MM)
// to a full YYYY-MM-DD so lexicographic comparison orders them correctly.
// An empty date normalizes to "0000-01-01".
func NormalizeReleaseDate(date string) string {
	if date == "" {
		return "0000-01-01"
	}
	switch strings.Count(date, "-") {
	case 0:
		return date + "-01-01"
	case 1:
		return date + "-01"
	}
	return date
}

// MatchKind says how a record was reconciled against the catalog.
type MatchKind int

const (
	// MatchByID means the record's track id was found in the catalog.
	MatchByID MatchKind = iota
	// MatchByNameArtist means the record matched on normalized title+artist.
	MatchByNameArtist
)

// Match is a successful reconciliation.
type Match struct {
	Kind  MatchKind
	Entry Entry
}

// Index holds the per-run lookup tables built from catalog source output.
type Index struct {
	byID  map[string]Entry
	byKey map[string]Entry
	// displayToKey lets callers translate a display name back to its
	// normalized key, e.g. for exclusion-set membership checks.
	displayToKey map[string]string
}

// NewIndex builds an Index from catalog tracks, in iteration order. When two
// tracks reduce to the same normalized key, the first one encountered keeps
// the key (insert-if-absent, stated as an invariant).
func NewIndex(tracks []Track) *Index {
	idx := &Index{
		byID:         make(map[string]Entry),
		byKey:        make(map[string]Entry),
		displayToKey: make(map[string]string),
	}
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		name := t.Title
		if name == "" {
			name = t.ID
		}
		lead := t.LeadArtist()
		display := name
		if lead != "" {
			display = name + " - " + lead
		}
		entry := Entry{
			ID:      t.ID,
			Display: display,
			Key:     NormalizeKey(name, lead),
		}
		idx.byID[t.ID] = entry
		putIfAbsent(idx.byKey, entry.Key, entry)
		idx.displayToKey[display] = entry.Key
	}
	return idx
}

// Len reports the number of catalog entries indexed by id.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// KeyForDisplay returns the normalized key recorded for a display name.
func (idx *Index) KeyForDisplay(display string) (string, bool) {
	key, ok := idx.displayToKey[display]
	return key, ok
}

// Keys returns the set of normalized keys present in the index, for use as
// an exclusion set against another index's matches.
func (idx *Index) Keys() map[string]bool {
	keys := make(map[string]bool, len(idx.byKey))
	for k := range idx.byKey {
		keys[k] = true
	}
	return keys
}

// Resolve reconciles a history record against the index. An id match always
// wins over a text match, even when both would succeed, so renamed titles do
// not drift away from their stable identifier. A fallback match registers
// the entry's display name in the display-to-key table if absent, so later
// exclusion lookups by display name succeed for fallback-only matches.
// The second return is false when the record matches nothing.
func (idx *Index) Resolve(id, title, artist string) (Match, bool) {
	if id != "" {
		if entry, ok := idx.byID[id]; ok {
			return Match{Kind: MatchByID, Entry: entry}, true
		}
	}

	key := NormalizeKey(title, artist)
	if entry, ok := idx.byKey[key]; ok {
		putIfAbsent(idx.displayToKey, entry.Display, key)
		return Match{Kind: MatchByNameArtist, Entry: entry}, true
	}

	return Match{}, false
}

func putIfAbsent[V any](m map[string]V, key string, value V) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
