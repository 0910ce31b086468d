package history

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func collect(t *testing.T, folder string) []Record {
	t.Helper()
	var records []Record
	if err := Each(folder, func(r Record) {
		records = append(records, r)
	}); err != nil {
		t.Fatalf("Each: %v", err)
	}
	return records
}

func TestEachReadsArrayFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "history_2020.json",
		`[{"master_metadata_track_name": "Safaera", "ms_played": 120000},
		  {"master_metadata_track_name": "Yonaguni", "ms_played": 95000}]`)

	records := collect(t, dir)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if got := FromRecord(records[0]).TrackName; got != "Safaera" {
		t.Errorf("first record track = %q, want Safaera", got)
	}
}

func TestEachFallsBackToLineDelimited(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "history.json",
		`{"master_metadata_track_name": "A", "ms_played": 1}

not json at all
{"master_metadata_track_name": "B", "ms_played": 2}
`)

	records := collect(t, dir)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (malformed line skipped)", len(records))
	}
	if got := FromRecord(records[1]).TrackName; got != "B" {
		t.Errorf("second record track = %q, want B", got)
	}
}

func TestEachSkipsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_good.json", `[{"master_metadata_track_name": "Good"}]`)
	writeFile(t, dir, "b_corrupt.json", `{{{{ totally broken`)

	records := collect(t, dir)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := FromRecord(records[0]).TrackName; got != "Good" {
		t.Errorf("record track = %q, want Good", got)
	}
}

func TestEachProcessesFilesInSortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `[{"ts": "2021-01-01T00:00:00Z"}]`)
	writeFile(t, dir, "a.json", `[{"ts": "2020-01-01T00:00:00Z"}]`)

	records := collect(t, dir)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if FromRecord(records[0]).Timestamp != "2020-01-01T00:00:00Z" {
		t.Errorf("files were not processed in sorted filename order")
	}
}

func TestEachIgnoresNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "not a history file")
	writeFile(t, dir, "h.json", `[{"ms_played": 31000}]`)

	if got := len(collect(t, dir)); got != 1 {
		t.Errorf("got %d records, want 1", got)
	}
}

func TestFromRecordCoercesDuration(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want int64
	}{
		{"number", float64(45000), 45000},
		{"string", "45000", 45000},
		{"garbage string", "soon", 0},
		{"missing", nil, 0},
		{"wrong type", []any{}, 0},
	}
	for _, c := range cases {
		r := Record{}
		if c.raw != nil {
			r["ms_played"] = c.raw
		}
		if got := FromRecord(r).MsPlayed; got != c.want {
			t.Errorf("%s: MsPlayed = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestYear(t *testing.T) {
	cases := []struct {
		ts, want string
	}{
		{"2021-06-01T12:00:00Z", "2021"},
		{"2021", "2021"},
		{"20", "Unknown"},
		{"", "Unknown"},
	}
	for _, c := range cases {
		if got := Year(c.ts); got != c.want {
			t.Errorf("Year(%q) = %q, want %q", c.ts, got, c.want)
		}
	}
}
