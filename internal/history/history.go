// Package history reads Spotify extended streaming history exports: a folder
// of JSON files, each holding either one large JSON array of play records or
// newline-delimited JSON objects.
package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Record is one raw history entry as decoded from an export file. Fields are
// loosely typed; use FromRecord to get a typed view.
type Record map[string]any

// PlayRecord is one listening event with the fields the analyses care about.
// Missing fields are zero values; MsPlayed is 0 when absent or unparsable.
type PlayRecord struct {
	TrackID    string
	TrackName  string
	ArtistName string
	AlbumName  string
	Platform   string
	MsPlayed   int64
	Timestamp  string
}

// FromRecord extracts the recognized export fields from a raw record.
// Unrecognized fields are ignored.
func FromRecord(r Record) PlayRecord {
	return PlayRecord{
		TrackID:    stringField(r, "spotify_track_uri"),
		TrackName:  stringField(r, "master_metadata_track_name"),
		ArtistName: stringField(r, "master_metadata_album_artist_name"),
		AlbumName:  stringField(r, "master_metadata_album_album_name"),
		Platform:   stringField(r, "platform"),
		MsPlayed:   int64Field(r, "ms_played"),
		Timestamp:  stringField(r, "ts"),
	}
}

func stringField(r Record, key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

func int64Field(r Record, key string) int64 {
	switch v := r[key].(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Each streams every record from the *.json files under folder, in sorted
// filename order and in-file order, calling fn once per record. Each file is
// first parsed as a whole JSON array; on failure it is re-read as
// newline-delimited JSON, skipping blank and malformed lines. Unreadable or
// fully unparseable files yield no records and do not abort the walk. Only
// one file's contents are held in memory at a time.
func Each(folder string, fn func(Record)) error {
	files, err := filepath.Glob(filepath.Join(folder, "*.json"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var rows []Record
		if err := json.Unmarshal(data, &rows); err == nil {
			for _, row := range rows {
				fn(row)
			}
			continue
		}

		for _, line := range bytes.Split(data, []byte("\n")) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			var row Record
			if err := json.Unmarshal(line, &row); err != nil {
				continue
			}
			fn(row)
		}
	}

	return nil
}

// Year returns the four-character year prefix of an export timestamp, or
// "Unknown" when the timestamp is absent or too short. No calendar
// validation is performed.
func Year(ts string) string {
	if len(ts) < 4 {
		return "Unknown"
	}
	return ts[:4]
}
