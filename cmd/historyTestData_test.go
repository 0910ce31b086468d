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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// play mirrors the shape of one record in an extended streaming history
// export file.
type play struct {
	URI      string `json:"spotify_track_uri,omitempty"`
	Track    string `json:"master_metadata_track_name,omitempty"`
	Artist   string `json:"master_metadata_album_artist_name,omitempty"`
	Album    string `json:"master_metadata_album_album_name,omitempty"`
	Platform string `json:"platform,omitempty"`
	MsPlayed int64  `json:"ms_played"`
	TS       string `json:"ts,omitempty"`
}

func writeHistoryFolder(t *testing.T, plays []play) string {
	t.Helper()
	dir := t.TempDir()
	data, err := json.Marshal(plays)
	if err != nil {
		t.Fatalf("marshaling history: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Streaming_History_Audio_2020.json"), data, 0644); err != nil {
		t.Fatalf("writing history file: %v", err)
	}
	return dir
}

func longPlay(uri, track, artist, ts string) play {
	return play{
		URI:      uri,
		Track:    track,
		Artist:   artist,
		Album:    track + " (Album)",
		Platform: "Android OS 10 API 29 (samsung, SM-G973F)",
		MsPlayed: 180000,
		TS:       ts,
	}
}

func repeat(p play, n int) []play {
	plays := make([]play, n)
	for i := range plays {
		plays[i] = p
	}
	return plays
}
