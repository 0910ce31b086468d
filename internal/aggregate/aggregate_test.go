package aggregate

import (
	"testing"

	"github.com/ademuri/spotify-history-tools/internal/history"
)

func qualifyingRecord() history.PlayRecord {
	return history.PlayRecord{
		TrackID:    "spotify:track:abc",
		TrackName:  "Safaera",
		ArtistName: "Bad Bunny",
		AlbumName:  "YHLQMDLG",
		Platform:   "Android OS 10 API 29 (samsung, SM-G973F)",
		MsPlayed:   180000,
		Timestamp:  "2020-03-15T04:20:00Z",
	}
}

func TestQualifiesDuration(t *testing.T) {
	config := DefaultConfig()

	rec := qualifyingRecord()
	cases := []struct {
		ms   int64
		want bool
	}{
		{0, false},
		{30000, false}, // boundary is strictly greater than
		{30001, true},
		{180000, true},
	}
	for _, c := range cases {
		rec.MsPlayed = c.ms
		if got := config.Qualifies(rec); got != c.want {
			t.Errorf("Qualifies with MsPlayed=%d = %v, want %v", c.ms, got, c.want)
		}
	}
}

func TestQualifiesExcludedPlatform(t *testing.T) {
	config := DefaultConfig()

	rec := qualifyingRecord()
	rec.Platform = "iOS 5.1.1 (iPod4,1)"
	if config.Qualifies(rec) {
		t.Error("excluded platform qualified despite long play")
	}

	// Exclusion is exact-match on the raw string; near misses pass.
	rec.Platform = "iOS 5.1.1 (iPod4,2)"
	if !config.Qualifies(rec) {
		t.Error("non-excluded platform was rejected")
	}
}

func TestEngineAddRejectsNonQualifying(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	rec := qualifyingRecord()
	rec.MsPlayed = 15000
	if engine.Add(rec) {
		t.Error("Add counted a short play")
	}
	if engine.Total != 0 {
		t.Errorf("Total = %d, want 0", engine.Total)
	}
	if len(engine.GlobalSongs) != 0 {
		t.Error("short play leaked into GlobalSongs")
	}
}

func TestEngineAddIncrementsEveryDimension(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	rec := qualifyingRecord()
	if !engine.Add(rec) {
		t.Fatal("qualifying record was rejected")
	}

	songKey, _ := TrackKey(rec)
	if engine.GlobalSongs[songKey] != 1 {
		t.Error("GlobalSongs not incremented")
	}
	if engine.GlobalArtists["Bad Bunny"] != 1 {
		t.Error("GlobalArtists not incremented")
	}
	if engine.SongsByYear.Counts("2020")[songKey] != 1 {
		t.Error("SongsByYear not incremented")
	}
	if engine.ArtistsByYear.Counts("2020")["Bad Bunny"] != 1 {
		t.Error("ArtistsByYear not incremented")
	}
	if engine.ArtistAlbums.Counts("Bad Bunny")["YHLQMDLG"] != 1 {
		t.Error("ArtistAlbums not incremented")
	}
	if engine.ArtistSongs.Counts("Bad Bunny")[songKey] != 1 {
		t.Error("ArtistSongs not incremented")
	}
}

func TestEngineSentinels(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	rec := qualifyingRecord()
	rec.TrackID = ""
	rec.TrackName = ""
	rec.ArtistName = ""
	rec.AlbumName = ""
	rec.Timestamp = ""
	if !engine.Add(rec) {
		t.Fatal("record with missing metadata was rejected")
	}

	if engine.GlobalArtists[UnknownArtist] != 1 {
		t.Errorf("missing artist not bucketed under %q", UnknownArtist)
	}
	if engine.ArtistAlbums.Counts(UnknownArtist)[UnknownAlbum] != 1 {
		t.Errorf("missing album not bucketed under %q", UnknownAlbum)
	}
	if engine.SongsByYear.Counts("Unknown") == nil {
		t.Error("missing timestamp not bucketed under the Unknown year")
	}
	if engine.Names.Get("name:"+UnknownTrack) != UnknownTrack {
		t.Error("missing track not recorded under the unknown sentinel")
	}
}

func TestTrackKey(t *testing.T) {
	cases := []struct {
		name        string
		rec         history.PlayRecord
		wantKey     string
		wantDisplay string
	}{
		{
			"id and full metadata",
			history.PlayRecord{TrackID: "uri", TrackName: "Song", ArtistName: "Artist"},
			"uri", "Song - Artist",
		},
		{
			"title only",
			history.PlayRecord{TrackName: "Song"},
			"name:Song", "Song",
		},
		{
			"id only",
			history.PlayRecord{TrackID: "uri"},
			"uri", "uri",
		},
		{
			"nothing",
			history.PlayRecord{},
			"name:" + UnknownTrack, UnknownTrack,
		},
	}
	for _, c := range cases {
		key, display := TrackKey(c.rec)
		if key != c.wantKey || display != c.wantDisplay {
			t.Errorf("%s: TrackKey = (%q, %q), want (%q, %q)", c.name, key, display, c.wantKey, c.wantDisplay)
		}
	}
}

func TestNamesFirstWriterWins(t *testing.T) {
	names := NewNames()
	names.SetIfAbsent("k", "First")
	names.SetIfAbsent("k", "Second")
	if got := names.Get("k"); got != "First" {
		t.Errorf("Get = %q, want First", got)
	}
	if got := names.Get("unrecorded"); got != "unrecorded" {
		t.Errorf("Get of unrecorded key = %q, want the key itself", got)
	}
}

func TestTopNTieBreaksByName(t *testing.T) {
	counts := Counts{"b": 5, "a": 5, "c": 7}
	names := map[string]string{"a": "Alpha", "b": "Beta", "c": "Gamma"}

	items := TopN(counts, func(k string) string { return names[k] }, 0)
	want := []Item{{"Gamma", 7}, {"Alpha", 5}, {"Beta", 5}}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestTopNTruncates(t *testing.T) {
	counts := Counts{"a": 1, "b": 2, "c": 3}
	if got := len(TopN(counts, nil, 2)); got != 2 {
		t.Errorf("TopN returned %d items, want 2", got)
	}
	if got := len(TopN(counts, nil, 0)); got != 3 {
		t.Errorf("TopN with n=0 returned %d items, want all 3", got)
	}
}

func TestGroupedCountsOrder(t *testing.T) {
	g := NewGroupedCounts()
	g.Inc("2021", "x")
	g.Inc("2019", "x")
	g.Inc("2021", "y")
	g.Inc("2020", "x")

	order := g.Order()
	wantOrder := []string{"2021", "2019", "2020"}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Fatalf("Order = %v, want %v", order, wantOrder)
		}
	}

	groups := g.Groups()
	wantSorted := []string{"2019", "2020", "2021"}
	for i := range wantSorted {
		if groups[i] != wantSorted[i] {
			t.Fatalf("Groups = %v, want %v", groups, wantSorted)
		}
	}
}

func TestSongYears(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	rec := qualifyingRecord()
	for _, ts := range []string{"2019-01-01T00:00:00Z", "2019-06-01T00:00:00Z", "2021-01-01T00:00:00Z"} {
		rec.Timestamp = ts
		engine.Add(rec)
	}

	songKey, _ := TrackKey(rec)
	years := engine.SongYears()[songKey]
	if years["2019"] != 2 || years["2021"] != 1 {
		t.Errorf("SongYears = %v, want 2019:2 and 2021:1", years)
	}
}
