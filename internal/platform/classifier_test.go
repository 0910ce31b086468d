package platform

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "Unknown"},
		{"Android OS 6.0.1 API 23)", "Android 6"},
		{"Android OS 10 API 29 (samsung, SM-G973F)", "Android 10"},
		{"Android-tablet OS 5.0.2 API 21 (samsung, SM-P350)", "Android 5"},
		{"Android 4.1.1", "Android 4"},
		{"Windows 10 (Unknown Ed)", "Windows 10"},
		{"Windows 10 (10.0.19041; x64)", "Windows 10"},
		{"iOS 14.4 (iPhone12,1)", "iOS 14"},
		{"Mac OS X 10.15.7 [x86 8]", "macOS 10"},
		{"OS X 10.11.6 (15G22010)", "macOS 10"},
		{"web_player linux ;firefox 62", "Web Player Linux"},
		{"web_player windows 10;chrome 91.0.4472.124,,,", "Web Player Windows 10"},
		{"web_player macos 10.15.7;safari 14.1", "Web Player macOS 10"},
		{"web_player chrome os;chrome 90", "Web Player Chrome Os"},
		{"Partner sonos_unknown Sonos;Play5", "Partner sonos_unknown Sonos;Play5"},
		{"Partner tesla_unknown Tesla;Model3", "Tesla"},
		{"Partner roku_unknown Roku;RokuTV", "Roku TV"},
		{"Partner google cast_voice Google;Cast Group", "Google Cast Group"},
		{"Partner google cast_unknown Google;Chromecast", "Google Cast"},
		{"Google Cast (gc01)", "Google Cast"},
		{"Linux [x86-64 0]", "Linux"},
		{"linux", "Linux"},
		// The parenthetical strip does not reinsert the surrounding space.
		{"Garmin (fenix 6) GPS", "GarminGPS"},
	}

	for _, c := range cases {
		got := Classify(c.in)
		if got != c.want {
			t.Errorf("Classify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	in := "Android OS 9 API 28 (Google, Pixel 2)"
	first := Classify(in)
	for i := 0; i < 5; i++ {
		if got := Classify(in); got != first {
			t.Fatalf("Classify(%q) changed between calls: %q then %q", in, first, got)
		}
	}
}
