// Package platform collapses the thousands of raw device strings that appear
// in streaming history exports into a small set of comparable group labels.
package platform

import (
	"regexp"
	"strings"
)

var (
	bracketMeta   = regexp.MustCompile(`\s*\[[^\]]*\]\s*`)
	parenthetical = regexp.MustCompile(`\s*\([^\)]*\)\s*`)

	webWindows = regexp.MustCompile(`windows\s+(\d+)`)
	webMacOS   = regexp.MustCompile(`(?:mac\s*os\s*x|macos)\s+(\d+)`)
	webIOS     = regexp.MustCompile(`ios\s+(\d+)`)
	webAndroid = regexp.MustCompile(`android\s+(\d+)`)

	windowsMajor   = regexp.MustCompile(`(?i)^Windows\s+(\d+)\b`)
	androidMajor   = regexp.MustCompile(`(?i)^Android\s+(\d+)(?:[.\s]|$)`)
	androidOSMajor = regexp.MustCompile(`(?i)^Android(?:-tablet)?\s+OS\s+(\d+)`)
	iosMajor       = regexp.MustCompile(`(?i)^iOS\s+(\d+)(?:[.\s]|$)`)
	macMajor       = regexp.MustCompile(`(?i)^(?:Mac\s*OS\s*X|macOS|OS\s*X)\s+(\d+)(?:[.\s]|$)`)
)

// Classify maps a raw device/platform string to a coarse group label. It is
// pure and total: every input yields a label, with "" mapping to "Unknown".
// Rules are evaluated in order and the first match wins; the exact
// major-version extraction is part of the contract, since exclusion lists
// compare against these labels.
//
// Examples:
//
//	"Windows 10 (Unknown Ed)"        -> "Windows 10"
//	"Android OS 6.0.1 API 23)"       -> "Android 6"
//	"iOS 14.7.1 (iPhone12,3)"        -> "iOS 14"
//	"web_player linux ;firefox 62"   -> "Web Player Linux"
//	"Google Cast (Chromecast)"       -> "Google Cast"
//	"Mac OS X 13.6.9 (x86_64)"       -> "macOS 13"
func Classify(platform string) string {
	if platform == "" {
		return "Unknown"
	}

	p := strings.TrimRight(strings.TrimSpace(platform), ")")
	p = strings.TrimSpace(bracketMeta.ReplaceAllString(p, " "))
	pl := strings.ToLower(p)

	if strings.HasPrefix(pl, "web_player") || strings.HasPrefix(pl, "web player") {
		return classifyWebPlayer(p)
	}

	if strings.HasPrefix(pl, "partner") {
		return classifyPartner(p, pl)
	}

	if strings.HasPrefix(pl, "google cast") {
		return "Google Cast"
	}

	if m := windowsMajor.FindStringSubmatch(p); m != nil {
		return "Windows " + m[1]
	}
	if m := androidMajor.FindStringSubmatch(p); m != nil {
		return "Android " + m[1]
	}
	if m := androidOSMajor.FindStringSubmatch(p); m != nil {
		return "Android " + m[1]
	}
	if m := iosMajor.FindStringSubmatch(p); m != nil {
		return "iOS " + m[1]
	}
	if m := macMajor.FindStringSubmatch(p); m != nil {
		return "macOS " + m[1]
	}

	if strings.HasPrefix(pl, "linux") {
		return "Linux"
	}

	p = strings.TrimSpace(parenthetical.ReplaceAllString(p, ""))
	if p == "" {
		return "Unknown"
	}
	return p
}

// classifyWebPlayer handles "web_player <os>;<browser> ..." strings. The OS
// token is whatever precedes the first semicolon.
func classifyWebPlayer(p string) string {
	rest := ""
	if i := strings.IndexByte(p, ' '); i != -1 {
		rest = p[i+1:]
	}
	osToken := rest
	if i := strings.IndexByte(rest, ';'); i != -1 {
		osToken = rest[:i]
	}
	osToken = strings.TrimSpace(osToken)
	osTokenLower := strings.ToLower(osToken)

	if m := webWindows.FindStringSubmatch(osTokenLower); m != nil {
		return "Web Player Windows " + m[1]
	}
	if m := webMacOS.FindStringSubmatch(osTokenLower); m != nil {
		return "Web Player macOS " + m[1]
	}
	if strings.Contains(osTokenLower, "linux") {
		return "Web Player Linux"
	}
	if m := webIOS.FindStringSubmatch(osTokenLower); m != nil {
		return "Web Player iOS " + m[1]
	}
	if m := webAndroid.FindStringSubmatch(osTokenLower); m != nil {
		return "Web Player Android " + m[1]
	}

	cleaned := strings.TrimSpace(parenthetical.ReplaceAllString(osToken, ""))
	if cleaned == "" {
		cleaned = "Unknown"
	}
	return "Web Player " + titleCase(cleaned)
}

// titleCase uppercases the first letter of each space-separated word,
// lowercasing the rest, e.g. "chrome os" -> "Chrome Os".
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// classifyPartner handles "Partner ..." device strings for known automotive,
// TV, and cast device families.
func classifyPartner(p, pl string) string {
	if strings.Contains(pl, "tesla") {
		return "Tesla"
	}
	if strings.Contains(pl, "roku") {
		return "Roku TV"
	}
	if strings.Contains(pl, "cast") {
		if strings.Contains(pl, "group") {
			return "Google Cast Group"
		}
		return "Google Cast"
	}

	cleaned := strings.TrimSpace(parenthetical.ReplaceAllString(p, ""))
	if cleaned == "" {
		return "Partner"
	}
	return cleaned
}
