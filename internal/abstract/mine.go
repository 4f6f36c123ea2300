package abstract

import "regexp"

// The miners below are independent pure functions over already-normalized
// section text. Each degrades to an empty string (or the documented last
// resort) instead of failing; "no match" is a valid result.

var comparatorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bvs\.?\s+([^.;:]+)`),
	regexp.MustCompile(`(?i)\bversus\s+([^.;:]+)`),
	regexp.MustCompile(`(?i)\bcompared with\s+([^.;:]+)`),
}

var (
	prMinMarker = regexp.MustCompile(`(?i)\bPR-?min\b`)
	prGymMarker = regexp.MustCompile(`(?i)\bPR-?gym\b`)
)

// Comparator finds the comparison arm in wording like
// "12-week PR-gym vs standard care", capturing up to the next sentence or
// clause boundary. Patterns are tried in order; first match wins.
func Comparator(text string) string {
	t := Clean(text)
	for _, re := range comparatorPatterns {
		if m := re.FindStringSubmatch(t); m != nil {
			return Clean(m[1])
		}
	}
	// failsafe for the PR-gym/PR-min trial wording, which names both arms
	// without a vs/versus connective
	if prMinMarker.MatchString(t) && prGymMarker.MatchString(t) {
		return "PR-gym"
	}
	return ""
}

// locationSignal marks sentences that describe where a study ran:
// numeric center/site/hospital counts, "across the <region>", capitalized
// place names, or multicenter/single-center markers.
var locationSignal = regexp.MustCompile(
	`(?i)(?:(?:\d+\s+(?:center|centers|site|sites|unit|units|hospital|hospitals))` +
		`|(?:across the\s+[A-Za-z ,\-]+)` +
		`|(?:in\s+[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)` +
		`|(?:multicenter|single-center|single centre|multicentre))`)

const maxLocationChars = 250

// SettingsLocations returns the explicit settings_locations section when
// present, and otherwise the first design/setting/participants sentence
// carrying a location signal, capped at 250 characters.
func SettingsLocations(secs Sections) string {
	if s := secs.Get(KeySettingsLocations); s != "" {
		return Clean(s)
	}
	dsp := secs.Get(KeyDSP)
	if dsp == "" {
		return ""
	}
	for _, sentence := range SplitSentences(dsp) {
		if !locationSignal.MatchString(sentence) {
			continue
		}
		s := Clean(sentence)
		if r := []rune(s); len(r) > maxLocationChars {
			s = string(r[:maxLocationChars])
		}
		return s
	}
	return ""
}

var primaryOutcomePattern = regexp.MustCompile(`(?i)(primary (?:outcome|endpoint)[^.;:]*[.;:]?)`)

// PrimaryOutcome pulls the "primary outcome"/"primary endpoint" clause out
// of the main-outcomes text, then out of the backup text, in that priority
// order. When neither names one, the (possibly empty) main-outcomes text
// is returned unchanged as a last resort.
func PrimaryOutcome(moam, backup string) string {
	for _, t := range []string{moam, backup} {
		if m := primaryOutcomePattern.FindStringSubmatch(Clean(t)); m != nil {
			return Clean(m[1])
		}
	}
	return Clean(moam)
}

// keyNumberPatterns are applied in priority order: sample sizes,
// percentages, p-values, effect sizes, confidence intervals, quantities.
var keyNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bn\s*=\s*\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,3}\s?%`),
	regexp.MustCompile(`(?i)\bp\s*[<=>]\s*0?\.\d+\b`),
	regexp.MustCompile(`(?i)\b(?:OR|RR|HR)\s*=\s*\d+(?:\.\d+)?\b`),
	regexp.MustCompile(`(?i)\bCI\s*\(?\d{1,2}%\)?\s*:\s*\d+(?:\.\d+)?\s*[–-]\s*\d+(?:\.\d+)?\b`),
	regexp.MustCompile(`(?i)\b[-+]?\d+(?:\.\d+)?\s*(?:m|km|min|days|weeks)\b`),
}

const maxKeyNumbers = 8

// KeyNumbers collects numeric evidence from a findings summary. Matches
// accumulate across all patterns in pattern order, duplicates are dropped
// keeping the first occurrence, and the result is capped at 8 entries.
func KeyNumbers(text string) []string {
	t := Clean(text)
	seen := make(map[string]bool)
	out := make([]string, 0, maxKeyNumbers)
	for _, re := range keyNumberPatterns {
		for _, m := range re.FindAllString(t, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
			if len(out) == maxKeyNumbers {
				return out
			}
		}
	}
	return out
}

var sentenceBoundary = regexp.MustCompile(`([.!?])\s+`)

// SplitSentences splits text on sentence terminators followed by
// whitespace, keeping the terminator with its sentence.
func SplitSentences(text string) []string {
	var out []string
	rest := text
	for {
		loc := sentenceBoundary.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		out = append(out, rest[:loc[3]])
		rest = rest[loc[1]:]
	}
	if rest != "" {
		out = append(out, rest)
	}
	return out
}
