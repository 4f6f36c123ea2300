package abstract

import "strings"

// Key identifies a canonical abstract section. The set is closed;
// unrecognized headings are dropped rather than stored under new keys.
type Key string

const (
	KeyImportance        Key = "importance"
	KeyObjective         Key = "objective"
	KeyDSP               Key = "dsp"
	KeyInterventions     Key = "interventions"
	KeyMOAM              Key = "moam"
	KeyResults           Key = "results"
	KeyConclusions       Key = "conclusions"
	KeyMeaning           Key = "meaning"
	KeyTrialRegistration Key = "trial_registration"
	KeySettingsLocations Key = "settings_locations"
)

// headingKeys maps heading wordings, as they appear after Clean and
// lower-casing, to canonical keys. Matching is exact: fuzzy or partial
// matching would misfile unrelated headings that share words.
var headingKeys = map[string]Key{
	"importance":                         KeyImportance,
	"objective":                          KeyObjective,
	"design, setting, and participants":  KeyDSP,
	"design, settings, and participants": KeyDSP,
	"design and participants":            KeyDSP,
	"participants":                       KeyDSP,
	"intervention":                       KeyInterventions,
	"interventions":                      KeyInterventions,
	"main outcomes and measures":         KeyMOAM,
	"outcomes":                           KeyMOAM,
	"results":                            KeyResults,
	"conclusions and relevance":          KeyConclusions,
	"conclusions":                        KeyConclusions,
	"meaning":                            KeyMeaning,
	"trial registration":                 KeyTrialRegistration,
	"setting":                            KeySettingsLocations,
	"settings":                           KeySettingsLocations,
	"location":                           KeySettingsLocations,
	"locations":                          KeySettingsLocations,
	"settings/locations":                 KeySettingsLocations,
	"setting/locations":                  KeySettingsLocations,
	"setting and locations":              KeySettingsLocations,
	"settings and locations":             KeySettingsLocations,
	"study setting":                      KeySettingsLocations,
}

// ClassifyHeading maps a free-text heading to its canonical key. The input
// is cleaned, lower-cased, and stripped of a single trailing colon before
// the exact-match lookup. ok is false for anything outside the table.
func ClassifyHeading(h string) (Key, bool) {
	h = strings.ToLower(Clean(h))
	h = strings.TrimSuffix(h, ":")
	k, ok := headingKeys[h]
	return k, ok
}
