package abstract

import "github.com/PuerkitoBio/goquery"

// TheStudy describes the trial population, arms, setting, and outcome.
type TheStudy struct {
	Participants      string `json:"participants"`
	Intervention      string `json:"intervention"`
	Comparator        string `json:"comparator"`
	PrimaryOutcome    string `json:"primary_outcome"`
	SettingsLocations string `json:"settings_locations"`
}

// Findings pairs the findings summary with its mined numeric evidence.
type Findings struct {
	Summary    string   `json:"summary"`
	KeyNumbers []string `json:"key_numbers"`
}

// ResearchInContext frames the study: what was known before, what this
// adds, and what it implies.
type ResearchInContext struct {
	Before       string `json:"before"`
	AddedValue   string `json:"added_value"`
	Implications string `json:"implications"`
}

// Record is the normalized visual-abstract record handed to rendering.
// Every field defaults to empty; a Record is complete even for a page with
// no recognizable abstract.
type Record struct {
	URL               string            `json:"url"`
	Title             string            `json:"title"`
	TheStudy          TheStudy          `json:"the_study"`
	Findings          Findings          `json:"findings"`
	ResearchInContext ResearchInContext `json:"research_in_context"`
}

// Assemble runs section extraction, Key Points enrichment, and the field
// miners over doc and returns the complete record. Assemble performs no
// I/O and never fails; missing content degrades to empty fields.
func Assemble(doc *goquery.Document, url string) Record {
	secs := ExtractSections(doc)
	kp := ExtractKeyPoints(doc)

	participants := secs.Get(KeyDSP)
	intervention := secs.Get(KeyInterventions)
	moam := secs.Get(KeyMOAM)
	conclusions := firstNonEmpty(secs.Get(KeyConclusions), secs.Get(KeyMeaning))

	summary := firstNonEmpty(kp.Findings, secs.Get(KeyResults))

	comparator := Comparator(intervention)
	if comparator == "" {
		comparator = Comparator(participants)
	}

	return Record{
		URL:   url,
		Title: Title(doc),
		TheStudy: TheStudy{
			Participants:      participants,
			Intervention:      intervention,
			Comparator:        comparator,
			PrimaryOutcome:    PrimaryOutcome(moam, participants+" "+intervention),
			SettingsLocations: SettingsLocations(secs),
		},
		Findings: Findings{
			Summary:    summary,
			KeyNumbers: KeyNumbers(summary),
		},
		ResearchInContext: ResearchInContext{
			Before:       firstNonEmpty(kp.Question, secs.Get(KeyImportance)),
			AddedValue:   secs.Get(KeyObjective),
			Implications: firstNonEmpty(kp.Meaning, conclusions),
		},
	}
}

// Title resolves the article title: page h1, then og:title, then
// citation_title. First non-empty wins, independent of section extraction.
func Title(doc *goquery.Document) string {
	if t := Clean(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	if c, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := Clean(c); t != "" {
			return t
		}
	}
	if c, ok := doc.Find(`meta[name="citation_title"]`).First().Attr("content"); ok {
		if t := Clean(c); t != "" {
			return t
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
