package abstract

import "testing"

func TestClassifyHeading_Recognized(t *testing.T) {
	cases := []struct {
		in   string
		want Key
	}{
		{"Importance", KeyImportance},
		{"importance:", KeyImportance},
		{"  OBJECTIVE  ", KeyObjective},
		{"Design, Setting, and Participants", KeyDSP},
		{"Design, Settings, and Participants", KeyDSP},
		{"Design and Participants", KeyDSP},
		{"Participants", KeyDSP},
		{"Intervention", KeyInterventions},
		{"Interventions:", KeyInterventions},
		{"Main Outcomes and Measures", KeyMOAM},
		{"Outcomes", KeyMOAM},
		{"Results", KeyResults},
		{"Conclusions and Relevance", KeyConclusions},
		{"conclusions", KeyConclusions},
		{"Meaning", KeyMeaning},
		{"Trial Registration:", KeyTrialRegistration},
		{"Setting", KeySettingsLocations},
		{"Settings", KeySettingsLocations},
		{"Location", KeySettingsLocations},
		{"Locations", KeySettingsLocations},
		{"Settings/Locations", KeySettingsLocations},
		{"Settings and Locations", KeySettingsLocations},
		{"Study Setting", KeySettingsLocations},
	}
	for _, tc := range cases {
		got, ok := ClassifyHeading(tc.in)
		if !ok {
			t.Fatalf("ClassifyHeading(%q) not recognized", tc.in)
		}
		if got != tc.want {
			t.Fatalf("ClassifyHeading(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClassifyHeading_MatchesCanonicalForm(t *testing.T) {
	// any casing, trailing colon, or surrounding whitespace must classify
	// identically to the canonical wording
	variants := []string{
		"main outcomes and measures",
		"Main Outcomes and Measures:",
		"  MAIN OUTCOMES AND MEASURES  ",
	}
	want, ok := ClassifyHeading("Main Outcomes and Measures")
	if !ok {
		t.Fatalf("canonical form not recognized")
	}
	for _, v := range variants {
		got, ok := ClassifyHeading(v)
		if !ok || got != want {
			t.Fatalf("ClassifyHeading(%q) = %q/%v, want %q", v, got, ok, want)
		}
	}
}

func TestClassifyHeading_Unrecognized(t *testing.T) {
	for _, in := range []string{
		"", "Abstract", "Funding", "Main Outcomes", "Design",
		"Results and Conclusions", "outcome", "intervention arm",
	} {
		if k, ok := ClassifyHeading(in); ok {
			t.Fatalf("ClassifyHeading(%q) = %q, want unrecognized", in, k)
		}
	}
}
