// Package render draws a visual-abstract record onto a fixed one-page
// landscape slide. Layout is deliberately simple: ten named placeholder
// regions with fixed positions, no theming.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/vabstudio/vabgen/internal/abstract"
)

// DefaultShrinkThreshold is the text length above which a placeholder
// drops to the smaller font size.
const DefaultShrinkThreshold = 700

const shrunkFontSize = 9.0

// Field carries a placeholder's short lead-in and full body text. Both
// default to the plain string when no richer structure exists, so the
// render boundary never deals with string-or-struct ambiguity.
type Field struct {
	Subtitle    string
	Description string
}

// Options controls slide behavior.
type Options struct {
	// ShrinkThreshold overrides DefaultShrinkThreshold when positive.
	ShrinkThreshold int
}

// placeholder is a named region of the fixed template.
type placeholder struct {
	name       string
	x, y, w, h float64
	size       float64
	bold       bool
}

// The fixed template: A4 landscape is 297x210 mm.
var layout = []placeholder{
	{name: "title", x: 10, y: 8, w: 277, h: 18, size: 15, bold: true},
	{name: "population_subtitle", x: 10, y: 34, w: 88, h: 8, size: 10, bold: true},
	{name: "population_description", x: 10, y: 44, w: 88, h: 70, size: 9},
	{name: "intervention_subtitle", x: 104, y: 34, w: 88, h: 8, size: 10, bold: true},
	{name: "intervention_description", x: 104, y: 44, w: 88, h: 70, size: 9},
	{name: "settings_locations_description", x: 198, y: 44, w: 89, h: 30, size: 9},
	{name: "primary_outcome_description", x: 198, y: 84, w: 89, h: 30, size: 9},
	{name: "findings_description_1", x: 10, y: 122, w: 277, h: 28, size: 10},
	{name: "findings_description_2", x: 10, y: 154, w: 277, h: 40, size: 9},
	{name: "footer_citation", x: 10, y: 198, w: 277, h: 8, size: 7},
}

// BuildFields maps a record onto the ten named placeholders. The mapping
// rules live here so they can be checked without writing a file: subtitles
// default to the first sentence, the intervention subtitle names the
// comparator when one was mined, and the findings summary splits into
// first sentence vs remainder.
func BuildFields(rec abstract.Record) map[string]Field {
	pop := rec.TheStudy.Participants
	inter := rec.TheStudy.Intervention

	interSubtitle := firstSentence(inter)
	if rec.TheStudy.Comparator != "" {
		interSubtitle = "Intervention vs " + rec.TheStudy.Comparator
	}

	summary := strings.TrimSpace(rec.Findings.Summary)
	first := firstSentence(summary)
	rest := strings.TrimSpace(strings.TrimPrefix(summary, first))

	return map[string]Field{
		"title":                          {Description: rec.Title},
		"footer_citation":                {Description: rec.URL},
		"population_subtitle":            {Subtitle: firstSentence(pop), Description: firstSentence(pop)},
		"population_description":         {Subtitle: firstSentence(pop), Description: pop},
		"intervention_subtitle":          {Subtitle: interSubtitle, Description: interSubtitle},
		"intervention_description":       {Subtitle: interSubtitle, Description: inter},
		"settings_locations_description": {Description: rec.TheStudy.SettingsLocations},
		"primary_outcome_description":    {Description: rec.TheStudy.PrimaryOutcome},
		"findings_description_1":         {Description: first},
		"findings_description_2":         {Description: rest},
	}
}

// Slide renders rec onto the fixed layout and writes a PDF to outPath,
// creating parent directories as needed.
func Slide(rec abstract.Record, outPath string, opts Options) error {
	threshold := opts.ShrinkThreshold
	if threshold <= 0 {
		threshold = DefaultShrinkThreshold
	}
	fields := BuildFields(rec)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)

	for _, ph := range layout {
		text := fields[ph.name].Description
		style := ""
		if ph.bold {
			style = "B"
		}
		size := fieldFontSize(ph.size, text, threshold)
		pdf.SetFont("Helvetica", style, size)
		pdf.SetXY(ph.x, ph.y)
		pdf.MultiCell(ph.w, size*0.5, text, "", "L", false)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write slide: %w", err)
	}
	return nil
}

// fieldFontSize picks the placeholder font size, dropping to the shrunk
// size when the text runs past threshold characters. The limit counts
// runes, not bytes, so non-ASCII prose is not penalized.
func fieldFontSize(base float64, text string, threshold int) float64 {
	if len([]rune(text)) > threshold {
		return shrunkFontSize
	}
	return base
}

// firstSentence returns text up to and including the first sentence
// terminator, or the whole text when none is found.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	parts := abstract.SplitSentences(text)
	return parts[0]
}
