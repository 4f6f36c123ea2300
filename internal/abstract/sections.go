package abstract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Sections maps canonical section keys to cleaned section text. It is
// built fresh per document and read-only afterwards; absent keys read as
// empty strings.
type Sections map[Key]string

// Get returns the text stored under k, or "" when the section is absent.
func (s Sections) Get(k Key) string { return s[k] }

// ExtractSections pulls the structured abstract out of doc. The inline
// #abstract container is tried first; pages that only carry the abstract
// in citation metadata fall back to the citation_abstract meta tag. Both
// strategies tolerate zero matches and return an empty map.
func ExtractSections(doc *goquery.Document) Sections {
	if secs := sectionsFromDOM(doc); len(secs) > 0 {
		return secs
	}
	return sectionsFromMeta(doc)
}

// sectionsFromDOM walks <p><strong>Heading</strong> text…</p> blocks inside
// the #abstract container.
func sectionsFromDOM(doc *goquery.Document) Sections {
	secs := Sections{}
	doc.Find("#abstract p").Each(func(_ int, p *goquery.Selection) {
		strong := p.Find("strong").First()
		if strong.Length() == 0 {
			return
		}
		key, ok := ClassifyHeading(strong.Text())
		if !ok {
			return
		}
		secs[key] = stripHeadingPrefix(p.Text(), strong.Text())
	})
	return secs
}

// sectionsFromMeta parses the HTML fragment inside
// <meta name="citation_abstract" content="…"> and maps each h3/strong
// heading to the following paragraph, or to the remainder of a shared
// paragraph.
func sectionsFromMeta(doc *goquery.Document) Sections {
	secs := Sections{}
	content, ok := doc.Find(`meta[name="citation_abstract"]`).First().Attr("content")
	if !ok || strings.TrimSpace(content) == "" {
		return secs
	}
	inner, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return secs
	}
	inner.Find("h3, strong").Each(func(_ int, h *goquery.Selection) {
		key, ok := ClassifyHeading(h.Text())
		if !ok {
			return
		}
		text := ""
		if next := h.Next(); goquery.NodeName(next) == "p" {
			text = Clean(next.Text())
		} else if par := h.Parent(); goquery.NodeName(par) == "p" {
			text = stripHeadingPrefix(par.Text(), h.Text())
		}
		if text != "" {
			secs[key] = text
		}
	})
	return secs
}

// stripHeadingPrefix removes the heading run (and an optional trailing
// colon) from the front of a paragraph's full text.
func stripHeadingPrefix(whole, heading string) string {
	re := regexp.MustCompile(`(?i)^\s*` + regexp.QuoteMeta(strings.TrimSpace(heading)) + `\s*:?\s*`)
	return Clean(re.ReplaceAllString(whole, ""))
}
