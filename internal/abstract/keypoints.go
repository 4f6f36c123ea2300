package abstract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// KeyPoints carries the three labeled lines of the optional Key Points box.
type KeyPoints struct {
	Question string
	Findings string
	Meaning  string
}

var keyPointLabel = regexp.MustCompile(`(?i)^(question|findings|meaning)\.?\s*(.+)$`)

// ExtractKeyPoints locates a Key Points box and pulls its
// Question/Findings/Meaning lines. The box is identified by an h2/h3/h4
// whose cleaned text is exactly "key points"; labeled paragraphs are
// collected from the heading's parent container. When a label repeats the
// last occurrence wins. A missing box yields the zero value.
func ExtractKeyPoints(doc *goquery.Document) KeyPoints {
	var kp KeyPoints
	var hdr *goquery.Selection
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.ToLower(Clean(h.Text())) == "key points" {
			hdr = h
			return false
		}
		return true
	})
	if hdr == nil {
		return kp
	}
	hdr.Parent().Find("p").Each(func(_ int, p *goquery.Selection) {
		m := keyPointLabel.FindStringSubmatch(Clean(p.Text()))
		if m == nil {
			return
		}
		val := Clean(m[2])
		switch strings.ToLower(m[1]) {
		case "question":
			kp.Question = val
		case "findings":
			kp.Findings = val
		case "meaning":
			kp.Meaning = val
		}
	})
	return kp
}
