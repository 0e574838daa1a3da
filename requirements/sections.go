package requirements

import (
	"regexp"
	"strings"
)

const requirementsMarker = "Major Requirements"

// A section extends to the nearest other heading at least this far past its
// own start.
const minSectionLength = 50

type heading struct {
	name    string
	pattern *regexp.Regexp
}

func newHeading(name string) heading {
	// Headings sit at the start of a line, optionally behind markdown markers.
	return heading{name: name, pattern: regexp.MustCompile(`(?im)^[ \t#*>_-]*` + regexp.QuoteMeta(name))}
}

var headings = []heading{
	newHeading("Preparation for the Major"),
	newHeading("The Major"),
	newHeading("Areas of Concentration"),
	newHeading("Honors Program"),
}

// SplitSections cuts the requirements part of a major page into its named
// sections, in heading order. Pages without a "Major Requirements" marker
// have no sections.
func SplitSections(pageText string) []Section {
	index := strings.Index(pageText, requirementsMarker)
	if index < 0 {
		return nil
	}
	text := pageText[index:]

	var sections []Section
	for i, h := range headings {
		location := h.pattern.FindStringIndex(text)
		if location == nil {
			continue
		}
		start := location[0]

		end := len(text)
		from := start + minSectionLength
		if from < len(text) {
			for j, other := range headings {
				if j == i {
					continue
				}
				if otherLocation := other.pattern.FindStringIndex(text[from:]); otherLocation != nil {
					end = min(end, from+otherLocation[0])
				}
			}
		}

		sections = append(sections, Section{Name: h.name, Text: text[start:end]})
	}

	return sections
}
