package requirements

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bruinplan/scrape/db"
)

const (
	defaultUnits         = 4.0
	maxDescriptionLength = 200
)

// Matches short codes ("AF AMER 1", "MATH 31A") with an optional leading
// capitalized department name, then the rest of the line as a description.
var courseRe = regexp.MustCompile(`((?:[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+)?[A-Z]{2,4}\s+[A-Z]?\d+[A-Z]?)\s*[-–—,.]?\s*(.+?)(?:\s*\(|$)`)

var (
	leadingDigitsRe      = regexp.MustCompile(`^\d{3}`)
	unitsAnnotationRe    = regexp.MustCompile(`(?i)\(.*?units?.*?\)`)
	whitespaceRe         = regexp.MustCompile(`\s+`)
	parenthesizedUnitsRe = regexp.MustCompile(`(?i)\((\d+(?:\.\d+)?)\s*(?:units?|unit)`)
	bareUnitsRe          = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:units?|unit)`)
)

// isFalsePositive rejects matches that are phone numbers or TTY lines.
func isFalsePositive(code string) bool {
	if leadingDigitsRe.MatchString(code) && len(code) <= 6 {
		return true
	}
	if strings.Contains(code, "TTY") && len(code) < 10 {
		return true
	}
	return false
}

func lineUnits(line string) float64 {
	submatches := parenthesizedUnitsRe.FindStringSubmatch(line)
	if submatches == nil {
		submatches = bareUnitsRe.FindStringSubmatch(line)
	}
	if submatches == nil {
		return defaultUnits
	}
	units, err := strconv.ParseFloat(submatches[1], 64)
	if err != nil {
		return defaultUnits
	}
	return units
}

func cleanDescription(description string) string {
	description = strings.TrimSpace(unitsAnnotationRe.ReplaceAllString(description, ""))
	description = whitespaceRe.ReplaceAllString(description, " ")
	if runes := []rune(description); len(runes) > maxDescriptionLength {
		description = string(runes[:maxDescriptionLength])
	}
	return description
}

// ExtractCourses finds course mentions line by line. Each code is kept once,
// at its first mention.
func ExtractCourses(text string) []db.CourseRef {
	courses := []db.CourseRef{}
	seen := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		submatches := courseRe.FindStringSubmatch(line)
		if submatches == nil {
			continue
		}

		code := strings.TrimSpace(submatches[1])
		if isFalsePositive(code) || seen[code] {
			continue
		}
		seen[code] = true

		courses = append(courses, db.CourseRef{
			Code:        code,
			Description: cleanDescription(submatches[2]),
			Units:       lineUnits(line),
		})
	}

	return courses
}
