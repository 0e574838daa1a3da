// Package requirements turns catalog major pages into requirement records.
//
// The parsing is keyword and pattern driven. It never fails: text that does
// not match a rule yields zero values.
package requirements

import (
	"log/slog"
	"strings"

	"github.com/bruinplan/scrape/db"
)

type Section struct {
	Name string
	Text string
}

// ParseGroup recognises a "choose N of M across groups" section such as
// "8 courses total: 4 in one concentration and 2 additional courses from each
// of the remaining 2 areas".
func ParseGroup(name, text string) (*db.RequirementGroup, bool) {
	lower := strings.ToLower(text)

	if !strings.Contains(lower, "total") && !strings.Contains(lower, "one") && !strings.Contains(lower, "each") {
		return nil, false
	}

	_, totalMatch, ok := firstMatch(totalRules, lower)
	if !ok {
		return nil, false
	}
	total := parseNumber(totalMatch[1])

	// Always one concentration, even when only the remaining areas are counted.
	numberOfHigh := 1
	var highNumber int
	if _, highMatch, ok := firstMatch(highRules, lower); ok {
		highNumber = parseNumber(highMatch[1])
	}

	var lowNumber, numberOfLow int
	if _, lowMatch, ok := firstMatch(lowRules, lower); ok {
		lowNumber = parseNumber(lowMatch[1])
		numberOfLow = parseNumber(lowMatch[2])
	}

	if total <= 0 || (highNumber <= 0 && lowNumber <= 0) {
		return nil, false
	}

	return &db.RequirementGroup{
		Name:             name,
		Total:            total,
		HighNumberInReq:  highNumber,
		NumberOfHighReqs: numberOfHigh,
		LowNumberInReq:   lowNumber,
		NumberOfLowReqs:  numberOfLow,
	}, true
}

// CoursesToChoose infers how many courses a section asks for. 0 means the
// text gave no count.
func CoursesToChoose(text string) int {
	lower := strings.ToLower(text)

	if _, submatches, ok := firstMatch(chooseRules, lower); ok {
		return parseNumber(submatches[1])
	}

	if strings.Contains(lower, "elective") || strings.Contains(lower, "select") {
		return 1
	}

	return 0
}

func ClassifyType(name string) db.RequirementType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "lower") || strings.Contains(lower, "preparation"):
		return db.RequirementLowerDivision
	case strings.Contains(lower, "upper"):
		return db.RequirementUpperDivision
	case strings.Contains(lower, "elective"):
		return db.RequirementElective
	case strings.Contains(lower, "honors"):
		return db.RequirementHonors
	case strings.Contains(lower, "capstone"):
		return db.RequirementCapstone
	default:
		return db.RequirementRequired
	}
}

// ParseSection returns a group, a simple requirement, or neither when the
// section has nothing actionable.
func ParseSection(section Section) (*db.RequirementGroup, *db.Requirement) {
	courses := ExtractCourses(section.Text)

	if group, ok := ParseGroup(section.Name, section.Text); ok {
		group.Classes = courses
		slog.Debug("requirements: group",
			"section", section.Name,
			"total", group.Total,
			"high", group.HighNumberInReq,
			"low", group.LowNumberInReq,
			"lowGroups", group.NumberOfLowReqs,
			"courses", len(courses))
		return group, nil
	}

	toChoose := CoursesToChoose(section.Text)
	if len(courses) == 0 && toChoose == 0 {
		slog.Debug("requirements: section has no courses", "section", section.Name)
		return nil, nil
	}

	if toChoose == 0 {
		toChoose = max(len(courses), 1)
	}

	requirement := &db.Requirement{
		Name:            section.Name,
		Type:            ClassifyType(section.Name),
		CoursesToChoose: toChoose,
		Classes:         courses,
	}
	slog.Debug("requirements: requirement", "section", section.Name, "courses", len(courses), "choose", toChoose)
	return nil, requirement
}
