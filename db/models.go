package db

import "sort"

type Course struct {
	SubjectAbbreviation string
	CatalogNumber       string
	Title               string
	Units               int
	Categories          map[string]struct{}
}

func (c *Course) Code() string {
	return CourseCode(c.SubjectAbbreviation, c.CatalogNumber)
}

// SortedCategories returns the category names in lexicographic order.
func (c *Course) SortedCategories() []string {
	categories := make([]string, 0, len(c.Categories))
	for category := range c.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func (c *Course) HasCategory(category string) bool {
	_, ok := c.Categories[category]
	return ok
}

type RequirementType string

const (
	RequirementLowerDivision RequirementType = "Lower Division"
	RequirementUpperDivision RequirementType = "Upper Division"
	RequirementElective      RequirementType = "Elective"
	RequirementHonors        RequirementType = "Honors"
	RequirementCapstone      RequirementType = "Capstone"
	RequirementRequired      RequirementType = "Required"
)

type CourseRef struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Units       float64 `json:"units"`
}

type Requirement struct {
	Name            string          `json:"name"`
	Type            RequirementType `json:"type"`
	CoursesToChoose int             `json:"coursesToChoose"`
	Classes         []CourseRef     `json:"classes"`
}

// RequirementGroup is a pick pattern such as "8 courses total: 4 in one
// concentration, 2 from each of the remaining 2". Total is not checked
// against the high/low split.
type RequirementGroup struct {
	Name             string      `json:"name"`
	Total            int         `json:"total"`
	HighNumberInReq  int         `json:"highNumberInReq"`
	NumberOfHighReqs int         `json:"numberOfHighReqs"`
	LowNumberInReq   int         `json:"lowNumberInReq"`
	NumberOfLowReqs  int         `json:"numberOfLowReqs"`
	Classes          []CourseRef `json:"classes"`
}

type Major struct {
	MajorName         string             `json:"major_name"`
	School            string             `json:"school"`
	Requirements      []Requirement      `json:"requirements"`
	RequirementGroups []RequirementGroup `json:"requirementGroups"`
}

type CatalogEntry struct {
	CourseCode       string
	Title            string
	Units            *float64
	PrerequisiteText string
	Failed           bool
}

// SubjectArea is one entry of the Schedule of Classes subject list.
type SubjectArea struct {
	Code string
	Name string
}

// Term is one entry of the Schedule of Classes term selector, e.g.
// {Code: "25F", Name: "Fall 2025"}.
type Term struct {
	Code string
	Name string
}
