package catalog

import (
	"slices"
	"strings"

	"github.com/bruinplan/scrape/db"
)

// Accumulator collects courses for one scrape run, keyed by course code.
type Accumulator struct {
	courses map[string]*db.Course
}

func NewAccumulator() *Accumulator {
	return &Accumulator{courses: make(map[string]*db.Course)}
}

// Upsert records an observation of a course. A course already seen under the
// same code gains the new categories; its title and units stay as first seen.
func (a *Accumulator) Upsert(subjectName, catalogNumber, title string, categories []string, units int) *db.Course {
	abbreviation := SubjectAbbreviation(subjectName)
	catalogNumber = strings.TrimSpace(catalogNumber)
	code := db.CourseCode(abbreviation, catalogNumber)

	course, ok := a.courses[code]
	if !ok {
		course = &db.Course{
			SubjectAbbreviation: abbreviation,
			CatalogNumber:       catalogNumber,
			Title:               strings.TrimSpace(title),
			Units:               units,
			Categories:          make(map[string]struct{}, len(categories)),
		}
		a.courses[code] = course
	}

	for _, category := range categories {
		course.Categories[strings.TrimSpace(category)] = struct{}{}
	}

	return course
}

func (a *Accumulator) Len() int {
	return len(a.courses)
}

func (a *Accumulator) Get(code string) (*db.Course, bool) {
	course, ok := a.courses[code]
	return course, ok
}

// Courses returns every accumulated course ordered by code.
func (a *Accumulator) Courses() []*db.Course {
	courses := make([]*db.Course, 0, len(a.courses))
	for _, course := range a.courses {
		courses = append(courses, course)
	}
	slices.SortFunc(courses, func(x, y *db.Course) int {
		return CompareCodes(x.Code(), y.Code())
	})
	return courses
}
