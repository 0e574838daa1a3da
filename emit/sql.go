// Package emit renders scraped records as the SQL scripts, CSV rows and JSON
// documents consumed downstream.
package emit

import (
	"fmt"
	"strings"

	"github.com/bruinplan/scrape/catalog"
	"github.com/bruinplan/scrape/db"
)

const rule = "-- ========================================================"

// quote doubles single quotes for a MySQL string literal.
func quote(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// GESQL renders the GE insert script. Courses are written in the order given;
// pass them sorted (catalog.Accumulator.Courses does) for a stable script.
func GESQL(courses []*db.Course) string {
	lines := []string{
		rule,
		"-- GE COURSE SCRIPT",
		"-- Uses INSERT IGNORE, which requires a UNIQUE constraint",
		"-- on the 'code' column of the 'Class' table.",
		rule,
		"",
		"----------------------------------------------------------",
		fmt.Sprintf("-- Total Courses Parsed: %d", len(courses)),
		"----------------------------------------------------------",
		"",
		rule,
		"-- STEP 1: DEFINE FIXED REQUIREMENT IDs (DO NOT CHANGE THESE)",
		rule,
		"",
	}

	for _, requirement := range catalog.Requirements() {
		lines = append(lines, fmt.Sprintf("SET %s = %d; -- %s", requirement.Variable, requirement.ID, requirement.Label))
	}

	lines = append(lines,
		"",
		rule,
		"-- STEP 2: INSERT CLASSES AND LINK THEM TO GE CATEGORIES",
		rule,
	)

	for _, course := range courses {
		code := quote(course.Code())
		title := quote(course.Title)

		lines = append(lines,
			fmt.Sprintf("\n-- %s: %s (%d units)", course.Code(), title, course.Units),
			fmt.Sprintf("INSERT IGNORE INTO Class (code, units, description) VALUES ('%s', %d, '%s');", code, course.Units, title),
			"SET @c_id = NULL;",
			fmt.Sprintf("SELECT id INTO @c_id FROM Class WHERE code = '%s' COLLATE utf8mb4_unicode_ci;", code),
		)

		for _, category := range course.SortedCategories() {
			requirement, ok := catalog.RequirementByName(category)
			if !ok {
				lines = append(lines, "-- WARNING: No ID found for category: "+category)
				continue
			}
			lines = append(lines, fmt.Sprintf("INSERT IGNORE INTO RequirementClasses (reqId, classId) VALUES (%s, @c_id);", requirement.Variable))
		}
	}

	return strings.Join(lines, "\n")
}

// FiveUnitCourses filters courses down to those inferred at 5 units.
func FiveUnitCourses(courses []*db.Course) []*db.Course {
	var fiveUnit []*db.Course
	for _, course := range courses {
		if course.Units == catalog.FiveUnits {
			fiveUnit = append(fiveUnit, course)
		}
	}
	return fiveUnit
}

// UnitsSQL renders the patch script that raises 5-unit GE courses from the
// default of 4. Courses not at 5 units are ignored.
func UnitsSQL(courses []*db.Course) string {
	fiveUnit := FiveUnitCourses(courses)

	lines := []string{
		rule,
		"-- PATCH SCRIPT FOR COURSE UNITS",
		"-- This script updates the 'units' column for courses that",
		"-- were incorrectly set to 4.",
		fmt.Sprintf("-- Total Courses to Update: %d", len(fiveUnit)),
		rule,
		"",
	}

	for _, course := range fiveUnit {
		code := quote(course.Code())
		lines = append(lines,
			fmt.Sprintf("-- Patching: %s -> %d units", code, catalog.FiveUnits),
			fmt.Sprintf("UPDATE Class SET units = %d WHERE code = '%s' COLLATE utf8mb4_unicode_ci;", catalog.FiveUnits, code),
		)
	}

	lines = append(lines, "\n-- --- END OF SCRIPT ---")
	return strings.Join(lines, "\n")
}

// RequirementClasses lists the (requirement, course) links the GE script
// creates, for loading straight into the database.
func RequirementClasses(courses []*db.Course) []db.RequirementClass {
	var links []db.RequirementClass
	for _, course := range courses {
		for _, category := range course.SortedCategories() {
			if requirement, ok := catalog.RequirementByName(category); ok {
				links = append(links, db.RequirementClass{RequirementID: requirement.ID, Code: course.Code()})
			}
		}
	}
	return links
}
