package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bruinplan/scrape/catalog"
	"github.com/bruinplan/scrape/db"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geCourses() []*db.Course {
	acc := catalog.NewAccumulator()
	acc.Upsert("History", "1A", "Western Civilization", []string{"Society and Culture: Historical Analysis"}, 5)
	acc.Upsert("History", "1A", "Western Civilization", []string{"Arts and Humanities: Literary and Cultural Analysis"}, 5)
	acc.Upsert("Anthropology", "7", "Human Evolution", []string{"Scientific Inquiry: Life Sciences"}, 4)
	acc.Upsert("English", "4W", "Critical Reading and Writing: Women's Voices", []string{"Writing II"}, 4)
	return acc.Courses()
}

func TestGESQLMergesDuplicateRows(t *testing.T) {
	script := GESQL(geCourses())

	assert.Equal(t, 1, strings.Count(script, "INSERT IGNORE INTO Class (code, units, description) VALUES ('HIST 1A'"))
	assert.Equal(t, 3, strings.Count(script, "INSERT IGNORE INTO RequirementClasses"))
	assert.Contains(t, script, "-- Total Courses Parsed: 3")
}

func TestGESQLCourseBlock(t *testing.T) {
	script := GESQL(geCourses())

	expected := strings.Join([]string{
		"",
		"-- HIST 1A: Western Civilization (5 units)",
		"INSERT IGNORE INTO Class (code, units, description) VALUES ('HIST 1A', 5, 'Western Civilization');",
		"SET @c_id = NULL;",
		"SELECT id INTO @c_id FROM Class WHERE code = 'HIST 1A' COLLATE utf8mb4_unicode_ci;",
		"INSERT IGNORE INTO RequirementClasses (reqId, classId) VALUES (@r_lit_cult_id, @c_id);",
		"INSERT IGNORE INTO RequirementClasses (reqId, classId) VALUES (@r_hist_id, @c_id);",
	}, "\n")
	assert.Contains(t, script, expected)
}

func TestGESQLHeaderAndOrder(t *testing.T) {
	script := GESQL(geCourses())

	for _, set := range []string{
		"SET @r_hist_id = 138; -- Society and Culture: Historical Analysis",
		"SET @r_social_id = 139; -- Society and Culture: Social Analysis",
		"SET @r_life_sci_id = 140; -- Scientific Inquiry: Life Sciences",
		"SET @r_lit_cult_id = 141; -- Arts and Humanities: Literary and Cultural Analysis",
		"SET @r_phil_ling_id = 142; -- Arts and Humanities: Philosophical and Linguistic Analysis",
		"SET @r_vis_perf_id = 143; -- Arts and Humanities: Visual and Performance Arts Analysis",
	} {
		assert.Contains(t, script, set)
	}

	anthro := strings.Index(script, "-- ANTHRO 7:")
	eng := strings.Index(script, "-- ENG 4W:")
	hist := strings.Index(script, "-- HIST 1A:")
	require.True(t, anthro > 0 && eng > 0 && hist > 0)
	assert.Less(t, anthro, eng)
	assert.Less(t, eng, hist)
}

func TestGESQLEscapesQuotesAndWarnsOnUnknownCategory(t *testing.T) {
	script := GESQL(geCourses())

	assert.Contains(t, script, "VALUES ('ENG 4W', 4, 'Critical Reading and Writing: Women''s Voices');")
	assert.Contains(t, script, "-- WARNING: No ID found for category: Writing II")
}

func TestGESQLIsDeterministic(t *testing.T) {
	assert.Equal(t, GESQL(geCourses()), GESQL(geCourses()))
}

func TestUnitsSQL(t *testing.T) {
	script := UnitsSQL(geCourses())

	expected := strings.Join([]string{
		"-- ========================================================",
		"-- PATCH SCRIPT FOR COURSE UNITS",
		"-- This script updates the 'units' column for courses that",
		"-- were incorrectly set to 4.",
		"-- Total Courses to Update: 1",
		"-- ========================================================",
		"",
		"-- Patching: HIST 1A -> 5 units",
		"UPDATE Class SET units = 5 WHERE code = 'HIST 1A' COLLATE utf8mb4_unicode_ci;",
		"",
		"-- --- END OF SCRIPT ---",
	}, "\n")

	if diff := cmp.Diff(expected, script); diff != "" {
		t.Fatalf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestRequirementClasses(t *testing.T) {
	expected := []db.RequirementClass{
		{RequirementID: 140, Code: "ANTHRO 7"},
		{RequirementID: 141, Code: "HIST 1A"},
		{RequirementID: 138, Code: "HIST 1A"},
	}
	if diff := cmp.Diff(expected, RequirementClasses(geCourses())); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVWriter(t *testing.T) {
	var buffer bytes.Buffer
	writer, err := NewCSVWriter(&buffer)
	require.NoError(t, err)

	four, half := 4.0, 2.5
	require.NoError(t, writer.Write(db.CatalogEntry{CourseCode: "COMSCI31", Title: "Introduction to Computer Science I", Units: &four, PrerequisiteText: "none"}))
	require.NoError(t, writer.Write(db.CatalogEntry{CourseCode: "MATH31A", Title: "Calculus, Part One", Units: &half}))
	require.NoError(t, writer.Write(db.CatalogEntry{CourseCode: "HIST999", Failed: true}))
	require.NoError(t, writer.Write(db.CatalogEntry{CourseCode: "PHYSICS1A", Title: "Mechanics"}))

	expected := "course_code,title,units,prerequisite_text\n" +
		"COMSCI31,Introduction to Computer Science I,4.0,none\n" +
		"MATH31A,\"Calculus, Part One\",2.5,\n" +
		"HIST999,PAGE FAILED TO LOAD,,\n" +
		"PHYSICS1A,Mechanics,,\n"
	assert.Equal(t, expected, buffer.String())
}

func TestMajorJSON(t *testing.T) {
	major := db.Major{
		MajorName: "History BA",
		School:    "College of Letters and Science",
		Requirements: []db.Requirement{{
			Name:            "Preparation for the Major",
			Type:            db.RequirementLowerDivision,
			CoursesToChoose: 1,
			Classes:         []db.CourseRef{{Code: "HIST 1A", Description: "Western Civilization", Units: 5}},
		}},
		RequirementGroups: []db.RequirementGroup{},
	}

	var buffer bytes.Buffer
	require.NoError(t, MajorJSON(&buffer, major))

	assert.Contains(t, buffer.String(), "\n  \"major_name\": \"History BA\",")
	assert.Contains(t, buffer.String(), `"type": "Lower Division"`)
	assert.Contains(t, buffer.String(), `"requirementGroups": []`)

	var decoded db.Major
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &decoded))
	if diff := cmp.Diff(major, decoded); diff != "" {
		t.Fatalf("major mismatch (-want +got):\n%s", diff)
	}
}
