package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseCode(t *testing.T) {
	assert.Equal(t, "POL SCI 10", CourseCode("POL SCI", "10"))

	course := &Course{SubjectAbbreviation: "HIST", CatalogNumber: "M120A"}
	assert.Equal(t, "HIST M120A", course.Code())
}

func TestSortedCategories(t *testing.T) {
	course := &Course{Categories: make(map[string]struct{})}
	course.Categories["Society and Culture: Social Analysis"] = struct{}{}
	course.Categories["Arts and Humanities: Literary and Cultural Analysis"] = struct{}{}

	assert.Equal(t, []string{
		"Arts and Humanities: Literary and Cultural Analysis",
		"Society and Culture: Social Analysis",
	}, course.SortedCategories())
	assert.True(t, course.HasCategory("Society and Culture: Social Analysis"))
	assert.False(t, course.HasCategory("Writing II"))
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS class")
	assert.Contains(t, schema, "code        TEXT NOT NULL UNIQUE")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS requirement_classes")
}

func TestClassesBatch(t *testing.T) {
	batch := classesBatch([]*Course{
		{SubjectAbbreviation: "HIST", CatalogNumber: "1A", Title: "Western Civilization", Units: 5},
		{SubjectAbbreviation: "ENGCOMP", CatalogNumber: "3", Title: "English Composition", Units: 4},
	})

	require.Equal(t, 2, batch.Len())
	assert.Equal(t, insertClass, batch.QueuedQueries[0].SQL)
	assert.Equal(t, []any{"HIST 1A", 5, "Western Civilization"}, batch.QueuedQueries[0].Arguments)
	assert.Equal(t, []any{"ENGCOMP 3", 4, "English Composition"}, batch.QueuedQueries[1].Arguments)
	assert.Contains(t, insertClass, "ON CONFLICT (code) DO NOTHING")
}

func TestRequirementClassesBatch(t *testing.T) {
	batch := requirementClassesBatch([]RequirementClass{{RequirementID: 138, Code: "HIST 1A"}})

	require.Equal(t, 1, batch.Len())
	assert.Equal(t, insertRequirementClass, batch.QueuedQueries[0].SQL)
	assert.Equal(t, []any{138, "HIST 1A"}, batch.QueuedQueries[0].Arguments)
	assert.Contains(t, insertRequirementClass, "SELECT $1::integer, id FROM class WHERE lower(code) = lower($2)")
}

func TestUnitsBatch(t *testing.T) {
	batch := unitsBatch([]string{"HIST 1A", "ENGCOMP 3"}, 5)

	require.Equal(t, 2, batch.Len())
	assert.Equal(t, updateClassUnits, batch.QueuedQueries[1].SQL)
	assert.Equal(t, []any{5, "ENGCOMP 3"}, batch.QueuedQueries[1].Arguments)
}
