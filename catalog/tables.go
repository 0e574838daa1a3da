// Package catalog holds the static catalog lookup tables and the per-run
// course accumulator.
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

type Requirement struct {
	Name      string `yaml:"name"`
	ID        int    `yaml:"id"`
	Variable  string `yaml:"variable"`
	Label     string `yaml:"label"`
	FiveUnits bool   `yaml:"five_units"`
}

type tableSet struct {
	Requirements []Requirement     `yaml:"requirements"`
	Foundations  []string          `yaml:"foundations"`
	Subjects     map[string]string `yaml:"subjects"`

	requirementsByName map[string]Requirement
	requirementsByID   map[int]Requirement
}

// Decoded once; never mutated afterwards.
var tables = mustLoadTables(tablesYAML)

func loadTables(data []byte) (*tableSet, error) {
	var t tableSet
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	t.requirementsByName = make(map[string]Requirement, len(t.Requirements))
	t.requirementsByID = make(map[int]Requirement, len(t.Requirements))
	for _, requirement := range t.Requirements {
		if _, dup := t.requirementsByID[requirement.ID]; dup {
			return nil, fmt.Errorf("duplicate requirement id %d", requirement.ID)
		}
		t.requirementsByName[requirement.Name] = requirement
		t.requirementsByID[requirement.ID] = requirement
	}

	return &t, nil
}

func mustLoadTables(data []byte) *tableSet {
	t, err := loadTables(data)
	if err != nil {
		panic("catalog: tables.yaml: " + err.Error())
	}
	return t
}

// Requirements returns the known GE requirements in table order.
func Requirements() []Requirement {
	return append([]Requirement(nil), tables.Requirements...)
}

func RequirementByName(name string) (Requirement, bool) {
	requirement, ok := tables.requirementsByName[name]
	return requirement, ok
}

func RequirementByID(id int) (Requirement, bool) {
	requirement, ok := tables.requirementsByID[id]
	return requirement, ok
}

func IsRequirement(name string) bool {
	_, ok := tables.requirementsByName[name]
	return ok
}

// Subjects returns a copy of the subject name to abbreviation table.
func Subjects() map[string]string {
	subjects := make(map[string]string, len(tables.Subjects))
	for name, abbreviation := range tables.Subjects {
		subjects[name] = abbreviation
	}
	return subjects
}

func Foundations() []string {
	return append([]string(nil), tables.Foundations...)
}

var labelCodeRe = regexp.MustCompile(`\(([A-Z0-9&][A-Z0-9& ]*)\)\s*$`)
var abbreviationStripRe = regexp.MustCompile(`[^A-Z0-9& ]`)

// SubjectAbbreviation maps a subject area name to its catalog abbreviation.
// Labels of the form "Name (CODE)" resolve to CODE. Unknown names are
// uppercased with anything but letters, digits, '&' and spaces removed.
func SubjectAbbreviation(subjectName string) string {
	subjectName = strings.TrimSpace(subjectName)

	if submatches := labelCodeRe.FindStringSubmatch(subjectName); submatches != nil {
		return strings.TrimSpace(submatches[1])
	}

	if abbreviation, ok := tables.Subjects[subjectName]; ok {
		return abbreviation
	}

	return strings.TrimSpace(abbreviationStripRe.ReplaceAllString(strings.ToUpper(subjectName), ""))
}
