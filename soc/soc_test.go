package soc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/bruinplan/scrape/browser"
	"github.com/bruinplan/scrape/browser/browsertest"
	"github.com/bruinplan/scrape/catalog"
	"github.com/bruinplan/scrape/emit"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsMarkup = `
<div class="ContainerWrapper"><h4>Anthropology</h4></div>
<div class="ContainerWrapper">
  <table class="table table-striped">
    <thead><tr><th>Number</th><th>Title</th><th></th><th></th><th></th><th>Foundation</th></tr></thead>
    <tbody>
      <tr>
        <td> 7 </td><td>Human Evolution</td><td></td><td></td><td></td>
        <td>Scientific Inquiry: Life Sciences<br>Society and Culture: Social Analysis<br>Writing II</td>
      </tr>
      <tr>
        <td>9</td><td>Culture and Society</td><td></td><td></td><td></td>
        <td>Writing II</td>
      </tr>
      <tr><td>12</td><td>Too few cells</td></tr>
    </tbody>
  </table>
</div>
<div class="ContainerWrapper"><h4>Dance (DANCE)</h4></div>
<div class="ContainerWrapper">
  <table class="table table-striped">
    <tbody>
      <tr>
        <td>M10</td><td>Dance in World Cultures</td><td></td><td></td><td></td>
        <td>
          Arts and Humanities: Visual and Performance Arts Analysis and Practice
        </td>
      </tr>
    </tbody>
  </table>
</div>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseResults(t *testing.T) {
	rows, err := ParseResults(resultsMarkup)
	require.NoError(t, err)

	expected := []Row{
		{
			SubjectName:   "Anthropology",
			CatalogNumber: "7",
			Title:         "Human Evolution",
			Categories:    []string{"Scientific Inquiry: Life Sciences", "Society and Culture: Social Analysis"},
		},
		{
			SubjectName:   "Dance (DANCE)",
			CatalogNumber: "M10",
			Title:         "Dance in World Cultures",
			Categories:    []string{"Arts and Humanities: Visual and Performance Arts Analysis and Practice"},
		},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResultsTableBeforeHeading(t *testing.T) {
	rows, err := ParseResults(`<div class="ContainerWrapper"><table class="table-striped"><tbody>
<tr><td>1</td><td>Orphan</td><td></td><td></td><td></td><td>Scientific Inquiry: Life Sciences</td></tr>
</tbody></table></div>`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAddRowsMergesDuplicates(t *testing.T) {
	acc := catalog.NewAccumulator()
	AddRows(acc, []Row{
		{SubjectName: "History", CatalogNumber: "1A", Title: "Western Civilization", Categories: []string{"Society and Culture: Historical Analysis"}},
		{SubjectName: "History", CatalogNumber: "1A", Title: "Western Civilization", Categories: []string{"Scientific Inquiry: Life Sciences"}},
	})

	require.Equal(t, 1, acc.Len())
	course, ok := acc.Get("HIST 1A")
	require.True(t, ok)
	assert.Equal(t, catalog.FiveUnits, course.Units)
	assert.Equal(t, []string{"Scientific Inquiry: Life Sciences", "Society and Culture: Historical Analysis"}, course.SortedCategories())
}

func foundationMarkup(category string) string {
	return `<div class="ContainerWrapper"><h4>Anthropology</h4></div>
<div class="ContainerWrapper"><table class="table-striped"><tbody>
<tr><td>7</td><td>Human Evolution</td><td></td><td></td><td></td><td>` + category + `</td></tr>
</tbody></table></div>`
}

func TestResultsAcrossFoundationsEmitOneClass(t *testing.T) {
	acc := catalog.NewAccumulator()
	for _, category := range []string{"Scientific Inquiry: Life Sciences", "Society and Culture: Social Analysis"} {
		rows, err := ParseResults(foundationMarkup(category))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		AddRows(acc, rows)
	}

	script := emit.GESQL(acc.Courses())

	assert.Equal(t, 1, strings.Count(script, "INSERT IGNORE INTO Class "))
	assert.Contains(t, script, "VALUES ('ANTHRO 7', 5, 'Human Evolution');")
	assert.Equal(t, 2, strings.Count(script, "INSERT IGNORE INTO RequirementClasses"))
	assert.Contains(t, script, "INSERT IGNORE INTO RequirementClasses (reqId, classId) VALUES (@r_life_sci_id, @c_id);")
	assert.Contains(t, script, "INSERT IGNORE INTO RequirementClasses (reqId, classId) VALUES (@r_social_id, @c_id);")
}

func fakeMasterList(failing string) *browsertest.Session {
	return &browsertest.Session{
		WaitForFunc: func(url, predicate string) error {
			if failing != "" && strings.Contains(predicate, failing) {
				return fmt.Errorf("wait: %w", browser.ErrTimeout)
			}
			return nil
		},
		EvalFunc: func(url, script string) (string, error) {
			if strings.Contains(script, "innerHTML") {
				return resultsMarkup, nil
			}
			return "", nil
		},
	}
}

func TestScrapeFoundation(t *testing.T) {
	session := fakeMasterList("")
	scraper := NewScraper(session, discardLogger())

	rows, err := scraper.ScrapeFoundation(context.Background(), "Foundations of Scientific Inquiry")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, []string{MasterListURL}, session.Navigated)
	require.Len(t, session.Clicked, 3)
	assert.Contains(t, session.Clicked[0], "Enter a Foundation (Required)")
	assert.Contains(t, session.Clicked[1], `"Foundations of Scientific Inquiry"`)
	assert.Contains(t, session.Clicked[2], "btn_gecourses_go")
}

func TestScrapeFoundationMissingOption(t *testing.T) {
	session := fakeMasterList("Foundations of Arts and Humanities")
	scraper := NewScraper(session, discardLogger())

	_, err := scraper.ScrapeFoundation(context.Background(), "Foundations of Arts and Humanities")
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrNotFound)
	assert.ErrorIs(t, err, browser.ErrTimeout)
	assert.Len(t, session.Clicked, 1)
}

func TestScrapeFoundationMissingHost(t *testing.T) {
	session := fakeMasterList("ucla-sa-soc-app")
	scraper := NewScraper(session, discardLogger())

	_, err := scraper.ScrapeFoundation(context.Background(), "Foundations of Society and Culture")
	require.ErrorIs(t, err, browser.ErrNotFound)
	assert.Contains(t, err.Error(), "host <ucla-sa-soc-app>")
	assert.Empty(t, session.Clicked)
}

func TestScrapeFoundationsSkipsFailures(t *testing.T) {
	session := fakeMasterList("Foundations of Society and Culture")
	scraper := NewScraper(session, discardLogger())
	acc := catalog.NewAccumulator()

	succeeded, err := scraper.ScrapeFoundations(context.Background(), catalog.Foundations(), acc)
	require.NoError(t, err)
	assert.Equal(t, 2, succeeded)
	assert.Len(t, session.Navigated, 3)

	// Both successful foundations returned the same rows; they merge.
	assert.Equal(t, 2, acc.Len())
	course, ok := acc.Get("DANCE M10")
	require.True(t, ok)
	assert.Equal(t, "Dance in World Cultures", course.Title)
	assert.Equal(t, catalog.FiveUnits, course.Units)
}

func TestScrapeFoundationsStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scraper := NewScraper(fakeMasterList(""), discardLogger())
	succeeded, err := scraper.ScrapeFoundations(ctx, catalog.Foundations(), catalog.NewAccumulator())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, succeeded)
}
