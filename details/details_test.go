package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bruinplan/scrape/browser"
	"github.com/bruinplan/scrape/browser/browsertest"
	"github.com/bruinplan/scrape/emit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coursePageMarkup = `<html><head><title>COM SCI 31</title><script>var units = "99 units";</script></head>
<body>
<h1> Introduction to Computer Science I </h1>
<div>Lecture, four hours; discussion, two hours. 4.0 units</div>
<p>Requisites: course 1 (may be taken concurrently),
Mathematics 31A. Designed for students in engineering.</p>
</body></html>`

func TestSanitizeCode(t *testing.T) {
	testCases := map[string]string{
		"COM SCI 31":     "COMSCI31",
		"  'EE&C 100' ":  "EEC100",
		`"math 31a"`:     "MATH31A",
		"   ":            "",
		"ARCH&UD C201\r": "ARCHUDC201",
	}
	for input, expected := range testCases {
		assert.Equal(t, expected, SanitizeCode(input), input)
	}
}

func TestReadCodes(t *testing.T) {
	codes, err := ReadCodes(strings.NewReader("COM SCI 31\n\n'MATH 31A'\n  \nEE&C 100\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"COMSCI31", "MATH31A", "EEC100"}, codes)
}

func TestReadCodesEmpty(t *testing.T) {
	_, err := ReadCodes(strings.NewReader("\n  \n\"\"\n"))
	assert.ErrorIs(t, err, errNoCodes)
}

func TestParseUnitsAndRequisite(t *testing.T) {
	testCases := []struct {
		text      string
		units     *float64
		requisite string
	}{
		{"Lecture. 4.0 units Requisites: course 31. Letter grading.", ptr(4.0), "course 31"},
		{"2 UNITS. Requisite: none.", ptr(2.0), "none"},
		{"Seminar, 1 unit", ptr(1.0), ""},
		{"Requisites:\ncourse 1,\nMath 31A. More", nil, "course 1,\nMath 31A"},
		{"", nil, ""},
	}
	for _, tc := range testCases {
		units, requisite := ParseUnitsAndRequisite(tc.text)
		assert.Equal(t, tc.units, units, tc.text)
		assert.Equal(t, tc.requisite, requisite, tc.text)
	}
}

func ptr(value float64) *float64 {
	return &value
}

func TestParseCoursePage(t *testing.T) {
	entry, err := ParseCoursePage("COMSCI31", coursePageMarkup)
	require.NoError(t, err)

	assert.Equal(t, "COMSCI31", entry.CourseCode)
	assert.Equal(t, "Introduction to Computer Science I", entry.Title)
	require.NotNil(t, entry.Units)
	assert.Equal(t, 4.0, *entry.Units)
	assert.Equal(t, "course 1 (may be taken concurrently),\nMathematics 31A", entry.PrerequisiteText)
	assert.False(t, entry.Failed)
}

func TestParseCoursePageWithoutTitle(t *testing.T) {
	entry, err := ParseCoursePage("X1", "<html><body><p>Nothing here</p></body></html>")
	require.NoError(t, err)
	assert.Equal(t, titleNotFound, entry.Title)
	assert.Nil(t, entry.Units)
	assert.Empty(t, entry.PrerequisiteText)
}

func TestScrapeCourses(t *testing.T) {
	scraper := &CourseScraper{Year: 2024, PageTimeout: time.Second, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	session := &browsertest.Session{
		Pages: map[string]browsertest.Page{
			scraper.CourseUrl("COMSCI31"): {Markup: coursePageMarkup},
		},
		NavigateFunc: func(url string) error {
			if strings.HasSuffix(url, "/HIST999") {
				return errors.New("net::ERR_ABORTED")
			}
			return nil
		},
		WaitForFunc: func(url, predicate string) error {
			if strings.HasSuffix(url, "/MATH31A") {
				return fmt.Errorf("wait: %w", browser.ErrTimeout)
			}
			return nil
		},
	}
	scraper.Session = session

	var buffer bytes.Buffer
	writer, err := emit.NewCSVWriter(&buffer)
	require.NoError(t, err)

	calls := 0
	loaded, err := scraper.ScrapeCourses(context.Background(), []string{"COMSCI31", "HIST999", "MATH31A"}, writer, func() { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 3, calls)

	assert.Equal(t, "https://catalog.registrar.ucla.edu/course/2024/COMSCI31", session.Navigated[0])

	expected := "course_code,title,units,prerequisite_text\n" +
		"COMSCI31,Introduction to Computer Science I,4.0,\"course 1 (may be taken concurrently),\nMathematics 31A\"\n" +
		"HIST999,PAGE FAILED TO LOAD,,\n" +
		"MATH31A,PAGE FAILED TO LOAD,,\n"
	assert.Equal(t, expected, buffer.String())
}
