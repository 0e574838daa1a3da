package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bruinplan/scrape/browser"
	"github.com/bruinplan/scrape/db"
	"github.com/bruinplan/scrape/emit"
	"golang.org/x/net/html"
)

const courseUrlTemplate = "https://catalog.registrar.ucla.edu/course/%d/%s"

const titleNotFound = "TITLE NOT FOUND"

var unitsRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s+units?`)
var requisiteRe = regexp.MustCompile(`(?is)Requisites?:\s*(.*?)\.`)

var errNoCodes = errors.New("details: input contains no course codes")

// SanitizeCode turns a course code as written ("COM SCI 31", "'EE&C 100'")
// into the form used in catalog URLs ("COMSCI31").
func SanitizeCode(line string) string {
	line = strings.Trim(strings.TrimSpace(line), `"'`)
	line = strings.ReplaceAll(line, " ", "")
	line = strings.ReplaceAll(line, "&", "")
	return strings.ToUpper(line)
}

// ReadCodes reads one course code per line, skipping blanks.
func ReadCodes(r io.Reader) ([]string, error) {
	var codes []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if code := SanitizeCode(scanner.Text()); code != "" {
			codes = append(codes, code)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(codes) == 0 {
		return nil, errNoCodes
	}
	return codes, nil
}

// ParseUnitsAndRequisite pulls the first unit count and the requisite
// sentence out of a course page's text. Either may be missing.
func ParseUnitsAndRequisite(text string) (*float64, string) {
	if text == "" {
		return nil, ""
	}

	var units *float64
	if submatches := unitsRe.FindStringSubmatch(text); submatches != nil {
		if value, err := strconv.ParseFloat(submatches[1], 64); err == nil {
			units = &value
		}
	}

	var requisite string
	if submatches := requisiteRe.FindStringSubmatch(text); submatches != nil {
		requisite = strings.TrimSpace(submatches[1])
	}

	return units, requisite
}

// BodyText joins every non-blank text node of the document with single
// spaces. Script and style contents are skipped.
func BodyText(document *goquery.Document) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			if text := strings.TrimSpace(node.Data); text != "" {
				parts = append(parts, text)
			}
			return
		case html.ElementNode:
			switch node.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, node := range document.Nodes {
		walk(node)
	}

	return strings.Join(parts, " ")
}

// ParseCoursePage builds the CSV entry for one course from its page markup.
func ParseCoursePage(code, markup string) (db.CatalogEntry, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return db.CatalogEntry{}, err
	}

	title := titleNotFound
	if heading := document.Find("h1").First(); heading.Length() > 0 {
		title = strings.TrimSpace(heading.Text())
	}

	units, requisite := ParseUnitsAndRequisite(BodyText(document))

	return db.CatalogEntry{
		CourseCode:       code,
		Title:            title,
		Units:            units,
		PrerequisiteText: requisite,
	}, nil
}

type CourseScraper struct {
	Session     browser.Session
	Logger      *slog.Logger
	Year        int
	PageTimeout time.Duration
}

func (s *CourseScraper) CourseUrl(code string) string {
	return fmt.Sprintf(courseUrlTemplate, s.Year, code)
}

func (s *CourseScraper) ScrapeCourse(ctx context.Context, code string) (db.CatalogEntry, error) {
	if err := s.Session.Navigate(ctx, s.CourseUrl(code)); err != nil {
		return db.CatalogEntry{}, err
	}
	if err := s.Session.WaitFor(ctx, `() => document.querySelector("h1")`, s.PageTimeout); err != nil {
		return db.CatalogEntry{}, fmt.Errorf("details: waiting for title: %w", err)
	}

	markup, err := s.Session.ReadMarkup(ctx)
	if err != nil {
		return db.CatalogEntry{}, err
	}

	return ParseCoursePage(code, markup)
}

// ScrapeCourses writes one row per code. A page that fails becomes a failure
// row and the loop moves on. done is called after every code.
func (s *CourseScraper) ScrapeCourses(ctx context.Context, codes []string, writer *emit.CSVWriter, done func()) (int, error) {
	loaded := 0

	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}

		entry, err := s.ScrapeCourse(ctx, code)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return loaded, err
			}
			s.Logger.Warn("details: failed on course, page timed out or missing", "code", code, "timeout", browser.IsTimeout(err), "error", err)
			entry = db.CatalogEntry{CourseCode: code, Failed: true}
		} else {
			loaded++
		}

		if err := writer.Write(entry); err != nil {
			return loaded, fmt.Errorf("details: write row: %w", err)
		}
		if done != nil {
			done()
		}
	}

	return loaded, nil
}
