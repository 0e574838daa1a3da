package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/bruinplan/scrape/browser"
	"github.com/bruinplan/scrape/db"
	"github.com/bruinplan/scrape/requirements"
)

const majorUrlTemplate = "https://catalog.registrar.ucla.edu/major/%d/%s"
const browseUrl = "https://catalog.registrar.ucla.edu/browse/College%20and%20Schools/CollegeofLettersandScience"

const expandAllJS = `() => {
	const paths = [
		"//a[contains(text(), 'Expand all')]",
		"//button[contains(text(), 'Expand all')]",
		"//*[contains(text(), 'Expand all')]",
	];
	for (const path of paths) {
		const node = document.evaluate(path, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (node && node.offsetParent !== null) return node;
	}
	return null;
}`

const expandCollapsedJS = `() => {
	const collapsed = document.querySelectorAll('[aria-expanded="false"]');
	for (const element of collapsed) {
		try {
			element.scrollIntoView(true);
			element.click();
		} catch (_) {}
	}
	return String(collapsed.length);
}`

func majorLinkJS(majorName string) string {
	quoted, _ := json.Marshal(majorName)
	return fmt.Sprintf(`() => Array.from(document.querySelectorAll("a")).find(a => a.textContent.includes(%s)) || null`, quoted)
}

type MajorScraper struct {
	Session browser.Session
	Logger  *slog.Logger
	Year    int

	// Settle is how long a freshly loaded page is given to render.
	Settle time.Duration
	// ExpandSettle is how long expanded sections are given to render.
	ExpandSettle time.Duration
}

func (s *MajorScraper) MajorUrl(majorName string) string {
	return fmt.Sprintf(majorUrlTemplate, s.Year, requirements.CatalogSlug(majorName))
}

// Open loads the major page, falling back to the College of Letters and
// Science browse page when the direct URL cannot be loaded.
func (s *MajorScraper) Open(ctx context.Context, majorName string) error {
	url := s.MajorUrl(majorName)
	s.Logger.Info("majors: loading major page", "url", url)

	if err := s.Session.Navigate(ctx, url); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		s.Logger.Warn("majors: could not load major page, trying browse page", "error", err)
		return s.openFromBrowse(ctx, majorName)
	}
	if err := browser.Pause(ctx, s.Settle); err != nil {
		return err
	}

	if s.looksMissing(ctx) {
		s.Logger.Warn("majors: page may not have loaded correctly, continuing", "url", url)
	}
	return nil
}

func (s *MajorScraper) looksMissing(ctx context.Context) bool {
	title, err := s.Session.Title(ctx)
	if err == nil && strings.Contains(strings.ToLower(title), "404") {
		return true
	}
	markup, err := s.Session.ReadMarkup(ctx)
	return err == nil && strings.Contains(strings.ToLower(markup), "not found")
}

func (s *MajorScraper) openFromBrowse(ctx context.Context, majorName string) error {
	if err := s.Session.Navigate(ctx, browseUrl); err != nil {
		return fmt.Errorf("majors: load browse page: %w", err)
	}
	if err := browser.Pause(ctx, s.Settle); err != nil {
		return err
	}

	if err := s.Session.Click(ctx, majorLinkJS(majorName)); err != nil {
		return fmt.Errorf("majors: could not access major page for %s: %w", majorName, err)
	}
	s.Logger.Info("majors: followed major link on browse page")

	return browser.Pause(ctx, s.Settle)
}

// Expand opens collapsed requirement sections. Failures are logged and the
// page is read as it stands.
func (s *MajorScraper) Expand(ctx context.Context) error {
	err := s.Session.Click(ctx, expandAllJS)
	switch {
	case err == nil:
		s.Logger.Info("majors: clicked expand all")
	case errors.Is(err, context.Canceled):
		return err
	default:
		if !errors.Is(err, browser.ErrNotFound) {
			s.Logger.Warn("majors: expand all failed", "error", err)
		}
		count, err := s.Session.Eval(ctx, expandCollapsedJS)
		if err != nil {
			s.Logger.Warn("majors: could not expand sections, continuing with current page state", "error", err)
		} else {
			s.Logger.Info("majors: expanded collapsed sections", "count", count)
		}
	}

	return browser.Pause(ctx, s.ExpandSettle)
}

// Extract builds the requirement document from the page as rendered.
func (s *MajorScraper) Extract(ctx context.Context) (db.Major, error) {
	text, err := s.Session.ReadText(ctx)
	if err != nil {
		return db.Major{}, fmt.Errorf("majors: read page text: %w", err)
	}
	markup, err := s.Session.ReadMarkup(ctx)
	if err != nil {
		return db.Major{}, fmt.Errorf("majors: read page markup: %w", err)
	}
	return requirements.BuildMajor(markup, text)
}

func (s *MajorScraper) Scrape(ctx context.Context, majorName string) (db.Major, error) {
	if err := s.Open(ctx, majorName); err != nil {
		return db.Major{}, err
	}
	if err := s.Expand(ctx); err != nil {
		return db.Major{}, err
	}
	return s.Extract(ctx)
}

// ParseSavedPage builds the requirement document from saved page markup.
func ParseSavedPage(markup string) (db.Major, error) {
	text, err := requirements.TextFromMarkup(markup)
	if err != nil {
		return db.Major{}, fmt.Errorf("majors: convert saved page: %w", err)
	}
	return requirements.BuildMajor(markup, text)
}

// OutputName maps "African American Studies" to
// "african_american_studies_requirements.json".
func OutputName(majorName string) string {
	var words []string
	for _, field := range strings.Fields(strings.ToLower(majorName)) {
		word := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, field)
		if word != "" {
			words = append(words, word)
		}
	}
	if len(words) == 0 {
		words = []string{"major"}
	}
	return strings.Join(words, "_") + "_requirements.json"
}
