// Package soc scrapes the GE master list on the Schedule of Classes site.
//
// The search form lives in nested shadow roots:
//
//	ucla-sa-soc-app
//	  #shadow-root
//	    iwe-autocomplete#select_soc_filter_geclasses_foundation
//	      #shadow-root
//	        input[placeholder="Enter a Foundation (Required)"]
//	        div[role="option"] ...
//	    input#btn_gecourses_go
//	    #divSearchResults
package soc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bruinplan/scrape/browser"
	"github.com/bruinplan/scrape/catalog"
)

const MasterListURL = "https://sa.ucla.edu/ro/Public/SOC/Search/GECoursesMasterList"

const (
	hostJS         = `document.querySelector("ucla-sa-soc-app")`
	hostRootJS     = `(` + hostJS + ` || {}).shadowRoot`
	autocompleteJS = `((` + hostRootJS + `) || document.createDocumentFragment()).querySelector('iwe-autocomplete[id="select_soc_filter_geclasses_foundation"]')`
	autoRootJS     = `((` + autocompleteJS + `) || {}).shadowRoot`
	foundationJS   = `((` + autoRootJS + `) || document.createDocumentFragment()).querySelector('input[placeholder="Enter a Foundation (Required)"]')`
	goButtonJS     = `((` + hostRootJS + `) || document.createDocumentFragment()).querySelector('input[id="btn_gecourses_go"]')`
	resultsJS      = `((` + hostRootJS + `) || document.createDocumentFragment()).querySelector("#divSearchResults")`
	firstHeadingJS = `((` + hostRootJS + `) || document.createDocumentFragment()).querySelector("#divSearchResults h4")`
)

type link struct {
	name    string
	locator string
}

var formChain = []link{
	{"host <ucla-sa-soc-app>", fn(hostJS)},
	{"<iwe-autocomplete> in host shadow root", fn(autocompleteJS)},
	{"foundation input in autocomplete shadow root", fn(foundationJS)},
}

func fn(expression string) string {
	return "() => " + expression
}

func optionLocator(foundation string) string {
	quoted, _ := json.Marshal(foundation)
	return fmt.Sprintf(`() => {
	const root = %s;
	if (!root) return null;
	for (const option of root.querySelectorAll('div[role="option"]')) {
		if (option.textContent.includes(%s)) return option;
	}
	return null;
}`, autoRootJS, quoted)
}

// Scraper runs GE master list searches on a shared session.
type Scraper struct {
	Session browser.Session
	Logger  *slog.Logger

	URL string
	// FormTimeout bounds the wait for each link of the form chain and for
	// the dropdown option.
	FormTimeout time.Duration
	// ResultsTimeout bounds the wait for the first subject heading.
	ResultsTimeout time.Duration
}

func NewScraper(session browser.Session, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		Session:        session,
		Logger:         logger,
		URL:            MasterListURL,
		FormTimeout:    10 * time.Second,
		ResultsTimeout: 15 * time.Second,
	}
}

// ScrapeFoundation searches one foundation and returns the parsed rows.
func (s *Scraper) ScrapeFoundation(ctx context.Context, foundation string) ([]Row, error) {
	log := s.Logger.With("foundation", foundation)

	log.Info("soc: loading master list", "url", s.URL)
	if err := s.Session.Navigate(ctx, s.URL); err != nil {
		return nil, fmt.Errorf("soc: load master list: %w", err)
	}

	for _, l := range formChain {
		if err := s.Session.WaitFor(ctx, l.locator, s.FormTimeout); err != nil {
			return nil, missing(l.name, err)
		}
		log.Debug("soc: found " + l.name)
	}

	if err := s.Session.Click(ctx, fn(foundationJS)); err != nil {
		return nil, fmt.Errorf("soc: open foundation dropdown: %w", err)
	}

	option := optionLocator(foundation)
	if err := s.Session.WaitFor(ctx, option, s.FormTimeout); err != nil {
		return nil, missing(fmt.Sprintf("option %q", foundation), err)
	}
	if err := s.Session.Click(ctx, option); err != nil {
		return nil, fmt.Errorf("soc: select option %q: %w", foundation, err)
	}

	if err := s.Session.Click(ctx, fn(goButtonJS)); err != nil {
		return nil, fmt.Errorf("soc: click go: %w", err)
	}

	log.Info("soc: waiting for search results")
	if err := s.Session.WaitFor(ctx, fn(firstHeadingJS), s.ResultsTimeout); err != nil {
		return nil, fmt.Errorf("soc: waiting for search results: %w", err)
	}

	markup, err := s.Session.Eval(ctx, fn(`(`+resultsJS+` || {}).innerHTML || ""`))
	if err != nil {
		return nil, fmt.Errorf("soc: read search results: %w", err)
	}

	rows, err := ParseResults(markup)
	if err != nil {
		return nil, fmt.Errorf("soc: parse search results: %w", err)
	}

	log.Info("soc: parsed search results", "rows", len(rows))
	return rows, nil
}

// missing reports a form element that never appeared as ErrNotFound while
// keeping the underlying wait error in the chain.
func missing(name string, err error) error {
	if browser.IsTimeout(err) {
		return fmt.Errorf("soc: %s: %w: %w", name, browser.ErrNotFound, err)
	}
	return fmt.Errorf("soc: %s: %w", name, err)
}

// ScrapeFoundations runs each foundation in turn, merging every row into acc.
// A foundation that fails is logged and skipped. It returns the number of
// foundations that succeeded.
func (s *Scraper) ScrapeFoundations(ctx context.Context, foundations []string, acc *catalog.Accumulator) (int, error) {
	succeeded := 0

	for _, foundation := range foundations {
		if err := ctx.Err(); err != nil {
			return succeeded, err
		}

		rows, err := s.ScrapeFoundation(ctx, foundation)
		if err != nil {
			switch {
			case errors.Is(err, context.Canceled):
				return succeeded, err
			case errors.Is(err, browser.ErrNotFound):
				s.Logger.Error("soc: page structure changed, skipping foundation", "foundation", foundation, "error", err)
			case browser.IsTimeout(err):
				s.Logger.Error("soc: timed out, skipping foundation", "foundation", foundation, "error", err)
			default:
				s.Logger.Error("soc: skipping foundation", "foundation", foundation, "error", err)
			}
			continue
		}

		AddRows(acc, rows)
		succeeded++
	}

	return succeeded, nil
}

// AddRows upserts rows into acc with units inferred from their categories.
func AddRows(acc *catalog.Accumulator, rows []Row) {
	for _, row := range rows {
		acc.Upsert(row.SubjectName, row.CatalogNumber, row.Title, row.Categories, catalog.InferUnits(row.Categories))
	}
}
