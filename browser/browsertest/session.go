// Package browsertest provides an in-memory browser.Session for tests.
package browsertest

import (
	"context"
	"sync"
	"time"

	"github.com/bruinplan/scrape/browser"
)

// Page is the canned content served for one URL.
type Page struct {
	Title  string
	Text   string
	Markup string
}

// Session serves Pages by URL. Hooks left nil succeed; every call is
// recorded.
type Session struct {
	Pages map[string]Page

	NavigateFunc func(url string) error
	WaitForFunc  func(url, predicate string) error
	ClickFunc    func(url, locator string) error
	EvalFunc     func(url, script string) (string, error)

	mu        sync.Mutex
	current   string
	Navigated []string
	Waited    []string
	Clicked   []string
	Evaluated []string
	Closed    int
}

var _ browser.Session = (*Session)(nil)

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	s.Navigated = append(s.Navigated, url)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.NavigateFunc != nil {
		if err := s.NavigateFunc(url); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.current = url
	s.mu.Unlock()
	return nil
}

func (s *Session) WaitFor(ctx context.Context, predicate string, timeout time.Duration) error {
	s.mu.Lock()
	s.Waited = append(s.Waited, predicate)
	url := s.current
	s.mu.Unlock()

	if s.WaitForFunc != nil {
		return s.WaitForFunc(url, predicate)
	}
	return nil
}

func (s *Session) Click(ctx context.Context, locator string) error {
	s.mu.Lock()
	s.Clicked = append(s.Clicked, locator)
	url := s.current
	s.mu.Unlock()

	if s.ClickFunc != nil {
		return s.ClickFunc(url, locator)
	}
	return nil
}

func (s *Session) Eval(ctx context.Context, script string) (string, error) {
	s.mu.Lock()
	s.Evaluated = append(s.Evaluated, script)
	url := s.current
	s.mu.Unlock()

	if s.EvalFunc != nil {
		return s.EvalFunc(url, script)
	}
	return "", nil
}

func (s *Session) ReadText(ctx context.Context) (string, error) {
	return s.page().Text, nil
}

func (s *Session) ReadMarkup(ctx context.Context) (string, error) {
	return s.page().Markup, nil
}

func (s *Session) Title(ctx context.Context) (string, error) {
	return s.page().Title, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed++
	return nil
}

// Current returns the URL of the last successful Navigate.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Pages[s.current]
}
