// Package browser drives a Chrome page for the scrapers. Scrapers depend on
// the Session interface; RodSession implements it with go-rod.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means an element the page is expected to contain is absent.
	ErrNotFound = errors.New("browser: element not found")
	// ErrTimeout means a wait condition did not hold before its deadline.
	ErrTimeout = errors.New("browser: timed out")
)

// Session is one browser tab reused across a scrape run.
//
// Scripts are JavaScript function expressions, e.g.
// `() => document.querySelector("h1")`. WaitFor polls a predicate until it
// returns a truthy value; Click clicks the element a locator returns.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, predicate string, timeout time.Duration) error
	Click(ctx context.Context, locator string) error
	Eval(ctx context.Context, script string) (string, error)
	ReadText(ctx context.Context) (string, error)
	ReadMarkup(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Close() error
}

// Pause sleeps for d or until ctx is done.
func Pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsTimeout reports whether err came from an expired wait.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
