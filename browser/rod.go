package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Config struct {
	// RemoteURL is the DevTools WebSocket URL of a running Chrome.
	// Empty launches a local Chrome.
	RemoteURL string

	Headless bool

	UserAgent string

	// NavigationTimeout bounds Navigate. Default: 30s.
	NavigationTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// RodSession is a Session backed by a single go-rod page.
type RodSession struct {
	cfg       Config
	browser   *rod.Browser
	lnch      *launcher.Launcher
	page      *rod.Page
	closeOnce sync.Once
}

// Launch starts (or connects to) Chrome and opens the page every later call
// runs against.
func Launch(ctx context.Context, cfg Config) (*RodSession, error) {
	cfg.defaults()
	log := cfg.Logger
	s := &RodSession{cfg: cfg}

	wsURL := cfg.RemoteURL
	if wsURL != "" {
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(cfg.Headless).
			NoSandbox(true).
			Set("disable-dev-shm-usage").
			Set("disable-gpu").
			Set("window-size", "1920,1080").
			Set("disable-blink-features", "AutomationControlled")

		u, err := l.Context(ctx).Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		s.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "headless", cfg.Headless)
	}

	s.browser = rod.New().Context(ctx).ControlURL(wsURL)
	if err := s.browser.Connect(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	var err error
	if cfg.Headless {
		s.page, err = stealth.Page(s.browser)
	} else {
		s.page, err = s.browser.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if err := s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}); err != nil {
		log.Warn("browser: set user agent failed", "error", err)
	}

	return s, nil
}

// classify maps rod and context failures onto ErrTimeout and ErrNotFound.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func truthy(script string) string {
	return fmt.Sprintf(`() => Boolean((%s)())`, script)
}

func (s *RodSession) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	page := s.page.Context(navCtx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, classify(err))
	}

	if err := page.WaitLoad(); err != nil {
		s.cfg.Logger.Warn("browser: wait load", "url", url, "error", err)
	}

	return nil
}

func (s *RodSession) WaitFor(ctx context.Context, predicate string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.page.Context(waitCtx).Wait(rod.Eval(truthy(predicate))); err != nil {
		return fmt.Errorf("browser: wait %v: %w", timeout, classify(err))
	}
	return nil
}

func (s *RodSession) Click(ctx context.Context, locator string) error {
	page := s.page.Context(ctx)

	found, err := page.Eval(truthy(locator))
	if err != nil {
		return fmt.Errorf("browser: locate: %w", classify(err))
	}
	if !found.Value.Bool() {
		return ErrNotFound
	}

	element, err := page.ElementByJS(rod.Eval(locator))
	if err != nil {
		return fmt.Errorf("browser: locate: %w", classify(err))
	}

	if err := element.Click(proto.InputMouseButtonLeft, 1); err != nil {
		// Elements inside shadow roots are not always hit-testable.
		s.cfg.Logger.Debug("browser: mouse click failed, clicking via script", "error", err)
		if _, err := element.Eval(`() => this.click()`); err != nil {
			return fmt.Errorf("browser: click: %w", classify(err))
		}
	}

	return nil
}

func (s *RodSession) Eval(ctx context.Context, script string) (string, error) {
	res, err := s.page.Context(ctx).Eval(script)
	if err != nil {
		return "", fmt.Errorf("browser: eval: %w", classify(err))
	}
	if res.Value.Nil() {
		return "", ErrNotFound
	}
	return res.Value.Str(), nil
}

func (s *RodSession) ReadText(ctx context.Context) (string, error) {
	return s.Eval(ctx, `() => document.body ? document.body.innerText : ""`)
}

func (s *RodSession) ReadMarkup(ctx context.Context) (string, error) {
	markup, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("browser: read markup: %w", classify(err))
	}
	return markup, nil
}

func (s *RodSession) Title(ctx context.Context) (string, error) {
	return s.Eval(ctx, `() => document.title`)
}

// Close tears down the page and Chrome. Safe to call more than once.
func (s *RodSession) Close() error {
	s.closeOnce.Do(func() {
		s.cleanup()
		s.cfg.Logger.Info("browser: closed")
	})
	return nil
}

func (s *RodSession) cleanup() {
	if s.page != nil {
		s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
}
