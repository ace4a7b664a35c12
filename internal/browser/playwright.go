package browser

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

// LaunchOptions configures a browser Manager.
type LaunchOptions struct {
	// Browser is chromium, firefox or webkit. The chromedp backend takes
	// chromium only.
	Browser  string
	Headless bool
	// ActionTimeout bounds individual clicks and key presses.
	ActionTimeout time.Duration
	Width         int
	Height        int
}

func (o LaunchOptions) viewport() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 720
	}
	return w, h
}

// PlaywrightManager launches one browser and gives every session its own
// browser context, so cookies and storage never leak between tests.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    LaunchOptions
}

// NewPlaywrightManager starts the Playwright driver and launches the browser.
// Browsers must already be installed, e.g. with
// go run github.com/playwright-community/playwright-go/cmd/playwright install chromium
func NewPlaywrightManager(opts LaunchOptions) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch opts.Browser {
	case "", "chromium":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		_ = pw.Stop()
		return nil, fmt.Errorf("unsupported browser %q", opts.Browser)
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: b, opts: opts}, nil
}

// Acquire opens a fresh browser context and page.
func (m *PlaywrightManager) Acquire() (Session, error) {
	width, height := m.opts.viewport()
	bctx, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: width, Height: height},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	if m.opts.ActionTimeout > 0 {
		page.SetDefaultTimeout(float64(m.opts.ActionTimeout.Milliseconds()))
	}

	return &playwrightSession{context: bctx, page: page}, nil
}

// Close shuts down the browser and the Playwright driver.
func (m *PlaywrightManager) Close() error {
	var errs []error
	if err := m.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := m.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

type playwrightSession struct {
	context playwright.BrowserContext
	page    playwright.Page
}

func (s *playwrightSession) Navigate(url string) error {
	if _, err := s.page.Goto(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *playwrightSession) CurrentURL() (string, error) {
	return s.page.URL(), nil
}

func (s *playwrightSession) Find(loc Locator) (Element, error) {
	matches := s.page.Locator(loc.Selector())
	count, err := matches.Count()
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", loc, err)
	}
	if count == 0 {
		return nil, noSuchElement(loc)
	}
	return playwrightElement{loc: matches.First()}, nil
}

func (s *playwrightSession) FindAll(loc Locator) ([]Element, error) {
	all, err := s.page.Locator(loc.Selector()).All()
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", loc, err)
	}
	elements := make([]Element, 0, len(all))
	for _, l := range all {
		elements = append(elements, playwrightElement{loc: l})
	}
	return elements, nil
}

// WaitUntil uses Playwright's own selector waits for presence and
// visibility. Clickability has no single Playwright state, so it polls.
func (s *playwrightSession) WaitUntil(loc Locator, cond Condition, timeout time.Duration) (Element, error) {
	var state *playwright.WaitForSelectorState
	switch cond {
	case Present:
		state = playwright.WaitForSelectorStateAttached
	case Visible:
		state = playwright.WaitForSelectorStateVisible
	}
	// Playwright reads a zero timeout as "wait forever".
	if state == nil || timeout <= 0 {
		return Poll(s, loc, cond, timeout, DefaultPollInterval)
	}

	first := s.page.Locator(loc.Selector()).First()
	err := first.WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, &TimeoutError{Locator: loc, Condition: cond, Timeout: timeout, Last: err}
		}
		return nil, fmt.Errorf("wait for %s: %w", loc, err)
	}
	return playwrightElement{loc: first}, nil
}

func (s *playwrightSession) WaitForURL(fragment string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		return PollURL(s, fragment, timeout, DefaultPollInterval)
	}
	err := s.page.WaitForURL(regexp.MustCompile(regexp.QuoteMeta(fragment)), playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return s.page.URL(), &URLTimeoutError{Fragment: fragment, Timeout: timeout, URL: s.page.URL(), Last: err}
		}
		return s.page.URL(), fmt.Errorf("wait for URL containing %q: %w", fragment, err)
	}
	return s.page.URL(), nil
}

func (s *playwrightSession) Screenshot() ([]byte, error) {
	return s.page.Screenshot()
}

func (s *playwrightSession) Close() error {
	return s.context.Close()
}

type playwrightElement struct {
	loc playwright.Locator
}

func (e playwrightElement) Click() error { return e.loc.Click() }

func (e playwrightElement) Clear() error { return e.loc.Clear() }

func (e playwrightElement) SendKeys(text string) error { return e.loc.PressSequentially(text) }

func (e playwrightElement) Text() (string, error) { return e.loc.InnerText() }

func (e playwrightElement) IsDisplayed() (bool, error) { return e.loc.IsVisible() }

func (e playwrightElement) IsEnabled() (bool, error) { return e.loc.IsEnabled() }
