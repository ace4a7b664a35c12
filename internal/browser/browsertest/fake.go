// Package browsertest provides a scripted in-memory browser for tests that
// exercise page abstractions and fixtures without a real browser.
package browsertest

import (
	"errors"
	"time"

	"github.com/adyen/loginsuite/internal/browser"
)

// PNG is the fake screenshot payload: the 8-byte PNG signature.
var PNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Element is a scripted element. Zero value is a visible, enabled, empty element.
type Element struct {
	Content  string
	Value    string
	Hidden   bool
	Disabled bool
	// OnClick runs after a successful click.
	OnClick func() error
	Clicks  int
}

func (e *Element) Click() error {
	if e.Hidden || e.Disabled {
		return errors.New("element not interactable")
	}
	e.Clicks++
	if e.OnClick != nil {
		return e.OnClick()
	}
	return nil
}

func (e *Element) Clear() error {
	e.Value = ""
	return nil
}

func (e *Element) SendKeys(text string) error {
	if e.Hidden || e.Disabled {
		return errors.New("element not interactable")
	}
	e.Value += text
	return nil
}

func (e *Element) Text() (string, error) { return e.Content, nil }

func (e *Element) IsDisplayed() (bool, error) { return !e.Hidden, nil }

func (e *Element) IsEnabled() (bool, error) { return !e.Disabled, nil }

// Driver is a fake browser.Session. It is not safe for concurrent use.
type Driver struct {
	URL          string
	PollInterval time.Duration
	// OnNavigate replaces the page content when Navigate is called.
	OnNavigate  func(d *Driver, url string) error
	Screenshots int
	ScreenErr   error
	Closed      bool
	Navigations []string

	elements map[string][]*Element
	appearAt map[string]time.Time

	redirectTo string
	redirectAt time.Time
}

// New returns an empty page at about:blank.
func New() *Driver {
	return &Driver{
		URL:          "about:blank",
		PollInterval: 10 * time.Millisecond,
		elements:     make(map[string][]*Element),
		appearAt:     make(map[string]time.Time),
	}
}

// Set places elements under loc, replacing earlier ones.
func (d *Driver) Set(loc browser.Locator, els ...*Element) {
	d.elements[loc.Selector()] = els
	delete(d.appearAt, loc.Selector())
}

// SetAfter places elements under loc that only become findable after delay.
func (d *Driver) SetAfter(loc browser.Locator, delay time.Duration, els ...*Element) {
	d.elements[loc.Selector()] = els
	d.appearAt[loc.Selector()] = time.Now().Add(delay)
}

// Remove drops every element under loc.
func (d *Driver) Remove(loc browser.Locator) {
	delete(d.elements, loc.Selector())
	delete(d.appearAt, loc.Selector())
}

// Reset empties the page.
func (d *Driver) Reset() {
	d.elements = make(map[string][]*Element)
	d.appearAt = make(map[string]time.Time)
}

// Get returns the first element under loc, or nil.
func (d *Driver) Get(loc browser.Locator) *Element {
	if els := d.elements[loc.Selector()]; len(els) > 0 {
		return els[0]
	}
	return nil
}

func (d *Driver) visible(loc browser.Locator) []*Element {
	if at, ok := d.appearAt[loc.Selector()]; ok && time.Now().Before(at) {
		return nil
	}
	return d.elements[loc.Selector()]
}

func (d *Driver) Navigate(url string) error {
	d.Navigations = append(d.Navigations, url)
	d.URL = url
	d.redirectTo = ""
	if d.OnNavigate != nil {
		return d.OnNavigate(d, url)
	}
	return nil
}

// RedirectAfter moves the page to url once delay has passed, the way a form
// submission lands on its next document some time after the click.
func (d *Driver) RedirectAfter(url string, delay time.Duration) {
	d.redirectTo = url
	d.redirectAt = time.Now().Add(delay)
}

func (d *Driver) CurrentURL() (string, error) {
	if d.redirectTo != "" && !time.Now().Before(d.redirectAt) {
		d.URL = d.redirectTo
		d.redirectTo = ""
	}
	return d.URL, nil
}

func (d *Driver) Find(loc browser.Locator) (browser.Element, error) {
	els := d.visible(loc)
	if len(els) == 0 {
		return nil, browser.ErrNoSuchElement
	}
	return els[0], nil
}

func (d *Driver) FindAll(loc browser.Locator) ([]browser.Element, error) {
	var out []browser.Element
	for _, el := range d.visible(loc) {
		out = append(out, el)
	}
	return out, nil
}

func (d *Driver) WaitUntil(loc browser.Locator, cond browser.Condition, timeout time.Duration) (browser.Element, error) {
	return browser.Poll(d, loc, cond, timeout, d.PollInterval)
}

func (d *Driver) WaitForURL(fragment string, timeout time.Duration) (string, error) {
	return browser.PollURL(d, fragment, timeout, d.PollInterval)
}

func (d *Driver) Screenshot() ([]byte, error) {
	if d.ScreenErr != nil {
		return nil, d.ScreenErr
	}
	d.Screenshots++
	return PNG, nil
}

func (d *Driver) Close() error {
	d.Closed = true
	return nil
}

// Manager hands out fake drivers built by Build, or New when Build is nil.
type Manager struct {
	Build      func() *Driver
	AcquireErr error
	Acquired   []*Driver
	Closed     bool
}

func (m *Manager) Acquire() (browser.Session, error) {
	if m.AcquireErr != nil {
		return nil, m.AcquireErr
	}
	build := m.Build
	if build == nil {
		build = New
	}
	d := build()
	m.Acquired = append(m.Acquired, d)
	return d, nil
}

func (m *Manager) Close() error {
	m.Closed = true
	return nil
}
