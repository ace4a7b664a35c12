// Package browser defines the capability a page abstraction needs from a
// browser-automation backend, plus Playwright and chromedp implementations.
package browser

import (
	"errors"
	"fmt"
	"time"
)

// Errors reported by drivers
var (
	ErrTimeout       = errors.New("element not ready in time")
	ErrNoSuchElement = errors.New("no such element")
)

// Element is a handle to one located element.
type Element interface {
	Click() error
	Clear() error
	SendKeys(text string) error
	Text() (string, error)
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
}

// Finder looks up elements without waiting.
type Finder interface {
	// Find returns the first match or an error wrapping ErrNoSuchElement.
	Find(loc Locator) (Element, error)
}

// Driver is the capability injected into page abstractions.
type Driver interface {
	Finder
	Navigate(url string) error
	CurrentURL() (string, error)
	FindAll(loc Locator) ([]Element, error)
	// WaitUntil blocks until the element matched by loc satisfies cond or the
	// timeout elapses, in which case the error matches ErrTimeout.
	WaitUntil(loc Locator, cond Condition, timeout time.Duration) (Element, error)
	// WaitForURL blocks until the page URL contains fragment and returns it.
	// On timeout it returns the last URL seen and an error matching ErrTimeout.
	WaitForURL(fragment string, timeout time.Duration) (string, error)
	Screenshot() ([]byte, error)
}

// Session is a Driver owned by whoever acquired it.
type Session interface {
	Driver
	Close() error
}

// Manager hands out isolated browser sessions.
type Manager interface {
	Acquire() (Session, error)
	Close() error
}

// Condition is a readiness state an element can be waited for.
type Condition int

// Wait conditions
const (
	Present Condition = iota
	Visible
	Clickable
)

func (c Condition) String() string {
	switch c {
	case Present:
		return "present"
	case Visible:
		return "visible"
	case Clickable:
		return "clickable"
	default:
		return fmt.Sprintf("condition(%d)", int(c))
	}
}

// Met reports whether el currently satisfies the condition.
func (c Condition) Met(el Element) (bool, error) {
	switch c {
	case Present:
		return true, nil
	case Visible:
		return el.IsDisplayed()
	case Clickable:
		shown, err := el.IsDisplayed()
		if err != nil || !shown {
			return false, err
		}
		return el.IsEnabled()
	default:
		return false, fmt.Errorf("unknown wait condition %d", int(c))
	}
}

// TimeoutError describes a wait that ran out of time.
type TimeoutError struct {
	Locator   Locator
	Condition Condition
	Timeout   time.Duration
	// Last is the most recent lookup or check failure, if any.
	Last error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for %s to be %s", e.Timeout, e.Locator, e.Condition)
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrTimeout) hold.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// URLTimeoutError describes a navigation that did not arrive in time.
type URLTimeoutError struct {
	Fragment string
	Timeout  time.Duration
	// URL is the last address the page had.
	URL  string
	Last error
}

func (e *URLTimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for the URL to contain %q, still at %q", e.Timeout, e.Fragment, e.URL)
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

func (e *URLTimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

func noSuchElement(loc Locator) error {
	return fmt.Errorf("%w: %s", ErrNoSuchElement, loc)
}
