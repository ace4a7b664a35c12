package browser

import (
	"strings"
	"time"
)

// DefaultPollInterval is how often Poll re-checks a condition.
const DefaultPollInterval = 500 * time.Millisecond

// Poll re-finds loc every interval until cond holds or timeout elapses. Lookup
// and check errors during polling are retried, not returned. The check always
// runs at least once, so a zero timeout is an immediate check.
func Poll(f Finder, loc Locator, cond Condition, timeout, interval time.Duration) (Element, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)
	var last error
	for {
		el, err := f.Find(loc)
		if err == nil {
			ok, checkErr := cond.Met(el)
			if checkErr == nil && ok {
				return el, nil
			}
			last = checkErr
		} else {
			last = err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &TimeoutError{Locator: loc, Condition: cond, Timeout: timeout, Last: last}
		}
		time.Sleep(min(interval, remaining))
	}
}

// URLReader reports the address of the current page.
type URLReader interface {
	CurrentURL() (string, error)
}

// PollURL re-reads the current URL every interval until it contains fragment
// or timeout elapses. It returns the last URL read either way.
func PollURL(r URLReader, fragment string, timeout, interval time.Duration) (string, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)
	var (
		current string
		last    error
	)
	for {
		url, err := r.CurrentURL()
		if err == nil {
			current = url
			if strings.Contains(url, fragment) {
				return url, nil
			}
		}
		last = err

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return current, &URLTimeoutError{Fragment: fragment, Timeout: timeout, URL: current, Last: last}
		}
		time.Sleep(min(interval, remaining))
	}
}
