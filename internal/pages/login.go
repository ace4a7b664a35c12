// Package pages models the screens of the shop as page objects. Tests talk to
// page objects; only page objects talk to the browser driver.
package pages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adyen/loginsuite/internal/browser"
	"github.com/adyen/loginsuite/internal/report"
)

// Login screen locators
var (
	UsernameField = browser.ID("user-name")
	PasswordField = browser.ID("password")
	LoginButton   = browser.ID("login-button")
	ErrorMessage  = browser.CSS(`[data-test="error"]`)
	Logo          = browser.ClassName("login_logo")
	BotColumn     = browser.ClassName("bot_column")
)

// Options configure a page object.
type Options struct {
	// Timeout is the wait window for every interaction
	Timeout time.Duration
	// ScreenshotDir receives TakeScreenshot output
	ScreenshotDir string
	// Steps receives step annotations; nil discards them
	Steps report.Stepper
}

func (o Options) steps() report.Stepper {
	if o.Steps == nil {
		return report.Nop{}
	}
	return o.Steps
}

// LoginPage is the page object for the login screen.
type LoginPage struct {
	driver browser.Driver
	opts   Options
	steps  report.Stepper
}

// NewLoginPage wraps a driver it does not own.
func NewLoginPage(driver browser.Driver, opts Options) *LoginPage {
	return &LoginPage{driver: driver, opts: opts, steps: opts.steps()}
}

// Open navigates to url and waits for the logo to be present.
func (p *LoginPage) Open(url string) error {
	return p.steps.Step("Open the login page", func() error {
		if err := p.driver.Navigate(url); err != nil {
			return err
		}
		if _, err := p.driver.WaitUntil(Logo, browser.Present, p.opts.Timeout); err != nil {
			return fmt.Errorf("login page did not load: %w", err)
		}
		return nil
	})
}

// EnterUsername replaces the username field content.
func (p *LoginPage) EnterUsername(username string) error {
	return p.steps.Step(fmt.Sprintf("Enter username: '%s'", username), func() error {
		return p.typeInto(UsernameField, username)
	})
}

// EnterPassword replaces the password field content.
func (p *LoginPage) EnterPassword(password string) error {
	return p.steps.Step(fmt.Sprintf("Enter password: '%s'", password), func() error {
		return p.typeInto(PasswordField, password)
	})
}

func (p *LoginPage) typeInto(field browser.Locator, text string) error {
	el, err := p.driver.WaitUntil(field, browser.Clickable, p.opts.Timeout)
	if err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		return fmt.Errorf("clear %s: %w", field, err)
	}
	if err := el.SendKeys(text); err != nil {
		return fmt.Errorf("type into %s: %w", field, err)
	}
	return nil
}

// ClickLogin submits the form once the button is clickable.
func (p *LoginPage) ClickLogin() error {
	return p.steps.Step("Click the login button", func() error {
		el, err := p.driver.WaitUntil(LoginButton, browser.Clickable, p.opts.Timeout)
		if err != nil {
			return err
		}
		return el.Click()
	})
}

// Login fills both fields and submits. Whether the login worked is for the
// caller to check.
func (p *LoginPage) Login(username, password string) error {
	return p.steps.Step(fmt.Sprintf("Log in as %s/%s", username, password), func() error {
		if err := p.EnterUsername(username); err != nil {
			return err
		}
		if err := p.EnterPassword(password); err != nil {
			return err
		}
		return p.ClickLogin()
	})
}

// ErrorMessage returns the error banner text, or "" if no banner becomes
// visible within the wait window.
func (p *LoginPage) ErrorMessage() (string, error) {
	var text string
	err := p.steps.Step("Read the error message", func() error {
		el, err := p.driver.WaitUntil(ErrorMessage, browser.Visible, p.opts.Timeout)
		if errors.Is(err, browser.ErrTimeout) {
			return nil
		}
		if err != nil {
			return err
		}
		text, err = el.Text()
		return err
	})
	return text, err
}

// IsErrorDisplayed checks the error banner without waiting.
func (p *LoginPage) IsErrorDisplayed() bool {
	var shown bool
	_ = p.steps.Step("Check whether an error is displayed", func() error {
		shown = p.IsDisplayed(ErrorMessage)
		return nil
	})
	return shown
}

// IsLogoDisplayed checks the logo without waiting.
func (p *LoginPage) IsLogoDisplayed() bool {
	var shown bool
	_ = p.steps.Step("Check that the logo is displayed", func() error {
		shown = p.IsDisplayed(Logo)
		return nil
	})
	return shown
}

// IsDisplayed reports whether loc is present and visible right now. A missing
// element, or any driver failure, is reported as false.
func (p *LoginPage) IsDisplayed(loc browser.Locator) bool {
	el, err := p.driver.Find(loc)
	if err != nil {
		return false
	}
	shown, err := el.IsDisplayed()
	return err == nil && shown
}

// ClearForm empties both credential fields.
func (p *LoginPage) ClearForm() error {
	return p.steps.Step("Clear the form", func() error {
		for _, field := range []browser.Locator{UsernameField, PasswordField} {
			el, err := p.driver.Find(field)
			if err != nil {
				return err
			}
			if err := el.Clear(); err != nil {
				return fmt.Errorf("clear %s: %w", field, err)
			}
		}
		return nil
	})
}

// CurrentURL returns the session's current URL.
func (p *LoginPage) CurrentURL() (string, error) {
	var url string
	err := p.steps.Step("Get the current URL", func() error {
		var err error
		url, err = p.driver.CurrentURL()
		return err
	})
	return url, err
}

// WaitForURL waits up to timeout for a navigation to an address containing
// fragment and returns the URL the page ended up at.
func (p *LoginPage) WaitForURL(fragment string, timeout time.Duration) (string, error) {
	var url string
	err := p.steps.Step(fmt.Sprintf("Wait for the URL to contain %s", fragment), func() error {
		var err error
		url, err = p.driver.WaitForURL(fragment, timeout)
		return err
	})
	return url, err
}

// TakeScreenshot writes the viewport to ScreenshotDir/name, attaches it to
// the report and returns the file path.
func (p *LoginPage) TakeScreenshot(name string) (string, error) {
	var path string
	err := p.steps.Step("Take a screenshot", func() error {
		png, err := p.driver.Screenshot()
		if err != nil {
			return fmt.Errorf("capture screenshot: %w", err)
		}
		dir := p.opts.ScreenshotDir
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create screenshot dir: %w", err)
		}
		path = filepath.Join(dir, name)
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("write screenshot: %w", err)
		}
		p.steps.Attach(name, report.MimePNG, png)
		return nil
	})
	return path, err
}
