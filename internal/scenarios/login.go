// Package scenarios holds the login cases. Each case drives the shop only
// through the page objects of its fixture.
package scenarios

import (
	"errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adyen/loginsuite/internal/pages"
	"github.com/adyen/loginsuite/internal/report"
	"github.com/adyen/loginsuite/internal/suite"
)

// Accounts of the demo shop
const (
	StandardUser          = "standard_user"
	LockedOutUser         = "locked_out_user"
	PerformanceGlitchUser = "performance_glitch_user"
	Password              = "secret_sauce"
	WrongPassword         = "wrong_password"
)

// Error banners the shop shows
const (
	ErrCredentialsMismatch = "Epic sadface: Username and password do not match any user in this service"
	ErrLockedOut           = "Epic sadface: Sorry, this user has been locked out."
	ErrUsernameRequired    = "Epic sadface: Username is required"
)

// InventoryPath is where a successful login lands.
const InventoryPath = "/inventory.html"

const (
	epic          = "Authorization"
	featureLogin  = "Login functionality"
	featureExtras = "Additional checks"
)

// SuccessfulLogin is TC-001.
var SuccessfulLogin = suite.Case{
	Name: "TC-001 successful login",
	Meta: report.Meta{
		ID:       "TC-001",
		Title:    "Successful login with valid credentials",
		Epic:     epic,
		Feature:  featureLogin,
		Story:    "Positive scenarios",
		Severity: report.SeverityCritical,
		Description: "Log in as standard_user with the right password. " +
			"Expect the inventory page and no error banner.",
	},
	Run: func(t suite.T, f *suite.Fixture) {
		step(t, f, "Open the login page", func(t suite.T) {
			require.NoError(t, f.Login.Open(f.Config.BaseURL))
			require.True(t, f.Login.IsLogoDisplayed(), "logo is not displayed")
		})
		step(t, f, "Enter valid credentials", func(t suite.T) {
			require.NoError(t, f.Login.Login(StandardUser, Password))
		})
		step(t, f, "Check the login succeeded", func(t suite.T) {
			url, err := f.Login.WaitForURL(InventoryPath, f.Config.Timeout)
			assert.NoError(t, err, "expected to land on %s, current URL is %s", InventoryPath, url)
		})
		step(t, f, "Check no error is shown", func(t suite.T) {
			assert.False(t, f.Login.IsErrorDisplayed(), "an error banner is shown after a successful login")
		})
	},
}

// WrongPasswordLogin is TC-002.
var WrongPasswordLogin = suite.Case{
	Name: "TC-002 wrong password",
	Meta: report.Meta{
		ID:       "TC-002",
		Title:    "Login with a wrong password",
		Epic:     epic,
		Feature:  featureLogin,
		Story:    "Negative scenarios",
		Severity: report.SeverityCritical,
		Description: "Log in as standard_user with a wrong password. " +
			"Expect the mismatch error and to stay on the login page.",
	},
	Run: func(t suite.T, f *suite.Fixture) {
		step(t, f, "Open the login page", func(t suite.T) {
			require.NoError(t, f.Login.Open(f.Config.BaseURL))
		})
		step(t, f, "Enter a valid username and a wrong password", func(t suite.T) {
			require.NoError(t, f.Login.Login(StandardUser, WrongPassword))
		})
		expectError(t, f, ErrCredentialsMismatch)
		step(t, f, "Check we stayed on the login page", func(t suite.T) {
			url, err := f.Login.CurrentURL()
			require.NoError(t, err)
			assert.Contains(t, url, f.Config.Host(), "left the login page after an error")
			assert.NotContains(t, url, InventoryPath)
		})
	},
}

// LockedOut is TC-003.
var LockedOut = suite.Case{
	Name: "TC-003 locked out user",
	Meta: report.Meta{
		ID:          "TC-003",
		Title:       "Login as a locked out user",
		Epic:        epic,
		Feature:     featureLogin,
		Story:       "Negative scenarios",
		Severity:    report.SeverityCritical,
		Description: "Log in as locked_out_user. Expect the locked out error.",
	},
	Run: func(t suite.T, f *suite.Fixture) {
		step(t, f, "Open the login page", func(t suite.T) {
			require.NoError(t, f.Login.Open(f.Config.BaseURL))
		})
		step(t, f, "Try to log in as the locked out user", func(t suite.T) {
			require.NoError(t, f.Login.Login(LockedOutUser, Password))
		})
		expectError(t, f, ErrLockedOut)
	},
}

// EmptyFields is TC-004. It relies on the fixture's fresh session for empty
// fields.
var EmptyFields = suite.Case{
	Name: "TC-004 empty fields",
	Meta: report.Meta{
		ID:          "TC-004",
		Title:       "Login with empty fields",
		Epic:        epic,
		Feature:     featureLogin,
		Story:       "Negative scenarios",
		Severity:    report.SeverityCritical,
		Description: "Submit the form without filling it. Expect the username required error.",
	},
	Run: func(t suite.T, f *suite.Fixture) {
		step(t, f, "Open the login page", func(t suite.T) {
			require.NoError(t, f.Login.Open(f.Config.BaseURL))
		})
		step(t, f, "Click login without entering anything", func(t suite.T) {
			require.NoError(t, f.Login.ClickLogin())
		})
		expectError(t, f, ErrUsernameRequired)
	},
}

// PerformanceGlitch is TC-005. The inventory gets the slow budget instead of
// the page timeout.
var PerformanceGlitch = suite.Case{
	Name: "TC-005 performance glitch user",
	Meta: report.Meta{
		ID:       "TC-005",
		Title:    "Login as performance_glitch_user",
		Epic:     epic,
		Feature:  featureLogin,
		Story:    "Special scenarios",
		Severity: report.SeverityCritical,
		Description: "Log in as performance_glitch_user and wait for the delayed inventory. " +
			"Expect the inventory page with products.",
	},
	Run: func(t suite.T, f *suite.Fixture) {
		step(t, f, "Open the login page", func(t suite.T) {
			require.NoError(t, f.Login.Open(f.Config.BaseURL))
		})
		step(t, f, "Enter the glitch user's credentials", func(t suite.T) {
			require.NoError(t, f.Login.Login(PerformanceGlitchUser, Password))
		})
		step(t, f, "Wait for the inventory page", func(t suite.T) {
			require.NoError(t, f.Inventory.WaitLoaded(f.Config.SlowTimeout))
		})
		step(t, f, "Check the login succeeded", func(t suite.T) {
			url, err := f.Login.WaitForURL(InventoryPath, f.Config.Timeout)
			assert.NoError(t, err, "not on the inventory page, current URL is %s", url)
		})
		step(t, f, "Check products are listed", func(t suite.T) {
			n, err := f.Inventory.ItemCount()
			require.NoError(t, err)
			assert.Positive(t, n, "no products on the inventory page")
		})
	},
}

// PageElements is TC-006.
var PageElements = suite.Case{
	Name: "TC-006 login page elements",
	Meta: report.Meta{
		ID:      "TC-006",
		Title:   "Login page elements",
		Epic:    epic,
		Feature: featureExtras,
	},
	Run: func(t suite.T, f *suite.Fixture) {
		step(t, f, "Open the login page", func(t suite.T) {
			require.NoError(t, f.Login.Open(f.Config.BaseURL))
		})
		for _, check := range []struct {
			name string
			ok   func() bool
		}{
			{"username field", func() bool { return f.Login.IsDisplayed(pages.UsernameField) }},
			{"password field", func() bool { return f.Login.IsDisplayed(pages.PasswordField) }},
			{"login button", func() bool { return f.Login.IsDisplayed(pages.LoginButton) }},
			{"logo", f.Login.IsLogoDisplayed},
			{"credentials column", func() bool { return f.Login.IsDisplayed(pages.BotColumn) }},
		} {
			step(t, f, "Check the "+check.name+" is shown", func(t suite.T) {
				assert.True(t, check.ok(), "%s is not displayed", check.name)
			})
		}
	},
}

// All lists the cases in run order.
func All() []suite.Case {
	return []suite.Case{
		SuccessfulLogin,
		WrongPasswordLogin,
		LockedOut,
		EmptyFields,
		PerformanceGlitch,
		PageElements,
	}
}

func expectError(t suite.T, f *suite.Fixture, want string) {
	t.Helper()
	step(t, f, "Check the error message", func(t suite.T) {
		got, err := f.Login.ErrorMessage()
		require.NoError(t, err)
		assert.Equal(t, want, got, "expected error %q, got %q", want, got)
	})
}

var errAssertion = errors.New("assertion failed")

// stepT marks its step failed on any failure reported while the step runs.
type stepT struct {
	suite.T
	failed bool
}

func (s *stepT) Errorf(format string, args ...any) {
	s.failed = true
	s.T.Helper()
	s.T.Errorf(format, args...)
}

// step groups assertions under a named report step. fn must assert through
// the T it is handed; a failure reported there fails the step.
func step(t suite.T, f *suite.Fixture, name string, fn func(t suite.T)) {
	t.Helper()
	_ = f.Report.Step(name, func() error {
		st := &stepT{T: t}
		fn(st)
		if st.failed {
			return errAssertion
		}
		return nil
	})
}
