package pages_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adyen/loginsuite/internal/browser"
	"github.com/adyen/loginsuite/internal/browser/browsertest"
	"github.com/adyen/loginsuite/internal/pages"
	"github.com/adyen/loginsuite/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shortWait = 100 * time.Millisecond

// loginScreen returns a fake driver showing an empty login form.
func loginScreen() *browsertest.Driver {
	d := browsertest.New()
	d.Set(pages.UsernameField, &browsertest.Element{})
	d.Set(pages.PasswordField, &browsertest.Element{})
	d.Set(pages.LoginButton, &browsertest.Element{Content: "Login"})
	d.Set(pages.Logo, &browsertest.Element{Content: "Swag Labs"})
	d.Set(pages.BotColumn, &browsertest.Element{})
	return d
}

func stepNames(steps []*report.StepResult) []string {
	var names []string
	for _, s := range steps {
		names = append(names, s.Name)
	}
	return names
}

func TestLoginPage_Open(t *testing.T) {
	// GIVEN a browser that renders the login form on navigation
	d := browsertest.New()
	d.OnNavigate = func(d *browsertest.Driver, url string) error {
		d.Set(pages.Logo, &browsertest.Element{})
		return nil
	}
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait})

	// WHEN the page is opened
	err := page.Open("https://shop.test/")

	// THEN the browser navigated and the logo is there
	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.test/"}, d.Navigations)
	assert.True(t, page.IsLogoDisplayed())
}

func TestLoginPage_OpenTimesOutWithoutLogo(t *testing.T) {
	page := pages.NewLoginPage(browsertest.New(), pages.Options{Timeout: shortWait})

	err := page.Open("https://shop.test/")

	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrTimeout)
	assert.Contains(t, err.Error(), "login page did not load")
}

func TestLoginPage_Login(t *testing.T) {
	// GIVEN a login form with stale input
	d := loginScreen()
	d.Get(pages.UsernameField).Value = "stale"
	rec := report.NewRecorder("login", report.Meta{})
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait, Steps: rec})

	// WHEN logging in
	err := page.Login("standard_user", "secret_sauce")

	// THEN fields hold exactly the credentials and the button was clicked once
	require.NoError(t, err)
	assert.Equal(t, "standard_user", d.Get(pages.UsernameField).Value)
	assert.Equal(t, "secret_sauce", d.Get(pages.PasswordField).Value)
	assert.Equal(t, 1, d.Get(pages.LoginButton).Clicks)

	result := rec.Finish(report.StatusPassed)
	require.Len(t, result.Steps, 1)
	login := result.Steps[0]
	assert.Equal(t, "Log in as standard_user/secret_sauce", login.Name)
	assert.Equal(t, report.StatusPassed, login.Status)
	assert.Equal(t, []string{
		"Enter username: 'standard_user'",
		"Enter password: 'secret_sauce'",
		"Click the login button",
	}, stepNames(login.Steps))
}

func TestLoginPage_EmptyValuesStillClearFields(t *testing.T) {
	d := loginScreen()
	d.Get(pages.UsernameField).Value = "left over"
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait})

	require.NoError(t, page.Login("", ""))

	assert.Empty(t, d.Get(pages.UsernameField).Value)
	assert.Empty(t, d.Get(pages.PasswordField).Value)
	assert.Equal(t, 1, d.Get(pages.LoginButton).Clicks)
}

func TestLoginPage_DisabledButtonTimesOut(t *testing.T) {
	d := loginScreen()
	d.Get(pages.LoginButton).Disabled = true
	rec := report.NewRecorder("disabled", report.Meta{})
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait, Steps: rec})

	err := page.ClickLogin()

	assert.ErrorIs(t, err, browser.ErrTimeout)
	assert.Zero(t, d.Get(pages.LoginButton).Clicks)
	result := rec.Finish(report.StatusFailed)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, report.StatusFailed, result.Steps[0].Status)
	assert.Contains(t, result.Steps[0].Message, "to be clickable")
}

func TestLoginPage_ErrorMessage(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *browsertest.Driver)
		want  string
	}{
		{
			name: "banner visible",
			setup: func(d *browsertest.Driver) {
				d.Set(pages.ErrorMessage, &browsertest.Element{Content: "Epic sadface: Username is required"})
			},
			want: "Epic sadface: Username is required",
		},
		{
			name: "banner appears late",
			setup: func(d *browsertest.Driver) {
				d.SetAfter(pages.ErrorMessage, 30*time.Millisecond, &browsertest.Element{Content: "late"})
			},
			want: "late",
		},
		{
			name:  "no banner",
			setup: func(d *browsertest.Driver) {},
			want:  "",
		},
		{
			name: "banner hidden",
			setup: func(d *browsertest.Driver) {
				d.Set(pages.ErrorMessage, &browsertest.Element{Content: "hidden", Hidden: true})
			},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := loginScreen()
			tt.setup(d)
			page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait})

			got, err := page.ErrorMessage()

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoginPage_IsErrorDisplayedDoesNotWait(t *testing.T) {
	d := loginScreen()
	d.SetAfter(pages.ErrorMessage, time.Hour, &browsertest.Element{})
	page := pages.NewLoginPage(d, pages.Options{Timeout: time.Hour})

	start := time.Now()
	assert.False(t, page.IsErrorDisplayed())
	assert.Less(t, time.Since(start), time.Second)

	d.Set(pages.ErrorMessage, &browsertest.Element{})
	assert.True(t, page.IsErrorDisplayed())
}

func TestLoginPage_IsDisplayed(t *testing.T) {
	d := loginScreen()
	d.Get(pages.BotColumn).Hidden = true
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait})

	assert.True(t, page.IsDisplayed(pages.UsernameField))
	assert.False(t, page.IsDisplayed(pages.BotColumn))
	assert.False(t, page.IsDisplayed(pages.ErrorMessage))
}

func TestLoginPage_ClearForm(t *testing.T) {
	d := loginScreen()
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait})
	require.NoError(t, page.EnterUsername("someone"))
	require.NoError(t, page.EnterPassword("something"))

	require.NoError(t, page.ClearForm())

	assert.Empty(t, d.Get(pages.UsernameField).Value)
	assert.Empty(t, d.Get(pages.PasswordField).Value)
}

func TestLoginPage_CurrentURL(t *testing.T) {
	d := loginScreen()
	d.URL = "https://shop.test/inventory.html"
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait})

	url, err := page.CurrentURL()

	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/inventory.html", url)
}

func TestLoginPage_WaitForURLAfterSubmit(t *testing.T) {
	// GIVEN a login button whose form lands on the inventory after a delay
	d := loginScreen()
	d.URL = "https://shop.test/"
	d.Get(pages.LoginButton).OnClick = func() error {
		d.RedirectAfter("https://shop.test/inventory.html", 40*time.Millisecond)
		return nil
	}
	rec := report.NewRecorder("wait", report.Meta{})
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait, Steps: rec})
	require.NoError(t, page.ClickLogin())

	// WHEN the URL is read straight away it is still the login page
	now, err := page.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/", now)

	// THEN waiting for the URL sees the navigation
	url, err := page.WaitForURL("/inventory.html", shortWait)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/inventory.html", url)
	result := rec.Finish(report.StatusPassed)
	assert.Contains(t, stepNames(result.Steps), "Wait for the URL to contain /inventory.html")
}

func TestLoginPage_WaitForURLTimesOut(t *testing.T) {
	d := loginScreen()
	d.URL = "https://shop.test/"
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait})

	url, err := page.WaitForURL("/inventory.html", shortWait)

	assert.ErrorIs(t, err, browser.ErrTimeout)
	assert.Equal(t, "https://shop.test/", url)
}

func TestLoginPage_TakeScreenshot(t *testing.T) {
	// GIVEN a page writing screenshots into a fresh directory
	dir := filepath.Join(t.TempDir(), "screenshots")
	d := loginScreen()
	rec := report.NewRecorder("shot", report.Meta{})
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait, ScreenshotDir: dir, Steps: rec})

	// WHEN a screenshot is taken
	path, err := page.TakeScreenshot("FAILED_login.png")

	// THEN the PNG is on disk and attached to the step
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "FAILED_login.png"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, browsertest.PNG, data)

	result := rec.Finish(report.StatusPassed)
	require.Len(t, result.Steps, 1)
	require.Len(t, result.Steps[0].Attachments, 1)
	assert.Equal(t, "FAILED_login.png", result.Steps[0].Attachments[0].Name)
	assert.Equal(t, report.MimePNG, result.Steps[0].Attachments[0].Type)
}

func TestLoginPage_TakeScreenshotFailure(t *testing.T) {
	d := loginScreen()
	d.ScreenErr = errors.New("target closed")
	page := pages.NewLoginPage(d, pages.Options{Timeout: shortWait, ScreenshotDir: t.TempDir()})

	_, err := page.TakeScreenshot("x.png")

	assert.ErrorContains(t, err, "target closed")
}

func TestInventoryPage(t *testing.T) {
	d := browsertest.New()
	d.SetAfter(pages.InventoryList, 30*time.Millisecond, &browsertest.Element{})
	d.Set(pages.InventoryItem, &browsertest.Element{}, &browsertest.Element{}, &browsertest.Element{})
	page := pages.NewInventoryPage(d, pages.Options{Timeout: shortWait})

	require.NoError(t, page.WaitLoaded(time.Second))
	n, err := page.ItemCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestInventoryPage_NeverLoads(t *testing.T) {
	page := pages.NewInventoryPage(browsertest.New(), pages.Options{})

	err := page.WaitLoaded(shortWait)

	assert.ErrorIs(t, err, browser.ErrTimeout)
}
