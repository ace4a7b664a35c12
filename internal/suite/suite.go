// Package suite wires browser sessions, page objects and reporting into
// per-test fixtures, and runs scenarios either under go test or standalone.
package suite

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/adyen/loginsuite/internal/browser"
	"github.com/adyen/loginsuite/internal/config"
	"github.com/adyen/loginsuite/internal/logging"
	"github.com/adyen/loginsuite/internal/pages"
	"github.com/adyen/loginsuite/internal/report"
)

// T is the part of *testing.T a scenario uses. It satisfies testify's
// require.TestingT.
type T interface {
	Errorf(format string, args ...any)
	FailNow()
	Helper()
	Name() string
	Failed() bool
	Logf(format string, args ...any)
	Cleanup(fn func())
}

// Case is one scenario with its report metadata.
type Case struct {
	Name string
	Meta report.Meta
	Run  func(t T, f *Fixture)
}

// Fixture is everything a scenario gets: a fresh browser session, the page
// objects bound to it and the recorder for its report.
type Fixture struct {
	Session   browser.Session
	Login     *pages.LoginPage
	Inventory *pages.InventoryPage
	Report    *report.Recorder
	Config    *config.SuiteConfig
}

// Env holds what fixtures share across tests.
type Env struct {
	Config  *config.SuiteConfig
	Manager browser.Manager
	// Writer receives every finished result; nil drops them
	Writer report.Writer
	Logger *log.Logger
}

func (e *Env) logger() *log.Logger {
	if e.Logger == nil {
		return logging.Discard()
	}
	return e.Logger
}

// Setup acquires a session and builds the fixture for t. Teardown is
// registered with t.Cleanup: a failed test gets a FAILED_<name>.png
// screenshot, the report is written and the session is closed.
func (e *Env) Setup(t T, meta report.Meta) *Fixture {
	t.Helper()
	session, err := e.Manager.Acquire()
	if err != nil {
		t.Errorf("acquire browser session: %v", err)
		t.FailNow()
		return nil
	}

	rec := report.NewRecorder(t.Name(), meta)
	opts := pages.Options{
		Timeout:       e.Config.Timeout,
		ScreenshotDir: e.Config.ScreenshotDir(),
		Steps:         rec,
	}
	f := &Fixture{
		Session:   session,
		Login:     pages.NewLoginPage(session, opts),
		Inventory: pages.NewInventoryPage(session, opts),
		Report:    rec,
		Config:    e.Config,
	}
	e.logger().Debug("test started", "test", t.Name())

	t.Cleanup(func() { e.teardown(t, f) })
	return f
}

func (e *Env) teardown(t T, f *Fixture) {
	logger := e.logger().With("test", t.Name())

	status := report.StatusPassed
	if t.Failed() {
		status = report.StatusFailed
		name := "FAILED_" + fileSafe(t.Name()) + ".png"
		if path, err := f.Login.TakeScreenshot(name); err != nil {
			logger.Warn("failure screenshot not taken", "err", err)
		} else {
			logger.Info("failure screenshot saved", "path", path)
		}
	}

	var messages []string
	if r, ok := t.(interface{ messages() []string }); ok {
		messages = r.messages()
	}
	result := f.Report.Finish(status, messages...)
	if e.Writer != nil {
		if err := e.Writer.WriteResult(result); err != nil {
			logger.Error("report not written", "err", err)
		}
	}

	if err := f.Session.Close(); err != nil {
		logger.Warn("browser session not closed cleanly", "err", err)
	}
	logger.Debug("test finished", "status", status, "duration", result.Duration())
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func fileSafe(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// Run sets up a fixture for c under t and runs it. Failure messages reported
// through t end up in the report.
func Run(t T, env *Env, c Case) {
	t.Helper()
	rt := &recordingT{T: t}
	f := env.Setup(rt, c.Meta)
	c.Run(rt, f)
}

// recordingT keeps a copy of every failure message.
type recordingT struct {
	T
	mu   sync.Mutex
	msgs []string
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.mu.Lock()
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
	r.mu.Unlock()
	r.T.Helper()
	r.T.Errorf(format, args...)
}

func (r *recordingT) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}
