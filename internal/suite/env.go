package suite

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/adyen/loginsuite/internal/browser"
	"github.com/adyen/loginsuite/internal/config"
	"github.com/adyen/loginsuite/internal/report"
)

// EnvOptions selects the report sinks NewEnv sets up next to the Allure
// results directory.
type EnvOptions struct {
	// JUnitFile, when set, receives a JUnit XML document on Close
	JUnitFile string
	// Console, when set, receives a line per test and a summary
	Console io.Writer
	// ConsoleSteps lists every step on the console, not only failing ones
	ConsoleSteps bool
}

// NewEnv launches the configured browser backend and opens the report
// writers. The caller must Close the Env.
func NewEnv(cfg *config.SuiteConfig, opts EnvOptions, logger *log.Logger) (*Env, error) {
	allure, err := report.NewAllureWriter(cfg.AllureDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open allure results: %w", err)
	}
	writers := report.MultiWriter{allure}
	if opts.JUnitFile != "" {
		writers = append(writers, report.NewJUnitWriter(opts.JUnitFile, "login"))
	}
	if opts.Console != nil {
		writers = append(writers, report.NewConsoleWriter(opts.Console, opts.ConsoleSteps))
	}

	manager, err := browser.NewManager(cfg.Backend, browser.LaunchOptions{
		Browser:       cfg.Browser,
		Headless:      cfg.Headless,
		ActionTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	if logger != nil {
		logger.Info("browser ready", "backend", cfg.Backend, "browser", cfg.Browser, "headless", cfg.Headless)
	}

	return &Env{Config: cfg, Manager: manager, Writer: writers, Logger: logger}, nil
}

// Close flushes the report writers and shuts the browser down.
func (e *Env) Close() error {
	var errs []error
	if e.Writer != nil {
		if err := e.Writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush reports: %w", err))
		}
	}
	if e.Manager != nil {
		if err := e.Manager.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop browser: %w", err))
		}
	}
	return errors.Join(errs...)
}
