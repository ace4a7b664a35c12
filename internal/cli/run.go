package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/adyen/loginsuite/internal/config"
	"github.com/adyen/loginsuite/internal/scenarios"
	"github.com/adyen/loginsuite/internal/suite"
)

// ErrTestsFailed is returned by RunSuite when at least one case failed
var ErrTestsFailed = errors.New("tests failed")

// RunOptions configures a standalone suite run
type RunOptions struct {
	Filter    suite.Filter
	JUnitFile string
	// Console receives per-test output and the summary
	Console      io.Writer
	ConsoleSteps bool
	// Local, when set, starts the stand-in site and points the suite at it
	Local *config.ServerConfig
}

// OpenSuite builds the suite environment for cfg. When local is set it first
// starts the stand-in site and points a copy of cfg at it. The returned func
// closes the environment and stops the site.
func OpenSuite(cfg *config.SuiteConfig, local *config.ServerConfig, opts suite.EnvOptions, logger *log.Logger) (*suite.Env, func() error, error) {
	stopTarget := func() error { return nil }
	if local != nil {
		target, err := StartLocalTarget(*local, logger.WithPrefix("server"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start local target: %w", err)
		}
		stopTarget = target.Stop

		copied := *cfg
		copied.BaseURL = target.BaseURL
		cfg = &copied
		logger.Info("using local target", "url", cfg.BaseURL)
	}

	env, err := suite.NewEnv(cfg, opts, logger)
	if err != nil {
		stopTarget()
		return nil, nil, err
	}
	return env, func() error {
		return errors.Join(env.Close(), stopTarget())
	}, nil
}

// RunSuite runs every login scenario against the configured target
func RunSuite(cfg *config.SuiteConfig, opts RunOptions, logger *log.Logger) (suite.Results, error) {
	env, closeSuite, err := OpenSuite(cfg, opts.Local, suite.EnvOptions{
		JUnitFile:    opts.JUnitFile,
		Console:      opts.Console,
		ConsoleSteps: opts.ConsoleSteps,
	}, logger)
	if err != nil {
		return suite.Results{}, err
	}

	runner := &suite.Runner{Env: env, Filter: opts.Filter, Logger: logger}
	results := runner.Run(scenarios.All())

	if err := closeSuite(); err != nil {
		logger.Error("failed to close suite environment", "err", err)
	}

	if failures := results.Failures(); len(failures) > 0 {
		return results, fmt.Errorf("%w: %d of %d", ErrTestsFailed, len(failures), len(results.Cases))
	}
	return results, nil
}
