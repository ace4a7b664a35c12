package e2e

import (
	"os"
	"testing"

	"github.com/adyen/loginsuite/internal/cli"
	"github.com/adyen/loginsuite/internal/config"
	"github.com/adyen/loginsuite/internal/logging"
	"github.com/adyen/loginsuite/internal/suite"
)

var env *suite.Env

// TestMain launches the browser once for all tests and points the suite at
// BASE_URL, or at the stand-in site when E2E_LOCAL_TARGET=true.
//
// Browsers must be installed first:
// go run github.com/playwright-community/playwright-go/cmd/playwright@latest install chromium
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	logger := logging.New(logging.Options{Level: os.Getenv("LOG_LEVEL"), Prefix: "e2e"})

	cfg, err := config.LoadSuiteConfig(os.Getenv)
	if err != nil {
		logger.Error("invalid suite configuration", "err", err)
		return 1
	}

	var local *config.ServerConfig
	if os.Getenv("E2E_LOCAL_TARGET") == "true" {
		serverCfg, err := config.LoadServerConfig(os.Getenv)
		if err != nil {
			logger.Error("invalid server configuration", "err", err)
			return 1
		}
		local = &serverCfg
	}

	var closeSuite func() error
	env, closeSuite, err = cli.OpenSuite(cfg, local, suite.EnvOptions{JUnitFile: os.Getenv("E2E_JUNIT_FILE")}, logger)
	if err != nil {
		logger.Error("failed to set up the suite", "err", err)
		return 1
	}
	defer func() {
		if err := closeSuite(); err != nil {
			logger.Error("failed to close suite environment", "err", err)
		}
	}()

	return m.Run()
}
