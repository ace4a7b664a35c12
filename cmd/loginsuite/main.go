package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	internalcli "github.com/adyen/loginsuite/internal/cli"
	"github.com/adyen/loginsuite/internal/config"
	"github.com/adyen/loginsuite/internal/logging"
	"github.com/adyen/loginsuite/internal/suite"
)

var version = "0.1.0"

// ServeCommand returns the serve command
func ServeCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the stand-in login site",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadServerConfig(os.Getenv)
			if err != nil {
				return err
			}

			accounts, closeStore, err := internalcli.OpenAccountStore(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			deps, err := internalcli.BuildServerDependencies(cfg, accounts, logger)
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

// RunCommand returns the run command
func RunCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the login suite against a site",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML suite config, overridden by the environment"},
			&cli.StringFlag{Name: "run", Usage: "only run cases matching this regexp"},
			&cli.StringFlag{Name: "skip", Usage: "skip cases matching this regexp"},
			&cli.StringFlag{Name: "junit", Usage: "also write a JUnit XML report to this file"},
			&cli.BoolFlag{Name: "steps", Usage: "print each step to the console"},
			&cli.BoolFlag{Name: "local", Usage: "start the stand-in site and run against it"},
		},
		Action: func(c *cli.Context) error {
			var (
				cfg *config.SuiteConfig
				err error
			)
			if path := c.String("config"); path != "" {
				cfg, err = config.LoadSuiteConfigFile(path, os.Getenv)
			} else {
				cfg, err = config.LoadSuiteConfig(os.Getenv)
			}
			if err != nil {
				return err
			}
			logger.SetLevel(logging.ParseLevel(cfg.LogLevel))

			filter, err := suite.ParseFilter(c.String("run"), c.String("skip"))
			if err != nil {
				return err
			}

			opts := internalcli.RunOptions{
				Filter:       filter,
				JUnitFile:    c.String("junit"),
				Console:      os.Stdout,
				ConsoleSteps: c.Bool("steps"),
			}
			if c.Bool("local") {
				serverCfg, err := config.LoadServerConfig(os.Getenv)
				if err != nil {
					return err
				}
				opts.Local = &serverCfg
			}

			_, err = internalcli.RunSuite(cfg, opts, logger)
			if errors.Is(err, internalcli.ErrTestsFailed) {
				return cli.Exit(err.Error(), 1)
			}
			return err
		},
	}
}

func main() {
	logger := logging.New(logging.DefaultOptions())

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "loginsuite",
		Usage:   "End-to-end checks for the shop login page",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(logger),
			RunCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
