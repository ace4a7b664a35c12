package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Suite defaults
const (
	DefaultBaseURL     = "https://www.saucedemo.com/"
	DefaultTimeout     = 10 * time.Second
	DefaultSlowTimeout = 30 * time.Second
	DefaultResultsDir  = "results"
)

// SuiteConfig holds configuration for a run of the login suite
type SuiteConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout and SlowTimeout are decoded by UnmarshalYAML
	Timeout time.Duration `yaml:"-"`
	// SlowTimeout is the extended budget for intentionally slow flows
	SlowTimeout time.Duration `yaml:"-"`
	ResultsDir  string        `yaml:"results_dir"`
	Backend     string        `yaml:"backend"`
	Browser     string        `yaml:"browser"`
	Headless    bool          `yaml:"headless"`
	LogLevel    string        `yaml:"log_level"`
}

// seconds is a YAML duration written either as a Go duration or as a number
// of seconds.
type seconds time.Duration

func (s *seconds) UnmarshalYAML(node *yaml.Node) error {
	d, err := parseSeconds(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = seconds(d)
	return nil
}

// UnmarshalYAML reads timeouts the same way the environment does.
func (c *SuiteConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain SuiteConfig
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	var raw struct {
		Timeout     *seconds `yaml:"timeout"`
		SlowTimeout *seconds `yaml:"slow_timeout"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Timeout != nil {
		c.Timeout = time.Duration(*raw.Timeout)
	}
	if raw.SlowTimeout != nil {
		c.SlowTimeout = time.Duration(*raw.SlowTimeout)
	}
	return nil
}

// DefaultSuiteConfig returns the configuration used when nothing is set.
func DefaultSuiteConfig() SuiteConfig {
	return SuiteConfig{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		SlowTimeout: DefaultSlowTimeout,
		ResultsDir:  DefaultResultsDir,
		Backend:     "playwright",
		Browser:     "chromium",
		Headless:    true,
		LogLevel:    "info",
	}
}

// LoadSuiteConfig loads suite configuration from environment variables
func LoadSuiteConfig(getenv func(string) string) (*SuiteConfig, error) {
	config := DefaultSuiteConfig()
	if err := config.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadSuiteConfigFile reads a YAML file and then applies environment overrides
func LoadSuiteConfigFile(path string, getenv func(string) string) (*SuiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultSuiteConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := config.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *SuiteConfig) applyEnv(getenv func(string) string) error {
	if v := getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := getenv("RESULTS_DIR"); v != "" {
		c.ResultsDir = v
	}
	if v := getenv("BROWSER_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := getenv("BROWSER"); v != "" {
		c.Browser = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HEADLESS must be a boolean: %w", err)
		}
		c.Headless = headless
	}

	var err error
	if c.Timeout, err = durationEnv(getenv, "TIMEOUT", c.Timeout); err != nil {
		return err
	}
	if c.SlowTimeout, err = durationEnv(getenv, "SLOW_TIMEOUT", c.SlowTimeout); err != nil {
		return err
	}
	return nil
}

// durationEnv accepts Go durations ("15s") or plain seconds ("15").
func durationEnv(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := parseSeconds(v)
	if err != nil {
		return 0, fmt.Errorf("%s %w", key, err)
	}
	return d, nil
}

func parseSeconds(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("must be a duration or a number of seconds: %w", err)
	}
	return d, nil
}

// Validate checks required fields and value ranges
func (c *SuiteConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("TIMEOUT must be positive")
	}
	if c.SlowTimeout < DefaultSlowTimeout {
		return fmt.Errorf("SLOW_TIMEOUT (%s) must be at least %s", c.SlowTimeout, DefaultSlowTimeout)
	}
	if c.SlowTimeout < c.Timeout {
		return fmt.Errorf("SLOW_TIMEOUT (%s) must not be shorter than TIMEOUT (%s)", c.SlowTimeout, c.Timeout)
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("RESULTS_DIR is required")
	}
	switch c.Backend {
	case "playwright":
	case "chromedp":
		if c.Browser != "" && c.Browser != "chromium" {
			return fmt.Errorf("BROWSER must be chromium with the chromedp backend, got %q", c.Browser)
		}
	default:
		return fmt.Errorf("BROWSER_BACKEND must be playwright or chromedp, got %q", c.Backend)
	}
	return nil
}

// Host returns the host of the base URL, used to check a login stayed put.
func (c *SuiteConfig) Host() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// ScreenshotDir is where page screenshots are written.
func (c *SuiteConfig) ScreenshotDir() string {
	return c.ResultsDir + "/screenshots"
}

// AllureDir is where Allure result files are written.
func (c *SuiteConfig) AllureDir() string {
	return c.ResultsDir + "/allure-results"
}
