package suite

import (
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/adyen/loginsuite/internal/logging"
)

// Filter decides which cases run, by name.
type Filter struct {
	// Run must match when set.
	Run *regexp.Regexp
	// Skip must not match when set.
	Skip *regexp.Regexp
}

// ParseFilter compiles the run and skip patterns; empty patterns match
// everything and nothing respectively.
func ParseFilter(run, skip string) (Filter, error) {
	var f Filter
	var err error
	if run != "" {
		if f.Run, err = regexp.Compile(run); err != nil {
			return f, fmt.Errorf("invalid run pattern: %w", err)
		}
	}
	if skip != "" {
		if f.Skip, err = regexp.Compile(skip); err != nil {
			return f, fmt.Errorf("invalid skip pattern: %w", err)
		}
	}
	return f, nil
}

// Match reports whether the case named name should run.
func (f Filter) Match(name string) bool {
	return (f.Run == nil || f.Run.MatchString(name)) &&
		(f.Skip == nil || !f.Skip.MatchString(name))
}

// CaseResult is the outcome of one case under a Runner.
type CaseResult struct {
	Name     string
	Failed   bool
	Errors   []error
	Duration time.Duration
}

// Results aggregates a Runner's cases in run order.
type Results struct {
	Cases   []CaseResult
	Skipped []string
}

// Failures returns the failed cases.
func (r Results) Failures() []CaseResult {
	var out []CaseResult
	for _, c := range r.Cases {
		if c.Failed {
			out = append(out, c)
		}
	}
	return out
}

// OK is true when every case that ran passed.
func (r Results) OK() bool {
	return len(r.Failures()) == 0
}

// Runner executes cases outside go test, one after another, each with a
// fresh fixture from Env.
type Runner struct {
	Env    *Env
	Filter Filter
	Logger *log.Logger
}

// Run executes every case the filter lets through.
func (r *Runner) Run(cases []Case) Results {
	logger := r.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	var results Results
	for _, c := range cases {
		if !r.Filter.Match(c.Name) {
			logger.Debug("case excluded by filter", "case", c.Name)
			results.Skipped = append(results.Skipped, c.Name)
			continue
		}
		logger.Info("running", "case", c.Name)
		res := r.runCase(c, logger)
		if res.Failed {
			logger.Error("case failed", "case", c.Name, "errors", len(res.Errors), "duration", res.Duration)
		} else {
			logger.Info("case passed", "case", c.Name, "duration", res.Duration)
		}
		results.Cases = append(results.Cases, res)
	}
	return results
}

func (r *Runner) runCase(c Case, logger *log.Logger) CaseResult {
	s := &scope{name: c.Name, logger: logger.With("case", c.Name)}
	start := time.Now()
	s.run(func() { Run(s, r.Env, c) })
	return CaseResult{
		Name:     c.Name,
		Failed:   s.Failed(),
		Errors:   s.errs(),
		Duration: time.Since(start),
	}
}

// scope implements T for the standalone runner. FailNow panics with the
// scope itself; run recovers it and then runs cleanups last-in first-out.
type scope struct {
	name   string
	logger *log.Logger

	mu       sync.Mutex
	failed   bool
	errors   []error
	cleanups []func()
}

func (s *scope) run(action func()) {
	defer s.runCleanups()
	defer func() {
		if p := recover(); p != nil {
			s.recovered(p)
		}
	}()
	action()
}

func (s *scope) recovered(p any) {
	if p == s {
		s.mu.Lock()
		empty := len(s.errors) == 0
		s.mu.Unlock()
		if empty {
			s.addError(errors.New("test failed with no failure message"))
		}
		return
	}
	s.addError(fmt.Errorf("unexpected panic in test: %+v\n%s", p, debug.Stack()))
}

func (s *scope) runCleanups() {
	for {
		s.mu.Lock()
		n := len(s.cleanups)
		if n == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.cleanups[n-1]
		s.cleanups = s.cleanups[:n-1]
		s.mu.Unlock()

		func() {
			defer func() {
				if p := recover(); p != nil && p != s {
					s.addError(fmt.Errorf("panic in cleanup: %+v", p))
				}
			}()
			fn()
		}()
	}
}

func (s *scope) addError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = true
	s.errors = append(s.errors, err)
}

func (s *scope) errs() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errors...)
}

func (s *scope) Errorf(format string, args ...any) {
	err := fmt.Errorf(format, args...)
	s.addError(err)
	s.logger.Debug("assertion failed", "err", err)
}

func (s *scope) FailNow() {
	s.mu.Lock()
	s.failed = true
	s.mu.Unlock()
	panic(s)
}

func (s *scope) Helper() {}

func (s *scope) Name() string { return s.name }

func (s *scope) Failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

func (s *scope) Logf(format string, args ...any) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}

func (s *scope) Cleanup(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanups = append(s.cleanups, fn)
}
