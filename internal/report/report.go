// Package report records step-level test results with attachments and hands
// them to writers (Allure results, JUnit XML, console).
package report

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status of a test or step
type Status string

// Statuses, named as Allure names them
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusBroken  Status = "broken"
	StatusSkipped Status = "skipped"
)

// Attachment MIME types
const (
	MimePNG  = "image/png"
	MimeText = "text/plain"
)

// Severity levels
const (
	SeverityBlocker  = "blocker"
	SeverityCritical = "critical"
	SeverityNormal   = "normal"
	SeverityMinor    = "minor"
)

// Stepper is what page abstractions report through.
type Stepper interface {
	// Step runs fn as a named step and returns its error.
	Step(name string, fn func() error) error
	Attach(name, mimeType string, data []byte)
}

// Nop discards steps and attachments.
type Nop struct{}

func (Nop) Step(_ string, fn func() error) error { return fn() }

func (Nop) Attach(string, string, []byte) {}

// Label is a name/value pair such as epic, feature, story or severity.
type Label struct {
	Name  string
	Value string
}

// Meta describes a test case for the report.
type Meta struct {
	ID          string
	Title       string
	Description string
	Epic        string
	Feature     string
	Story       string
	Severity    string
}

// Labels converts the non-empty metadata fields to labels.
func (m Meta) Labels() []Label {
	var labels []Label
	add := func(name, value string) {
		if value != "" {
			labels = append(labels, Label{Name: name, Value: value})
		}
	}
	add("AS_ID", m.ID)
	add("epic", m.Epic)
	add("feature", m.Feature)
	add("story", m.Story)
	add("severity", m.Severity)
	return labels
}

// Attachment is captured evidence. Source is set once a writer stores it.
type Attachment struct {
	Name   string
	Type   string
	Data   []byte
	Source string
}

// StepResult is one executed step, possibly with nested steps.
type StepResult struct {
	Name        string
	Status      Status
	Message     string
	Start       time.Time
	Stop        time.Time
	Steps       []*StepResult
	Attachments []*Attachment
}

// TestResult is the finished record of one test.
type TestResult struct {
	UUID        string
	Name        string
	FullName    string
	Title       string
	Description string
	Labels      []Label
	Status      Status
	Message     string
	Start       time.Time
	Stop        time.Time
	Steps       []*StepResult
	Attachments []*Attachment
}

// Duration is the wall time between start and stop.
func (r *TestResult) Duration() time.Duration {
	return r.Stop.Sub(r.Start)
}

// Recorder collects the result of one test while it runs.
type Recorder struct {
	mu     sync.Mutex
	result *TestResult
	stack  []*StepResult
	now    func() time.Time
}

// NewRecorder starts recording test name with the given metadata.
func NewRecorder(name string, meta Meta) *Recorder {
	r := &Recorder{now: time.Now}
	title := meta.Title
	if title == "" {
		title = "Test: " + name
	}
	r.result = &TestResult{
		UUID:        uuid.New().String(),
		Name:        name,
		FullName:    name,
		Title:       title,
		Description: meta.Description,
		Labels:      meta.Labels(),
		Start:       r.now(),
	}
	return r
}

// Step runs fn as a step nested under any step currently running. A step
// whose fn never returns (t.FailNow) is still closed as failed.
func (r *Recorder) Step(name string, fn func() error) (err error) {
	step := &StepResult{Name: name, Start: r.now()}

	r.mu.Lock()
	if n := len(r.stack); n > 0 {
		parent := r.stack[n-1]
		parent.Steps = append(parent.Steps, step)
	} else {
		r.result.Steps = append(r.result.Steps, step)
	}
	r.stack = append(r.stack, step)
	r.mu.Unlock()

	returned := false
	defer func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		step.Stop = r.now()
		switch {
		case !returned:
			step.Status = StatusFailed
			step.Message = "step aborted"
		case err != nil:
			step.Status = StatusFailed
			step.Message = err.Error()
		case step.Status == "":
			step.Status = worstStatus(step.Steps)
		}
		r.stack = r.stack[:len(r.stack)-1]
	}()

	err = fn()
	returned = true
	return err
}

func worstStatus(steps []*StepResult) Status {
	for _, s := range steps {
		if s.Status == StatusFailed || s.Status == StatusBroken {
			return StatusFailed
		}
	}
	return StatusPassed
}

// Attach adds evidence to the running step, or to the test itself.
func (r *Recorder) Attach(name, mimeType string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := &Attachment{Name: name, Type: mimeType, Data: data}
	if n := len(r.stack); n > 0 {
		r.stack[n-1].Attachments = append(r.stack[n-1].Attachments, a)
		return
	}
	r.result.Attachments = append(r.result.Attachments, a)
}

// Finish closes the record with the given status and failure messages.
func (r *Recorder) Finish(status Status, messages ...string) *TestResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Stop = r.now()
	r.result.Status = status
	if len(messages) > 0 {
		r.result.Message = strings.Join(messages, "\n")
	}
	return r.result
}

// Writer stores finished results.
type Writer interface {
	WriteResult(result *TestResult) error
	// Close flushes aggregated output, e.g. a JUnit document.
	Close() error
}

// MultiWriter fans results out to several writers.
type MultiWriter []Writer

func (m MultiWriter) WriteResult(result *TestResult) error {
	var errs []error
	for _, w := range m {
		if err := w.WriteResult(result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiWriter) Close() error {
	var errs []error
	for _, w := range m {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Summary counts results by status.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	// FailedNames preserves run order.
	FailedNames []string
}

func (s *Summary) add(r *TestResult) {
	s.Total++
	switch r.Status {
	case StatusPassed:
		s.Passed++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
		s.FailedNames = append(s.FailedNames, r.Name)
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d tests: %d passed, %d failed, %d skipped", s.Total, s.Passed, s.Failed, s.Skipped)
}
