package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var consoleErrorColor = color.New(color.FgYellow)              //nolint:gochecknoglobals
var consoleFailedColor = color.New(color.FgRed)                //nolint:gochecknoglobals
var consoleSkippedColor = color.New(color.Faint, color.FgBlue) //nolint:gochecknoglobals
var consolePassedColor = color.New(color.FgGreen)              //nolint:gochecknoglobals
var consoleStepColor = color.New(color.Faint)                  //nolint:gochecknoglobals

// ConsoleWriter prints one line per test and a summary on Close.
type ConsoleWriter struct {
	out   io.Writer
	steps bool
	lock  sync.Mutex
	sum   Summary
}

// NewConsoleWriter prints to out; with steps set, every step is listed too.
func NewConsoleWriter(out io.Writer, steps bool) *ConsoleWriter {
	return &ConsoleWriter{out: out, steps: steps}
}

func (c *ConsoleWriter) WriteResult(r *TestResult) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.sum.add(r)

	fmt.Fprintf(c.out, "[%s] %s (%s)\n", r.Name, r.Title, r.Duration().Round(time.Millisecond))
	if c.steps || r.Status == StatusFailed || r.Status == StatusBroken {
		c.printSteps(r.Steps, "    ")
	}
	switch r.Status {
	case StatusPassed:
		_, _ = consolePassedColor.Fprintf(c.out, "  PASSED\n")
	case StatusSkipped:
		_, _ = consoleSkippedColor.Fprintf(c.out, "  SKIPPED: %s\n", r.Message)
	default:
		for _, line := range strings.Split(r.Message, "\n") {
			if line != "" {
				_, _ = consoleErrorColor.Fprintf(c.out, "  %s\n", line)
			}
		}
		_, _ = consoleFailedColor.Fprintf(c.out, "  FAILED: %s\n", r.Name)
	}
	return nil
}

func (c *ConsoleWriter) printSteps(steps []*StepResult, indent string) {
	for _, s := range steps {
		mark := "ok"
		if s.Status == StatusFailed {
			mark = "FAIL"
		}
		_, _ = consoleStepColor.Fprintf(c.out, "%s%s %s\n", indent, mark, s.Name)
		c.printSteps(s.Steps, indent+"  ")
	}
}

// Summary returns the counts seen so far.
func (c *ConsoleWriter) Summary() Summary {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.sum
}

func (c *ConsoleWriter) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.sum.Failed == 0 {
		_, _ = consolePassedColor.Fprintf(c.out, "All tests passed (%s)\n", c.sum)
		return nil
	}
	_, _ = consoleFailedColor.Fprintf(c.out, "FAILED TESTS (%d):\n", c.sum.Failed)
	for _, name := range c.sum.FailedNames {
		_, _ = consoleFailedColor.Fprintf(c.out, "  * %s\n", name)
	}
	return nil
}
