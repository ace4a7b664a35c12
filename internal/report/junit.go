package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JUnitWriter collects results and writes one JUnit XML document on Close.
type JUnitWriter struct {
	filePath  string
	suiteName string
	results   []*TestResult
	lock      sync.Mutex
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName   xml.Name           `xml:"testsuite"`
	Tests     int                `xml:"tests,attr"`
	Failures  int                `xml:"failures,attr"`
	Skipped   int                `xml:"skipped,attr"`
	Time      string             `xml:"time,attr"`
	Name      string             `xml:"name,attr"`
	TestCases []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

func NewJUnitWriter(filePath, suiteName string) *JUnitWriter {
	return &JUnitWriter{filePath: filePath, suiteName: suiteName}
}

func (j *JUnitWriter) WriteResult(result *TestResult) error {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.results = append(j.results, result)
	return nil
}

func (j *JUnitWriter) Close() error {
	j.lock.Lock()
	defer j.lock.Unlock()

	suite := jUnitXMLTestSuite{Name: j.suiteName}
	total := time.Duration(0)
	for _, r := range j.results {
		suite.Tests++
		total += r.Duration()
		testCase := jUnitXMLTestCase{
			Classname: j.suiteName,
			Name:      r.Name,
			Time:      jUnitDurationString(r.Duration()),
		}
		switch r.Status {
		case StatusPassed:
		case StatusSkipped:
			suite.Skipped++
			testCase.SkipMessage = &jUnitXMLSkipMessage{Message: r.Message}
		default:
			suite.Failures++
			testCase.Failure = &jUnitXMLFailure{
				Message:  r.Message,
				Type:     string(r.Status),
				Contents: failedSteps(r.Steps, ""),
			}
		}
		suite.TestCases = append(suite.TestCases, testCase)
	}
	suite.Time = jUnitDurationString(total)

	bytes, err := xml.MarshalIndent(jUnitXMLDocument{Suites: []jUnitXMLTestSuite{suite}}, "", "  ")
	if err != nil {
		return err
	}
	bytes = append(bytes, '\n')

	if err := os.MkdirAll(filepath.Dir(j.filePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(j.filePath, bytes, 0o644) //nolint:gosec
}

// failedSteps renders the path of failed steps, one per line.
func failedSteps(steps []*StepResult, indent string) string {
	out := ""
	for _, s := range steps {
		if s.Status != StatusFailed {
			continue
		}
		out += fmt.Sprintf("%s%s", indent, s.Name)
		if s.Message != "" {
			out += ": " + s.Message
		}
		out += "\n" + failedSteps(s.Steps, indent+"  ")
	}
	return out
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
