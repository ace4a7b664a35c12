package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// AllureWriter writes results in the Allure results directory format:
// one <uuid>-result.json per test plus <uuid>-attachment.<ext> files.
type AllureWriter struct {
	dir string
}

// NewAllureWriter creates dir if needed.
func NewAllureWriter(dir string) (*AllureWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create allure results dir: %w", err)
	}
	return &AllureWriter{dir: dir}, nil
}

type allureLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type allureStatusDetails struct {
	Message string `json:"message,omitempty"`
}

type allureAttachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

type allureStep struct {
	Name          string               `json:"name"`
	Status        Status               `json:"status"`
	StatusDetails *allureStatusDetails `json:"statusDetails,omitempty"`
	Stage         string               `json:"stage"`
	Start         int64                `json:"start"`
	Stop          int64                `json:"stop"`
	Steps         []allureStep         `json:"steps,omitempty"`
	Attachments   []allureAttachment   `json:"attachments,omitempty"`
}

type allureResult struct {
	UUID          string               `json:"uuid"`
	HistoryID     string               `json:"historyId"`
	Name          string               `json:"name"`
	FullName      string               `json:"fullName"`
	Description   string               `json:"description,omitempty"`
	Status        Status               `json:"status"`
	StatusDetails *allureStatusDetails `json:"statusDetails,omitempty"`
	Stage         string               `json:"stage"`
	Start         int64                `json:"start"`
	Stop          int64                `json:"stop"`
	Labels        []allureLabel        `json:"labels,omitempty"`
	Steps         []allureStep         `json:"steps,omitempty"`
	Attachments   []allureAttachment   `json:"attachments,omitempty"`
}

// WriteResult stores the attachments first so the result can reference them.
func (w *AllureWriter) WriteResult(result *TestResult) error {
	doc := allureResult{
		UUID:          result.UUID,
		HistoryID:     uuid.NewSHA1(uuid.NameSpaceURL, []byte(result.FullName)).String(),
		Name:          result.Title,
		FullName:      result.FullName,
		Description:   result.Description,
		Status:        result.Status,
		StatusDetails: details(result.Message),
		Stage:         "finished",
		Start:         millis(result.Start),
		Stop:          millis(result.Stop),
	}
	for _, l := range result.Labels {
		doc.Labels = append(doc.Labels, allureLabel{Name: l.Name, Value: l.Value})
	}

	var err error
	if doc.Attachments, err = w.writeAttachments(result.Attachments); err != nil {
		return err
	}
	if doc.Steps, err = w.convertSteps(result.Steps); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode allure result: %w", err)
	}
	path := filepath.Join(w.dir, result.UUID+"-result.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write allure result: %w", err)
	}
	return nil
}

func (w *AllureWriter) convertSteps(steps []*StepResult) ([]allureStep, error) {
	var out []allureStep
	for _, s := range steps {
		children, err := w.convertSteps(s.Steps)
		if err != nil {
			return nil, err
		}
		attachments, err := w.writeAttachments(s.Attachments)
		if err != nil {
			return nil, err
		}
		out = append(out, allureStep{
			Name:          s.Name,
			Status:        s.Status,
			StatusDetails: details(s.Message),
			Stage:         "finished",
			Start:         millis(s.Start),
			Stop:          millis(s.Stop),
			Steps:         children,
			Attachments:   attachments,
		})
	}
	return out, nil
}

func (w *AllureWriter) writeAttachments(attachments []*Attachment) ([]allureAttachment, error) {
	var out []allureAttachment
	for _, a := range attachments {
		if a.Source == "" {
			a.Source = uuid.New().String() + "-attachment" + extension(a.Type)
			if err := os.WriteFile(filepath.Join(w.dir, a.Source), a.Data, 0o644); err != nil {
				return nil, fmt.Errorf("failed to write attachment %s: %w", a.Name, err)
			}
		}
		out = append(out, allureAttachment{Name: a.Name, Source: a.Source, Type: a.Type})
	}
	return out, nil
}

func (w *AllureWriter) Close() error { return nil }

func details(message string) *allureStatusDetails {
	if message == "" {
		return nil
	}
	return &allureStatusDetails{Message: message}
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func extension(mimeType string) string {
	switch mimeType {
	case MimePNG:
		return ".png"
	case MimeText:
		return ".txt"
	default:
		return ""
	}
}
