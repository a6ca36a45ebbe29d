package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Test statuses understood by the reporting dashboard.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusBroken  = "broken"
)

// Meta is the declarative metadata record attached to a test definition at
// registration time: test-case ID, severity and linked issues. The reporting
// integration consumes it independently of test control flow.
type Meta struct {
	TCID        string
	Description string
	Severity    string
	Issues      []string
}

// Attachment is one diagnostic artifact referenced from a test result. Body
// holds inline content; Path references an already-written file.
type Attachment struct {
	Name      string
	MediaType string
	Path      string
	Body      []byte
}

// result is the dashboard-compatible result-file shape.
type result struct {
	UUID        string             `json:"uuid"`
	HistoryID   string             `json:"historyId"`
	Name        string             `json:"name"`
	FullName    string             `json:"fullName"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	Stage       string             `json:"stage"`
	Start       int64              `json:"start"`
	Stop        int64              `json:"stop"`
	Labels      []label            `json:"labels,omitempty"`
	Links       []link             `json:"links,omitempty"`
	Attachments []resultAttachment `json:"attachments,omitempty"`
	StatusInfo  *statusInfo        `json:"statusDetails,omitempty"`
}

type label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type link struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
	Type string `json:"type"`
}

type resultAttachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

type statusInfo struct {
	Message string `json:"message,omitempty"`
}

// Writer emits dashboard-compatible result files into the results directory.
type Writer struct {
	dir string
}

// NewWriter creates a result writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Outcome describes one finished test for the report.
type Outcome struct {
	Name    string
	Package string
	Status  string
	Message string
	Start   time.Time
	Stop    time.Time
	Meta    Meta
	Bundle  *Bundle
}

// WriteResult writes one test outcome as a result file, copying bundle
// attachments alongside it. Attachment write failures degrade to a smaller
// report rather than an error: reporting must never fail a test run.
func (w *Writer) WriteResult(o Outcome) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create results directory: %w", err)
	}

	id := uuid.New().String()
	res := result{
		UUID:      id,
		HistoryID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(o.Package+"/"+o.Name)).String(),
		Name:      o.Name,
		FullName:  o.Package + "/" + o.Name,
		Status:    o.Status,
		Stage:     "finished",
		Start:     o.Start.UnixMilli(),
		Stop:      o.Stop.UnixMilli(),
	}
	if o.Message != "" {
		res.StatusInfo = &statusInfo{Message: o.Message}
	}
	if o.Meta.Description != "" {
		res.Description = o.Meta.Description
	}
	if o.Meta.TCID != "" {
		res.Labels = append(res.Labels, label{Name: "tag", Value: o.Meta.TCID})
		res.Links = append(res.Links, link{Name: o.Meta.TCID, Type: "tms"})
	}
	if o.Meta.Severity != "" {
		res.Labels = append(res.Labels, label{Name: "severity", Value: o.Meta.Severity})
	}
	for _, issue := range o.Meta.Issues {
		res.Links = append(res.Links, link{Name: issue, Type: "issue"})
	}

	if o.Bundle != nil {
		for _, att := range o.Bundle.Attachments() {
			source, err := w.writeAttachment(att)
			if err != nil {
				continue
			}
			res.Attachments = append(res.Attachments, resultAttachment{
				Name:   att.Name,
				Source: source,
				Type:   att.MediaType,
			})
		}
	}

	path := filepath.Join(w.dir, id+"-result.json")
	blob, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not serialize result: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", fmt.Errorf("could not write result file: %w", err)
	}
	return path, nil
}

func (w *Writer) writeAttachment(att Attachment) (string, error) {
	body := att.Body
	if body == nil && att.Path != "" {
		var err error
		body, err = os.ReadFile(att.Path)
		if err != nil {
			return "", err
		}
	}
	source := uuid.New().String() + "-attachment" + extensionFor(att.MediaType)
	if err := os.WriteFile(filepath.Join(w.dir, source), body, 0o644); err != nil {
		return "", err
	}
	return source, nil
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "text/html":
		return ".html"
	case "application/json":
		return ".json"
	default:
		return ".txt"
	}
}
