// Package report renders wsa step reports.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/andyballingall/workspace-automation/internal/step"
)

// JSONReporter implements step.Reporter for JSON output.
type JSONReporter struct{}

type jsonStep struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

type jsonOutput struct {
	Tool      string `json:"tool"`
	Outcome   string `json:"outcome"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  string `json:"duration"`
	Stats     struct {
		OK      int `json:"ok"`
		Failed  int `json:"failed"`
		Skipped int `json:"skipped"`
	} `json:"stats"`
	Steps []jsonStep `json:"steps"`
}

func (jr *JSONReporter) Write(w io.Writer, r *step.Report) error {
	out := jsonOutput{
		Tool:      r.Tool,
		Outcome:   string(r.Outcome()),
		StartTime: r.StartTime.Format(time.RFC3339),
		EndTime:   r.EndTime.Format(time.RFC3339),
		Duration:  r.EndTime.Sub(r.StartTime).String(),
		Steps:     make([]jsonStep, 0, len(r.Steps)),
	}
	out.Stats.OK = r.Count(step.StatusOK)
	out.Stats.Failed = r.Count(step.StatusFailed)
	out.Stats.Skipped = r.Count(step.StatusSkipped)

	for _, s := range r.Steps {
		js := jsonStep{Name: s.Name, Status: string(s.Status), Detail: s.Detail}
		if s.Err != nil {
			js.Error = s.Err.Error()
		}
		out.Steps = append(out.Steps, js)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
