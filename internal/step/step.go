// Package step records the outcome of each external invocation made by a wsa tool.
package step

import (
	"context"
	"io"
	"time"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

type Outcome string

const (
	// OutcomeSuccess means no step failed. Skipped steps do not count as failures.
	OutcomeSuccess Outcome = "success"
	// OutcomePartialFailure means at least one step failed; all steps were still attempted.
	OutcomePartialFailure Outcome = "partial-failure"
)

// Result is the outcome of a single named step.
type Result struct {
	Err    error
	Name   string
	Status Status
	Detail string // optional, human-readable context such as the commit message
}

// Report is the ordered list of step results produced by one tool run.
type Report struct {
	StartTime time.Time
	EndTime   time.Time
	Tool      string
	Steps     []Result
}

// Reporter renders a Report.
type Reporter interface {
	Write(w io.Writer, r *Report) error
}

// NewReport creates an empty report for the named tool.
func NewReport(tool string, start time.Time) *Report {
	return &Report{Tool: tool, StartTime: start}
}

// Add appends a result, keeping execution order.
func (r *Report) Add(res Result) {
	r.Steps = append(r.Steps, res)
}

// Record appends an ok result when err is nil and a failed result otherwise.
func (r *Report) Record(name string, err error) Result {
	res := Result{Name: name, Status: StatusOK}
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
	}
	r.Add(res)
	return res
}

// Skip appends a skipped result.
func (r *Report) Skip(name, reason string) {
	r.Add(Result{Name: name, Status: StatusSkipped, Detail: reason})
}

// ReasonInterrupted is the skip reason for steps not started because the run was cancelled.
const ReasonInterrupted = "interrupted"

// SkipIfDone records name as skipped and returns true once ctx is done.
func (r *Report) SkipIfDone(ctx context.Context, name string) bool {
	if ctx.Err() == nil {
		return false
	}
	r.Skip(name, ReasonInterrupted)
	return true
}

// Finish stamps the end time of the report.
func (r *Report) Finish(end time.Time) {
	r.EndTime = end
}

// Failed returns the failed results in execution order.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			failed = append(failed, s)
		}
	}
	return failed
}

// Count returns the number of results with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Steps {
		if res.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) Outcome() Outcome {
	if len(r.Failed()) > 0 {
		return OutcomePartialFailure
	}
	return OutcomeSuccess
}

// Step returns the first result with the given name.
func (r *Report) Step(name string) (Result, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return Result{}, false
}
