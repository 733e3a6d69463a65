package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/andyballingall/workspace-automation/internal/step"
)

// TextReporter implements step.Reporter for plain text output.
type TextReporter struct {
	// SuccessBanner is printed when no step failed. Defaults to a generic message.
	SuccessBanner string
	Verbose       bool
	UseColour     bool
}

// cs returns a string which will render with the given attributes
// if colourisation is enabled.
func (tr *TextReporter) cs(s string, attrs ...color.Attribute) string {
	if !tr.UseColour {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (tr *TextReporter) Write(w io.Writer, r *step.Report) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs("WSA "+strings.ToUpper(r.Tool)+" REPORT\n", color.Bold, color.FgWhite))
	if tr.Verbose {
		fmt.Fprintf(w, "%s %s\n", tr.cs("Started: ", color.FgHiBlack), r.StartTime.Format("15:04:05"))
		fmt.Fprintf(w, "%s %s\n", tr.cs("Duration:", color.FgHiBlack), r.EndTime.Sub(r.StartTime).String())
	}
	fmt.Fprintf(w, "%s\n", divider)

	for _, s := range r.Steps {
		switch s.Status {
		case step.StatusOK:
			fmt.Fprintf(w, "%s %s", tr.cs("[ OK ]", color.FgGreen), s.Name)
		case step.StatusSkipped:
			fmt.Fprintf(w, "%s %s", tr.cs("[SKIP]", color.FgHiBlack), s.Name)
		default:
			fmt.Fprintf(w, "%s %s", tr.cs("[FAIL]", color.FgRed), tr.cs(s.Name, color.FgRed))
		}
		if s.Detail != "" {
			fmt.Fprintf(w, " %s", tr.cs("("+s.Detail+")", color.FgHiBlack))
		}
		fmt.Fprintln(w)
		if s.Err != nil {
			fmt.Fprintf(w, "    %v\n", s.Err)
		}
	}

	fmt.Fprintf(w, "%s\n", divider)
	failed := r.Count(step.StatusFailed)
	stats := fmt.Sprintf("%d ok, %d failed, %d skipped", r.Count(step.StatusOK), failed, r.Count(step.StatusSkipped))
	if failed > 0 {
		fmt.Fprintf(w, "%s%s\n", tr.cs("Summary: ", color.Bold), tr.cs(stats, color.Bold, color.FgRed))
		fmt.Fprintf(w, "%s\n", tr.cs(fmt.Sprintf("❌ %s finished with %d failed step(s)", r.Tool, failed),
			color.Bold, color.FgRed))
	} else {
		banner := tr.SuccessBanner
		if banner == "" {
			banner = r.Tool + " completed"
		}
		fmt.Fprintf(w, "%s%s\n", tr.cs("Summary: ", color.Bold), tr.cs(stats, color.Bold, color.FgGreen))
		fmt.Fprintf(w, "%s\n", tr.cs("✅ "+banner, color.Bold, color.FgGreen))
	}
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}
