// Package report renders tasks and run results for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/aristath/dayplanner/internal/scheduler"
)

// Printer writes colored text to w. With color off it writes plain text.
type Printer struct {
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer, useColor bool) *Printer {
	return &Printer{w: w, color: useColor}
}

func (p *Printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// WriteTasks lists the tasks with their duration and flags those that depend
// on others or have a fixed start.
func (p *Printer) WriteTasks(tasks []*scheduler.Task) error {
	header := p.paint(color.Bold)
	warn := p.paint(color.FgYellow)
	dim := p.paint(color.Faint)

	if _, err := header.Fprintf(p.w, "Tasks (%d)\n%s\n", len(tasks), strings.Repeat("-", 38)); err != nil {
		return err
	}
	for _, t := range tasks {
		if _, err := fmt.Fprintf(p.w, "➡️ %2d '%s', duration = %d mins", t.ID, t.Description, t.Duration); err != nil {
			return err
		}
		if _, err := dim.Fprintf(p.w, " (preference %d)\n", t.Preference); err != nil {
			return err
		}
		if t.HasTimeConstraint {
			if _, err := fmt.Fprintf(p.w, "\t 🕰 starts at %s\n", scheduler.FormatClock(t.StartTime)); err != nil {
				return err
			}
		}
		if deps := t.DependencyIDs(); len(deps) > 0 {
			if _, err := warn.Fprintf(p.w, "\t ⚠️ This task depends on others! %v\n", deps); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTrace prints every log entry as a start line and a completion line.
func (p *Printer) WriteTrace(res *scheduler.Result) error {
	clock := p.paint(color.FgCyan)
	done := p.paint(color.FgGreen)
	deadline := p.paint(color.FgMagenta)

	if _, err := fmt.Fprintf(p.w, "Running the %s scheduler:\n\n", res.Scheduler); err != nil {
		return err
	}
	for _, e := range res.Log.Entries {
		if _, err := clock.Fprintf(p.w, "🕰 t=%s\n", scheduler.FormatClock(e.Start)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(p.w, "\tstarted '%s' for %d mins...\n", e.Description, e.Duration); err != nil {
			return err
		}
		reason := done
		if e.Reason == scheduler.ReadyDeadline {
			reason = deadline
		}
		if _, err := reason.Fprintf(p.w, "\t✅ t=%s, task completed! '%s priority' (%s)\n",
			scheduler.FormatClock(e.End), formatPriority(e.Priority), e.Reason); err != nil {
			return err
		}
	}
	return nil
}

// WriteWindows prints the budget windows of a search run.
func (p *Printer) WriteWindows(res *scheduler.Result) error {
	if len(res.Windows) == 0 {
		return nil
	}
	header := p.paint(color.Bold)
	if _, err := header.Fprintln(p.w, "\nSearch windows:"); err != nil {
		return err
	}
	for _, w := range res.Windows {
		if _, err := fmt.Fprintf(p.w, "\t%s  budget %3d min  utility %3d  selected %v  executed %v\n",
			scheduler.FormatClock(w.Clock), w.Budget, w.Utility, w.Selected, w.Executed); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints how long the day took and what was left undone.
func (p *Printer) WriteSummary(res *scheduler.Result) error {
	elapsed := res.Elapsed()
	if len(res.Abandoned) == 0 {
		_, err := p.paint(color.FgGreen, color.Bold).Fprintf(p.w,
			"\n🏁 Completed all planned tasks in %dh%02dmin!\n", elapsed/60, elapsed%60)
		return err
	}

	if _, err := fmt.Fprintf(p.w, "\n🏁 Completed %d tasks in %dh%02dmin.\n",
		res.Log.Len(), elapsed/60, elapsed%60); err != nil {
		return err
	}
	_, err := p.paint(color.FgRed).Fprintf(p.w, "⚠️ %d tasks could not be scheduled: %v\n",
		len(res.Abandoned), res.Abandoned)
	return err
}

// WriteRun prints the trace, the search windows if any, and the summary.
func (p *Printer) WriteRun(res *scheduler.Result) error {
	if err := p.WriteTrace(res); err != nil {
		return err
	}
	if err := p.WriteWindows(res); err != nil {
		return err
	}
	return p.WriteSummary(res)
}

func formatPriority(key float64) string {
	if key == float64(int64(key)) {
		return fmt.Sprintf("%d", int64(key))
	}
	return fmt.Sprintf("%.2f", key)
}
