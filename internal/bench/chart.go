package bench

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true)
	styleBar   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleLogN  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleAxis  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// WriteTable prints one line per sample.
func WriteTable(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintf(w, "%6s  %12s  %8s  %9s  %7s\n", "tasks", "elapsed", "executed", "abandoned", "log(n)"); err != nil {
		return err
	}
	for _, s := range r.Samples {
		if _, err := fmt.Fprintf(w, "%6d  %12s  %8d  %9d  %7.3f\n",
			s.Size, s.Elapsed.Round(time.Microsecond), s.Executed, s.Abandoned, s.LogN); err != nil {
			return err
		}
	}
	return nil
}

// Chart renders elapsed time per size as horizontal bars, each followed by a
// marker for log(n) on the same scale as its largest value.
func Chart(r *Report, width int) string {
	if width < 10 {
		width = 10
	}

	var maxElapsed time.Duration
	var maxLog float64
	for _, s := range r.Samples {
		if s.Elapsed > maxElapsed {
			maxElapsed = s.Elapsed
		}
		if s.LogN > maxLog {
			maxLog = s.LogN
		}
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("%s scheduler performance and scaling", r.Scheduler)))
	b.WriteString("\n")
	for _, s := range r.Samples {
		bar := scale(float64(s.Elapsed), float64(maxElapsed), width)
		mark := scale(s.LogN, maxLog, width)

		var line strings.Builder
		for i := 0; i < width; i++ {
			switch {
			case i == mark-1:
				line.WriteString(styleLogN.Render("●"))
			case i < bar:
				line.WriteString(styleBar.Render("█"))
			default:
				line.WriteString(" ")
			}
		}

		b.WriteString(styleAxis.Render(fmt.Sprintf("%4d │", s.Size)))
		b.WriteString(line.String())
		b.WriteString(styleAxis.Render(fmt.Sprintf(" %s", s.Elapsed.Round(time.Microsecond))))
		b.WriteString("\n")
	}
	b.WriteString(styleAxis.Render("     └" + strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styleBar.Render("█ elapsed") + "  " + styleLogN.Render("● log(n)"))
	return b.String()
}

// scale maps v in [0, limit] onto [0, width] cells.
func scale(v, limit float64, width int) int {
	if limit <= 0 || v <= 0 {
		return 0
	}
	cells := int(v / limit * float64(width))
	if cells < 1 {
		cells = 1
	}
	if cells > width {
		cells = width
	}
	return cells
}
