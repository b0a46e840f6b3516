package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aristath/dayplanner/internal/scheduler"
)

func sampleResult() *scheduler.Result {
	return &scheduler.Result{
		Scheduler:  scheduler.KindGreedy,
		StartClock: 480,
		EndClock:   550,
		Log: scheduler.ExecutionLog{Entries: []scheduler.LogEntry{
			{TaskID: 1, Description: "A", Start: 480, Duration: 30, End: 510, Priority: 15, Reason: scheduler.ReadyDependency},
			{TaskID: 3, Description: "C", Start: 540, Duration: 10, End: 550, Priority: -9, Reason: scheduler.ReadyDeadline},
		}},
	}
}

func TestWriteTrace(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, false).WriteTrace(sampleResult()); err != nil {
		t.Fatalf("WriteTrace failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Running the greedy scheduler:",
		"🕰 t=8h00\n\tstarted 'A' for 30 mins...",
		"✅ t=8h30, task completed! '15 priority' (dependency)",
		"🕰 t=9h00",
		"'-9 priority' (deadline)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("color escape codes written with color disabled")
	}
}

func TestWriteTrace_Color(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, true).WriteTrace(sampleResult()); err != nil {
		t.Fatalf("WriteTrace failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected color escape codes")
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	res := sampleResult()
	if err := p.WriteSummary(res); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Completed all planned tasks in 1h10min!") {
		t.Errorf("unexpected summary: %q", buf.String())
	}

	buf.Reset()
	res.Abandoned = []int{7, 9}
	if err := p.WriteSummary(res); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Completed 2 tasks in 1h10min.") || !strings.Contains(out, "2 tasks could not be scheduled: [7 9]") {
		t.Errorf("unexpected summary: %q", out)
	}
}

func TestWriteTasks(t *testing.T) {
	tasks := []*scheduler.Task{
		scheduler.NewTimedTask(1, "Wake up", 30, nil, 8, 480),
		scheduler.NewTask(2, "Breakfast", 60, []int{1}, 6),
	}

	var buf bytes.Buffer
	if err := NewPrinter(&buf, false).WriteTasks(tasks); err != nil {
		t.Fatalf("WriteTasks failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Tasks (2)",
		"'Wake up', duration = 30 mins (preference 8)",
		"starts at 8h00",
		"'Breakfast', duration = 60 mins",
		"This task depends on others! [1]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "depends on others") != 1 {
		t.Errorf("only the breakfast task has dependencies:\n%s", out)
	}
}

func TestWriteWindows(t *testing.T) {
	res := sampleResult()
	res.Windows = []scheduler.Window{{Clock: 480, Budget: 60, Utility: 24, Selected: []int{1, 2}, Executed: []int{1, 2}}}

	var buf bytes.Buffer
	if err := NewPrinter(&buf, false).WriteWindows(res); err != nil {
		t.Fatalf("WriteWindows failed: %v", err)
	}
	if !strings.Contains(buf.String(), "budget  60 min  utility  24  selected [1 2]") {
		t.Errorf("unexpected windows output: %q", buf.String())
	}
}

func TestFormatPriority(t *testing.T) {
	tests := map[float64]string{15: "15", -9: "-9", -8.5: "-8.50", 0: "0"}
	for in, want := range tests {
		if got := formatPriority(in); got != want {
			t.Errorf("formatPriority(%v) = %q, want %q", in, got, want)
		}
	}
}
