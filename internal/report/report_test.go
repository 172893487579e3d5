package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/me/procviz/pkg/model"
)

func fcfsRun() *model.Run {
	return &model.Run{
		Policy: model.PolicyFCFS,
		Results: []model.Result{
			{Process: model.Process{ID: "1", BurstTime: 5}, CompletionTime: 5, TurnaroundTime: 5},
			{Process: model.Process{ID: "2", ArrivalTime: 1, BurstTime: 3}, StartTime: 5, CompletionTime: 8,
				TurnaroundTime: 7, WaitingTime: 4, ResponseTime: 4},
		},
		Timeline: []model.Segment{{ProcessID: "1", Start: 0, End: 5}, {ProcessID: "2", Start: 5, End: 8}},
		Summary: model.Summary{Processes: 2, Makespan: 8, BusyTime: 8, CPUUtilization: 1,
			Throughput: 0.25, AvgWaitingTime: 2, AvgTurnaroundTime: 6, AvgResponseTime: 2, ContextSwitches: 1},
	}
}

func TestResults(t *testing.T) {
	var buf bytes.Buffer
	Results(&buf, fcfsRun())
	out := buf.String()
	for _, want := range []string{"Schedule table", "TURNAROUND", "2.00", "6.00", "0.25"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	run := fcfsRun()
	Summary(&buf, run)
	if !strings.Contains(buf.String(), "First-Come, First-Served (FCFS)") {
		t.Errorf("missing policy label:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "100.0%") {
		t.Errorf("missing utilization:\n%s", buf.String())
	}

	buf.Reset()
	run.Policy, run.Quantum = model.PolicyRR, 3
	Summary(&buf, run)
	if !strings.Contains(buf.String(), "quantum 3") {
		t.Errorf("missing quantum:\n%s", buf.String())
	}
}

func TestGantt(t *testing.T) {
	var buf bytes.Buffer
	Gantt(&buf, []model.Segment{
		{ProcessID: "1", Start: 2, End: 5},
		{ProcessID: "2", Start: 7, End: 8},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[1] != "| idle |  P1  | idle |  P2  |" {
		t.Errorf("bar = %q", lines[1])
	}
	if lines[2] != "0      2      5      7      8" {
		t.Errorf("axis = %q", lines[2])
	}
}

func TestGantt_Empty(t *testing.T) {
	var buf bytes.Buffer
	Gantt(&buf, nil)
	if !strings.Contains(buf.String(), "(empty)") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestComparison(t *testing.T) {
	a := fcfsRun()
	b := fcfsRun()
	b.Policy, b.Quantum = model.PolicyRR, 2
	b.Summary.AvgWaitingTime = 1.5

	var buf bytes.Buffer
	Comparison(&buf, []*model.Run{a, b})
	out := buf.String()
	if !strings.Contains(out, "Round Robin (RR) q=2 *") {
		t.Errorf("best run not marked:\n%s", out)
	}
	if strings.Contains(out, "(FCFS) *") {
		t.Errorf("FCFS wrongly marked:\n%s", out)
	}
}

func TestWorkspaces(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list := []*model.Workspace{
		{ID: "ws_1", Name: "demo", Policy: model.PolicySJF, UpdatedAt: now.Add(-3 * time.Minute),
			Processes: []model.Process{{ID: "1"}}, LastRun: fcfsRun()},
	}
	var buf bytes.Buffer
	Workspaces(&buf, list, now)
	out := buf.String()
	for _, want := range []string{"ws_1", "demo", "3 minutes ago", "fcfs, avg wait 2.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestLayout(t *testing.T) {
	run := &model.Run{
		Timeline: []model.Segment{
			{ProcessID: "1", Start: 0, End: 2},
			{ProcessID: "2", Start: 2, End: 4},
			{ProcessID: "1", Start: 4, End: 5},
		},
		Summary: model.Summary{Makespan: 5},
	}
	c := Layout(run, 556)

	if len(c.Rows) != 2 || c.Rows[0].Label != "P1" || c.Rows[1].Label != "P2" {
		t.Fatalf("rows = %+v", c.Rows)
	}
	if len(c.Bars) != 3 {
		t.Fatalf("bars = %d, want 3", len(c.Bars))
	}
	// 500px plot area over 5 time units: 100px per unit.
	if c.Bars[1].X != 56+200 || c.Bars[1].Width != 200 {
		t.Errorf("bar[1] = %+v", c.Bars[1])
	}
	if c.Bars[2].Y != c.Bars[0].Y {
		t.Error("segments of one process should share a row")
	}
	if c.Bars[0].Color == c.Bars[1].Color {
		t.Error("rows should get distinct colors")
	}
	if len(c.Ticks) != 6 {
		t.Errorf("ticks = %d, want 6", len(c.Ticks))
	}
}

func TestLayout_Empty(t *testing.T) {
	c := Layout(nil, 400)
	if len(c.Bars) != 0 || c.Height == 0 {
		t.Errorf("chart = %+v", c)
	}
}

func TestLayout_LargeMakespan(t *testing.T) {
	for _, makespan := range []int{model.MaxTime, 1<<63 - 1} {
		run := &model.Run{
			Timeline: []model.Segment{{ProcessID: "1", Start: 0, End: makespan}},
			Summary:  model.Summary{Makespan: makespan},
		}
		c := Layout(run, 556)
		if len(c.Ticks) == 0 || len(c.Ticks) > maxTicks+1 {
			t.Fatalf("makespan %d: ticks = %d", makespan, len(c.Ticks))
		}
		for i, tick := range c.Ticks {
			if tick.Time < 0 || tick.Time > makespan {
				t.Errorf("makespan %d: tick[%d] = %d", makespan, i, tick.Time)
			}
		}
	}
}
