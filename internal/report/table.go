// Package report renders simulation runs as text tables, ASCII Gantt charts,
// and chart layouts for the web UI.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/me/procviz/pkg/model"
)

// Title prints a boxed heading.
func Title(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("-", len(title)+4))
	fmt.Fprintln(w, " ", title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)+4))
}

// Results prints the per-process schedule table with an averages footer.
func Results(w io.Writer, run *model.Run) {
	fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Priority", "Burst", "Arrival", "Start", "Wait", "Turnaround", "Response", "Exit"})
	table.SetAutoWrapText(false)

	rows := make([][]string, 0, len(run.Results))
	for _, r := range run.Results {
		rows = append(rows, []string{
			r.ID,
			strconv.Itoa(r.Priority),
			strconv.Itoa(r.BurstTime),
			strconv.Itoa(r.ArrivalTime),
			strconv.Itoa(r.StartTime),
			strconv.Itoa(r.WaitingTime),
			strconv.Itoa(r.TurnaroundTime),
			strconv.Itoa(r.ResponseTime),
			strconv.Itoa(r.CompletionTime),
		})
	}
	table.AppendBulk(rows)

	s := run.Summary
	table.SetFooter([]string{"", "", "", "", "",
		fmt.Sprintf("Average\n%.2f", s.AvgWaitingTime),
		fmt.Sprintf("Average\n%.2f", s.AvgTurnaroundTime),
		fmt.Sprintf("Average\n%.2f", s.AvgResponseTime),
		fmt.Sprintf("Throughput\n%.2f/t", s.Throughput)})
	table.Render()
}

// Summary prints the aggregate statistics of a run.
func Summary(w io.Writer, run *model.Run) {
	s := run.Summary
	policy := run.Policy.Label()
	if run.Policy.UsesQuantum() {
		policy += fmt.Sprintf(", quantum %d", run.Quantum)
	}
	fmt.Fprintf(w, "Policy:           %s\n", policy)
	fmt.Fprintf(w, "Processes:        %d\n", s.Processes)
	fmt.Fprintf(w, "Makespan:         %d (busy %d, idle %d)\n", s.Makespan, s.BusyTime, s.IdleTime)
	fmt.Fprintf(w, "CPU utilization:  %.1f%%\n", s.CPUUtilization*100)
	fmt.Fprintf(w, "Context switches: %d\n", s.ContextSwitches)
}

// Comparison prints one row per run with its averages.
func Comparison(w io.Writer, runs []*model.Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Policy", "Avg wait", "Avg turnaround", "Avg response", "Makespan", "Switches", "Throughput"})
	table.SetAutoWrapText(false)

	best := bestWaiting(runs)
	for _, run := range runs {
		s := run.Summary
		name := run.Policy.Label()
		if run.Policy.UsesQuantum() {
			name += fmt.Sprintf(" q=%d", run.Quantum)
		}
		if run == best {
			name += " *"
		}
		table.Append([]string{
			name,
			fmt.Sprintf("%.2f", s.AvgWaitingTime),
			fmt.Sprintf("%.2f", s.AvgTurnaroundTime),
			fmt.Sprintf("%.2f", s.AvgResponseTime),
			strconv.Itoa(s.Makespan),
			strconv.Itoa(s.ContextSwitches),
			fmt.Sprintf("%.2f/t", s.Throughput),
		})
	}
	table.Render()
	if best != nil {
		fmt.Fprintln(w, "* lowest average waiting time")
	}
}

// bestWaiting returns the first run with the lowest average waiting time.
func bestWaiting(runs []*model.Run) *model.Run {
	var best *model.Run
	for _, r := range runs {
		if best == nil || r.Summary.AvgWaitingTime < best.Summary.AvgWaitingTime {
			best = r
		}
	}
	return best
}

// Workspaces prints a workspace listing with relative update times.
func Workspaces(w io.Writer, list []*model.Workspace, now time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Processes", "Policy", "Last run", "Updated"})
	table.SetAutoWrapText(false)
	for _, ws := range list {
		last := "-"
		if ws.LastRun != nil {
			last = fmt.Sprintf("%s, avg wait %.2f", ws.LastRun.Policy, ws.LastRun.Summary.AvgWaitingTime)
		}
		table.Append([]string{
			ws.ID,
			ws.Name,
			strconv.Itoa(len(ws.Processes)),
			string(ws.Policy),
			last,
			humanize.RelTime(ws.UpdatedAt, now, "ago", "from now"),
		})
	}
	table.Render()
}

// Processes prints a workspace's process list.
func Processes(w io.Writer, procs []model.Process) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Arrival", "Burst", "Priority"})
	for _, p := range procs {
		table.Append([]string{p.ID, strconv.Itoa(p.ArrivalTime), strconv.Itoa(p.BurstTime), strconv.Itoa(p.Priority)})
	}
	table.Render()
}
