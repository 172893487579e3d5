package engine

import "github.com/me/procviz/pkg/model"

// Summarize computes aggregate statistics for a finished run.
func Summarize(results []model.Result, timeline []model.Segment) model.Summary {
	sum := model.Summary{Processes: len(results)}
	if len(results) == 0 {
		return sum
	}

	var wait, turnaround, response int
	for _, r := range results {
		wait += r.WaitingTime
		turnaround += r.TurnaroundTime
		response += r.ResponseTime
		if r.CompletionTime > sum.Makespan {
			sum.Makespan = r.CompletionTime
		}
	}
	for i, seg := range timeline {
		sum.BusyTime += seg.Duration()
		if i > 0 && seg.ProcessID != timeline[i-1].ProcessID {
			sum.ContextSwitches++
		}
	}

	n := float64(len(results))
	sum.AvgWaitingTime = float64(wait) / n
	sum.AvgTurnaroundTime = float64(turnaround) / n
	sum.AvgResponseTime = float64(response) / n
	sum.IdleTime = sum.Makespan - sum.BusyTime
	if sum.Makespan > 0 {
		sum.CPUUtilization = float64(sum.BusyTime) / float64(sum.Makespan)
		sum.Throughput = n / float64(sum.Makespan)
	}
	return sum
}
