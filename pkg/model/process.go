package model

// MaxTime bounds every time value a simulation can reach. Arrival and burst
// times, priorities, and the schedule horizon (latest arrival plus total
// burst) must not exceed it.
const MaxTime = 1_000_000

// Process is a synthetic process descriptor entered by the user.
// Descriptors are immutable once submitted to a simulation run.
type Process struct {
	ID          string       `json:"id" yaml:"id"`
	ArrivalTime int          `json:"arrival_time" yaml:"arrival"`
	BurstTime   int          `json:"burst_time" yaml:"burst"`
	Priority    int          `json:"priority" yaml:"priority"` // lower value = more urgent
	State       ProcessState `json:"state" yaml:"-"`
}

// Label returns the chart category label for the process ("P" + id).
func (p Process) Label() string {
	return "P" + p.ID
}

// Result is a Process enriched with the timing metrics of one simulation run.
type Result struct {
	Process
	StartTime      int `json:"start_time"`
	CompletionTime int `json:"completion_time"`
	TurnaroundTime int `json:"turnaround_time"`
	WaitingTime    int `json:"waiting_time"`
	ResponseTime   int `json:"response_time"`
}

// Segment is one interval [Start, End) during which ProcessID held the CPU.
type Segment struct {
	ProcessID string `json:"process_id"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

// Duration returns the length of the segment.
func (s Segment) Duration() int {
	return s.End - s.Start
}

// Summary holds aggregate statistics for a simulation run.
type Summary struct {
	Processes         int     `json:"processes"`
	Makespan          int     `json:"makespan"`
	BusyTime          int     `json:"busy_time"`
	IdleTime          int     `json:"idle_time"`
	CPUUtilization    float64 `json:"cpu_utilization"`
	Throughput        float64 `json:"throughput"`
	AvgWaitingTime    float64 `json:"avg_waiting_time"`
	AvgTurnaroundTime float64 `json:"avg_turnaround_time"`
	AvgResponseTime   float64 `json:"avg_response_time"`
	ContextSwitches   int     `json:"context_switches"`
}

// Run is the complete output of one simulation.
type Run struct {
	Policy   PolicyName `json:"policy"`
	Quantum  int        `json:"quantum,omitempty"`
	Results  []Result   `json:"results"`
	Timeline []Segment  `json:"timeline"`
	Summary  Summary    `json:"summary"`
}

// ResultFor returns the result for the given process id, if present.
func (r *Run) ResultFor(id string) (Result, bool) {
	for _, res := range r.Results {
		if res.ID == id {
			return res, true
		}
	}
	return Result{}, false
}

// Horizon returns the latest time any schedule of procs can end: the last
// arrival plus the sum of all bursts. The result saturates at MaxTime+1 so
// oversized inputs cannot overflow.
func Horizon(procs []Process) int {
	latest, total := 0, 0
	for _, p := range procs {
		if p.ArrivalTime > latest {
			latest = p.ArrivalTime
		}
		if p.BurstTime > 0 {
			total += min(p.BurstTime, MaxTime+1)
		}
		if total > MaxTime {
			return MaxTime + 1
		}
	}
	return min(min(latest, MaxTime+1)+total, MaxTime+1)
}
