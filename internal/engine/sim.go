package engine

import (
	"fmt"
	"sort"

	"github.com/me/procviz/pkg/model"
)

// proc is the engine's private, mutable copy of a process descriptor.
type proc struct {
	model.Process
	index      int // position in the caller's input
	remaining  int
	dispatched bool
	start      int
	completion int
}

// sim is the discrete-event state of one run: the simulation clock, the
// process copies and the timeline built so far.
type sim struct {
	procs    []*proc
	clock    int
	done     int
	order    []*proc // processes in order of first dispatch
	timeline []model.Segment
}

func newSim(processes []model.Process) *sim {
	s := &sim{procs: make([]*proc, len(processes))}
	for i, p := range processes {
		cp := p
		cp.State = model.ProcessStateNew
		s.procs[i] = &proc{Process: cp, index: i, remaining: p.BurstTime}
	}
	return s
}

// byArrival returns the processes sorted by arrival time, ties in input order.
func (s *sim) byArrival() []*proc {
	out := make([]*proc, len(s.procs))
	copy(out, s.procs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ArrivalTime < out[j].ArrivalTime
	})
	return out
}

// idleUntil advances the clock to t if the CPU would otherwise sit idle.
func (s *sim) idleUntil(t int) {
	if s.clock < t {
		s.clock = t
	}
}

func (s *sim) transition(p *proc, to model.ProcessState) error {
	if !p.State.CanTransitionTo(to) {
		return &model.InvalidTransitionError{ID: p.ID, From: p.State, To: to}
	}
	p.State = to
	return nil
}

// admit moves an arrived process into the ready set.
func (s *sim) admit(p *proc) error {
	return s.transition(p, model.ProcessStateReady)
}

// preempt returns a running process to the ready set.
func (s *sim) preempt(p *proc) error {
	return s.transition(p, model.ProcessStateReady)
}

// dispatch runs p for n time units starting at the current clock.
// Contiguous slices of the same process are merged into one segment.
func (s *sim) dispatch(p *proc, n int) error {
	if n <= 0 || n > p.remaining {
		return fmt.Errorf("dispatch %s: slice %d outside remaining burst %d", p.ID, n, p.remaining)
	}
	if err := s.transition(p, model.ProcessStateRunning); err != nil {
		return err
	}
	if !p.dispatched {
		p.dispatched = true
		p.start = s.clock
		s.order = append(s.order, p)
	}

	if last := len(s.timeline) - 1; last >= 0 && s.timeline[last].ProcessID == p.ID && s.timeline[last].End == s.clock {
		s.timeline[last].End += n
	} else {
		s.timeline = append(s.timeline, model.Segment{ProcessID: p.ID, Start: s.clock, End: s.clock + n})
	}
	s.clock += n
	p.remaining -= n

	if p.remaining == 0 {
		p.completion = s.clock
		s.done++
		return s.transition(p, model.ProcessStateTerminated)
	}
	return nil
}

// results builds the enriched records in order of first dispatch.
func (s *sim) results() []model.Result {
	out := make([]model.Result, 0, len(s.order))
	for _, p := range s.order {
		turnaround := p.completion - p.ArrivalTime
		out = append(out, model.Result{
			Process:        p.Process,
			StartTime:      p.start,
			CompletionTime: p.completion,
			TurnaroundTime: turnaround,
			WaitingTime:    turnaround - p.BurstTime,
			ResponseTime:   p.start - p.ArrivalTime,
		})
	}
	return out
}
