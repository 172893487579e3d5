package engine

import (
	"fmt"

	"github.com/me/procviz/pkg/model"
)

// Policy is a scheduling policy. The set of variants is closed: each one
// implements schedule, so a policy without a handler does not compile.
type Policy interface {
	// Name returns the menu name of the policy.
	Name() model.PolicyName
	schedule(s *sim) error
}

// FCFS runs processes to completion in arrival order. Arrival ties keep
// input order.
type FCFS struct{}

// RoundRobin time-slices the CPU between ready processes in FIFO order.
type RoundRobin struct {
	Quantum int
}

// maxSlices bounds the number of quanta one Round Robin run may hand out.
const maxSlices = model.MaxTime

// SJF is non-preemptive shortest-job-first.
type SJF struct{}

// Priority is non-preemptive priority scheduling; lower values run first.
type Priority struct{}

func (FCFS) Name() model.PolicyName       { return model.PolicyFCFS }
func (RoundRobin) Name() model.PolicyName { return model.PolicyRR }
func (SJF) Name() model.PolicyName        { return model.PolicySJF }
func (Priority) Name() model.PolicyName   { return model.PolicyPriority }

// ForName maps a menu selector to its policy. quantum is only used by
// Round Robin. Unknown selectors yield an UNSUPPORTED_POLICY error.
func ForName(name model.PolicyName, quantum int) (Policy, error) {
	switch name {
	case model.PolicyFCFS:
		return FCFS{}, nil
	case model.PolicyRR:
		return RoundRobin{Quantum: quantum}, nil
	case model.PolicySJF:
		return SJF{}, nil
	case model.PolicyPriority:
		return Priority{}, nil
	}
	return nil, model.NewUnsupportedPolicyError(string(name))
}

func (FCFS) schedule(s *sim) error {
	for _, p := range s.byArrival() {
		s.idleUntil(p.ArrivalTime)
		if err := s.admit(p); err != nil {
			return err
		}
		if err := s.dispatch(p, p.remaining); err != nil {
			return err
		}
	}
	return nil
}

func (rr RoundRobin) schedule(s *sim) error {
	if rr.Quantum <= 0 {
		return model.NewValidationError("invalid quantum",
			model.FieldError{Field: "quantum", Message: fmt.Sprintf("quantum must be positive, got %d", rr.Quantum)})
	}
	slices := 0
	for _, p := range s.procs {
		n := p.remaining / rr.Quantum
		if p.remaining%rr.Quantum != 0 {
			n++
		}
		if n > maxSlices-slices {
			return model.NewValidationError("too many time slices",
				model.FieldError{Field: "quantum", Message: fmt.Sprintf("quantum %d needs more than %d slices for this workload", rr.Quantum, maxSlices)})
		}
		slices += n
	}

	pending := s.byArrival()
	next := 0
	var queue []*proc

	// admitUpTo enqueues every process that has arrived by time t.
	admitUpTo := func(t int) error {
		for next < len(pending) && pending[next].ArrivalTime <= t {
			if err := s.admit(pending[next]); err != nil {
				return err
			}
			queue = append(queue, pending[next])
			next++
		}
		return nil
	}

	for s.done < len(s.procs) {
		if err := admitUpTo(s.clock); err != nil {
			return err
		}
		if len(queue) == 0 {
			s.idleUntil(pending[next].ArrivalTime)
			continue
		}

		p := queue[0]
		queue = queue[1:]
		if err := s.dispatch(p, min(rr.Quantum, p.remaining)); err != nil {
			return err
		}

		// Arrivals during the slice queue ahead of the preempted process.
		if err := admitUpTo(s.clock); err != nil {
			return err
		}
		if p.remaining > 0 {
			if err := s.preempt(p); err != nil {
				return err
			}
			queue = append(queue, p)
		}
	}
	return nil
}

func (SJF) schedule(s *sim) error {
	return nonPreemptive(s, func(a, b *proc) bool {
		if a.BurstTime != b.BurstTime {
			return a.BurstTime < b.BurstTime
		}
		return arrivalOrder(a, b)
	})
}

func (Priority) schedule(s *sim) error {
	return nonPreemptive(s, func(a, b *proc) bool {
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return arrivalOrder(a, b)
	})
}

// nonPreemptive repeatedly picks the best ready process by less and runs it
// to completion. The CPU idles forward to the next arrival when nothing is
// ready.
func nonPreemptive(s *sim, less func(a, b *proc) bool) error {
	pending := s.byArrival()
	next := 0
	ready := newReadyQueue(less)

	for s.done < len(s.procs) {
		for next < len(pending) && pending[next].ArrivalTime <= s.clock {
			if err := s.admit(pending[next]); err != nil {
				return err
			}
			ready.push(pending[next])
			next++
		}
		if ready.Len() == 0 {
			s.idleUntil(pending[next].ArrivalTime)
			continue
		}
		p := ready.pop()
		if err := s.dispatch(p, p.remaining); err != nil {
			return err
		}
	}
	return nil
}

// arrivalOrder is the shared tie-break: earlier arrival, then input order.
func arrivalOrder(a, b *proc) bool {
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.index < b.index
}
