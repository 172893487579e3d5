// Package engine computes CPU scheduling simulations.
//
// The engine is pure and stateless: Simulate copies its input, advances a
// private simulation clock, and returns fresh results and a timeline.
// It performs no I/O and keeps nothing between calls.
package engine

import (
	"fmt"

	"github.com/me/procviz/pkg/model"
)

// Simulate schedules processes under policy on a single CPU.
//
// The caller's slice is never modified. On error no partial output is
// returned. Duplicate ids are the caller's responsibility.
func Simulate(processes []model.Process, policy Policy) (*model.Run, error) {
	if policy == nil {
		return nil, model.NewUnsupportedPolicyError("")
	}
	if err := checkInput(processes); err != nil {
		return nil, err
	}

	s := newSim(processes)
	if err := policy.schedule(s); err != nil {
		return nil, err
	}

	run := &model.Run{
		Policy:   policy.Name(),
		Results:  s.results(),
		Timeline: s.timeline,
	}
	if rr, ok := policy.(RoundRobin); ok {
		run.Quantum = rr.Quantum
	}
	run.Summary = Summarize(run.Results, run.Timeline)
	return run, nil
}

// SimulateNamed resolves a menu selector and runs it.
func SimulateNamed(processes []model.Process, name model.PolicyName, quantum int) (*model.Run, error) {
	policy, err := ForName(name, quantum)
	if err != nil {
		return nil, err
	}
	return Simulate(processes, policy)
}

func checkInput(processes []model.Process) error {
	if len(processes) == 0 {
		return model.NewValidationError("no processes to schedule",
			model.FieldError{Field: "processes", Message: "at least one process is required"})
	}
	var errs []model.FieldError
	for i, p := range processes {
		path := fmt.Sprintf("processes[%d]", i)
		if p.ID == "" {
			errs = append(errs, model.FieldError{Field: "id", Path: path, Message: "id is required"})
		}
		if p.ArrivalTime < 0 || p.ArrivalTime > model.MaxTime {
			errs = append(errs, model.FieldError{Field: "arrival_time", Path: path,
				Message: fmt.Sprintf("arrival time must be between 0 and %d, got %d", model.MaxTime, p.ArrivalTime)})
		}
		if p.BurstTime <= 0 || p.BurstTime > model.MaxTime {
			errs = append(errs, model.FieldError{Field: "burst_time", Path: path,
				Message: fmt.Sprintf("burst time must be between 1 and %d, got %d", model.MaxTime, p.BurstTime)})
		}
		if p.Priority < -model.MaxTime || p.Priority > model.MaxTime {
			errs = append(errs, model.FieldError{Field: "priority", Path: path,
				Message: fmt.Sprintf("priority must be between %d and %d, got %d", -model.MaxTime, model.MaxTime, p.Priority)})
		}
	}
	if len(errs) > 0 {
		return model.NewValidationError("invalid process set", errs...)
	}
	// Every clock value stays at or below the horizon, so it cannot overflow.
	if model.Horizon(processes) > model.MaxTime {
		return model.NewValidationError("process times too large",
			model.FieldError{Field: "processes",
				Message: fmt.Sprintf("latest arrival plus total burst time must not exceed %d", model.MaxTime)})
	}
	return nil
}
