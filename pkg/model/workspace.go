package model

import "time"

// DefaultQuantum is the Round Robin time slice used when none is configured.
const DefaultQuantum = 2

// Workspace is one user's editable process list together with the
// selected policy and the latest successful run.
type Workspace struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Processes []Process  `json:"processes"`
	Policy    PolicyName `json:"policy"`
	Quantum   int        `json:"quantum"`
	LastRun   *Run       `json:"last_run,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HasProcess reports whether a process with the given id is in the list.
func (w *Workspace) HasProcess(id string) bool {
	return w.IndexOf(id) >= 0
}

// IndexOf returns the position of the process with the given id, or -1.
func (w *Workspace) IndexOf(id string) int {
	for i, p := range w.Processes {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ResultFor returns the latest run's result for a process, if any.
func (w *Workspace) ResultFor(id string) *Result {
	if w.LastRun == nil {
		return nil
	}
	if res, ok := w.LastRun.ResultFor(id); ok {
		return &res
	}
	return nil
}
