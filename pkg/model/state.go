package model

// ProcessState represents the lifecycle state of a simulated process.
type ProcessState string

const (
	ProcessStateNew        ProcessState = "New"
	ProcessStateReady      ProcessState = "Ready"
	ProcessStateRunning    ProcessState = "Running"
	ProcessStateWaiting    ProcessState = "Waiting"
	ProcessStateTerminated ProcessState = "Terminated"
)

// String returns the string representation of the process state.
func (s ProcessState) String() string {
	return string(s)
}

// IsTerminal returns true if the process has finished executing.
func (s ProcessState) IsTerminal() bool {
	return s == ProcessStateTerminated
}

// ValidProcessTransitions defines the allowed state transitions for processes.
// Waiting is reachable only through an I/O block, which none of the
// built-in policies model.
var ValidProcessTransitions = map[ProcessState][]ProcessState{
	ProcessStateNew:     {ProcessStateReady},
	ProcessStateReady:   {ProcessStateRunning},
	ProcessStateRunning: {ProcessStateReady, ProcessStateWaiting, ProcessStateTerminated},
	ProcessStateWaiting: {ProcessStateReady},
}

// CanTransitionTo returns true if moving from the current state to next is valid.
func (s ProcessState) CanTransitionTo(next ProcessState) bool {
	for _, allowed := range ValidProcessTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
