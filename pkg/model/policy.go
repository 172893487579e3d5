package model

import "strings"

// PolicyName identifies a scheduling policy from the fixed menu.
type PolicyName string

const (
	PolicyFCFS     PolicyName = "fcfs"
	PolicyRR       PolicyName = "rr"
	PolicySJF      PolicyName = "sjf"
	PolicyPriority PolicyName = "priority"
)

// Policies lists every policy in menu order.
var Policies = []PolicyName{PolicyFCFS, PolicyRR, PolicySJF, PolicyPriority}

var policyLabels = map[PolicyName]string{
	PolicyFCFS:     "First-Come, First-Served (FCFS)",
	PolicyRR:       "Round Robin (RR)",
	PolicySJF:      "Shortest Job First (SJF)",
	PolicyPriority: "Priority Scheduling",
}

// String returns the short name of the policy.
func (p PolicyName) String() string {
	return string(p)
}

// Label returns the display label shown in the algorithm menu.
func (p PolicyName) Label() string {
	if l, ok := policyLabels[p]; ok {
		return l
	}
	return string(p)
}

// IsKnown reports whether p is one of the menu policies.
func (p PolicyName) IsKnown() bool {
	_, ok := policyLabels[p]
	return ok
}

// UsesQuantum reports whether the policy needs a time quantum.
func (p PolicyName) UsesQuantum() bool {
	return p == PolicyRR
}

// ParsePolicyName accepts a short name ("rr") or a display label
// ("Round Robin (RR)"), case-insensitively. Unknown input is returned
// unchanged so the caller can report it.
func ParsePolicyName(s string) PolicyName {
	s = strings.TrimSpace(s)
	for _, p := range Policies {
		if strings.EqualFold(s, string(p)) || strings.EqualFold(s, p.Label()) {
			return p
		}
	}
	return PolicyName(s)
}
