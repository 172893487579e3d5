package model

import "testing"

func TestParsePolicyName(t *testing.T) {
	tests := []struct {
		in   string
		want PolicyName
	}{
		{"fcfs", PolicyFCFS},
		{"FCFS", PolicyFCFS},
		{" rr ", PolicyRR},
		{"Round Robin (RR)", PolicyRR},
		{"shortest job first (sjf)", PolicySJF},
		{"Priority Scheduling", PolicyPriority},
		{"lottery", PolicyName("lottery")},
	}
	for _, tt := range tests {
		if got := ParsePolicyName(tt.in); got != tt.want {
			t.Errorf("ParsePolicyName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPolicyName_Menu(t *testing.T) {
	if len(Policies) != 4 {
		t.Fatalf("menu has %d entries, want 4", len(Policies))
	}
	for _, p := range Policies {
		if !p.IsKnown() {
			t.Errorf("%s not known", p)
		}
		if p.Label() == string(p) {
			t.Errorf("%s has no display label", p)
		}
	}
	if PolicyName("mlfq").IsKnown() {
		t.Error("mlfq should not be known")
	}
	if !PolicyRR.UsesQuantum() || PolicyFCFS.UsesQuantum() {
		t.Error("only rr uses a quantum")
	}
}
