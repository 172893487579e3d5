package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestListOptions_Clamp(t *testing.T) {
	tests := []struct {
		name  string
		in    ListOptions
		limit int
		off   int
	}{
		{"zero value", ListOptions{}, 20, 0},
		{"negative limit", ListOptions{Limit: -1}, 20, 0},
		{"limit capped", ListOptions{Limit: 500, Offset: 40}, 100, 40},
		{"negative offset", ListOptions{Limit: 5, Offset: -10}, 5, 0},
		{"unchanged", ListOptions{Limit: 1, Offset: 3}, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.in
			opts.Clamp()
			if opts.Limit != tt.limit || opts.Offset != tt.off {
				t.Errorf("Clamp(%+v) = %+v, want limit %d offset %d", tt.in, opts, tt.limit, tt.off)
			}
		})
	}

	if d := DefaultListOptions(); d != (ListOptions{Limit: 20}) {
		t.Errorf("DefaultListOptions() = %+v", d)
	}
}

func TestSimulateRequest_Decode(t *testing.T) {
	body := `{
		"policy": "rr",
		"quantum": 3,
		"processes": [
			{"id": "1", "arrival_time": 0, "burst_time": 5},
			{"id": "2", "arrival_time": 2, "burst_time": 1, "priority": -4}
		]
	}`
	var req SimulateRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.Policy != PolicyRR || req.Quantum != 3 {
		t.Errorf("policy = %s/%d, want rr/3", req.Policy, req.Quantum)
	}
	if len(req.Processes) != 2 {
		t.Fatalf("processes = %d, want 2", len(req.Processes))
	}
	want := Process{ID: "2", ArrivalTime: 2, BurstTime: 1, Priority: -4}
	if req.Processes[1] != want {
		t.Errorf("processes[1] = %+v, want %+v", req.Processes[1], want)
	}

	// The quantum is optional on the wire.
	raw, err := json.Marshal(SimulateRequest{Policy: PolicyFCFS, Processes: []Process{}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(raw), "quantum") {
		t.Errorf("zero quantum should be omitted: %s", raw)
	}
}

func TestProcessInput_JSON(t *testing.T) {
	raw, err := json.Marshal(ProcessInput{ID: "A", ArrivalTime: "0", BurstTime: "4"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(raw)
	if got != `{"id":"A","arrival_time":"0","burst_time":"4"}` {
		t.Errorf("json = %s", got)
	}

	var in ProcessInput
	if err := json.Unmarshal([]byte(`{"id":"B","arrival_time":"1","burst_time":"2","priority":"3"}`), &in); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if in.Priority != "3" || in.ArrivalTime != "1" {
		t.Errorf("input = %+v", in)
	}
}

func TestPolicyInfo_JSON(t *testing.T) {
	raw, err := json.Marshal(PolicyInfo{Name: PolicyRR, Label: PolicyRR.Label(), UsesQuantum: true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["name"] != "rr" || m["enabled"] != false || m["uses_quantum"] != true {
		t.Errorf("policy info = %v", m)
	}
}

func TestResponse_OmitsEmptyPagination(t *testing.T) {
	raw, err := json.Marshal(Response{Status: "ok", RequestID: "req_1", Data: []PolicyInfo{}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(raw), "pagination") {
		t.Errorf("pagination should be omitted: %s", raw)
	}
	if !strings.Contains(string(raw), `"error":null`) {
		t.Errorf("error key missing: %s", raw)
	}
}
