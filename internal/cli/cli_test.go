package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/me/procviz/internal/config"
	"github.com/me/procviz/internal/logging"
	"github.com/me/procviz/internal/server"
	"github.com/me/procviz/internal/store"
	"github.com/me/procviz/pkg/model"
)

const mockServer = "http://procviz.test"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func writeWorkload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// okEnvelope wraps data the way the server does.
func okEnvelope(t *testing.T, data any) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"status": "ok", "request_id": "req_test", "data": data})
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

const textbook = `name: textbook
processes:
  - {id: "1", arrival: 0, burst: 5}
  - {id: "2", arrival: 1, burst: 3}
  - {id: "3", arrival: 2, burst: 8}
`

func TestSimulateCommand(t *testing.T) {
	path := writeWorkload(t, "textbook.yaml", textbook)

	out, err := runCLI(t, "simulate", path)
	if err != nil {
		t.Fatalf("simulate: %v\n%s", err, out)
	}
	for _, want := range []string{"textbook: First-Come, First-Served (FCFS)", "Schedule table", "Gantt schedule", "P3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimulateCommand_JSON(t *testing.T) {
	path := writeWorkload(t, "textbook.yaml", textbook)

	out, err := runCLI(t, "simulate", path, "--policy", "rr", "--quantum", "4", "-o", "json")
	if err != nil {
		t.Fatalf("simulate: %v\n%s", err, out)
	}
	var run model.Run
	if err := json.Unmarshal([]byte(out), &run); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if run.Policy != model.PolicyRR || run.Quantum != 4 {
		t.Errorf("policy = %s/%d, want rr/4", run.Policy, run.Quantum)
	}
	if run.Summary.Makespan != 16 {
		t.Errorf("makespan = %d, want 16", run.Summary.Makespan)
	}
}

func TestSimulateCommand_Errors(t *testing.T) {
	path := writeWorkload(t, "textbook.yaml", textbook)

	if _, err := runCLI(t, "simulate", path, "--policy", "lottery"); !errors.Is(err, model.ErrUnsupportedPolicy) {
		t.Errorf("unknown policy: err = %v", err)
	}
	if _, err := runCLI(t, "simulate", path, "-o", "xml"); err == nil {
		t.Error("expected error for unknown output format")
	}
	bad := writeWorkload(t, "bad.csv", "1,0,5\n1,2,3\n")
	if _, err := runCLI(t, "simulate", bad); !errors.Is(err, model.ErrDuplicateID) {
		t.Errorf("duplicate ids: err = %v", err)
	}
}

func TestCompareCommand(t *testing.T) {
	path := writeWorkload(t, "mix.csv", "id,arrival,burst,priority\n1,0,8,3\n2,1,4,1\n3,2,2,2\n")

	out, err := runCLI(t, "compare", path)
	if err != nil {
		t.Fatalf("compare: %v\n%s", err, out)
	}
	for _, p := range model.Policies {
		if !strings.Contains(out, p.Label()) {
			t.Errorf("comparison missing %s:\n%s", p.Label(), out)
		}
	}
	if !strings.Contains(out, "lowest average waiting time") {
		t.Errorf("no best marker:\n%s", out)
	}
}

func TestPoliciesCommand(t *testing.T) {
	httpmock.Activate(t)
	defer httpmock.DeactivateAndReset()

	policies := httpmock.NewStringResponder(200, okEnvelope(t, []model.PolicyInfo{
		{Name: model.PolicyFCFS, Label: model.PolicyFCFS.Label(), Enabled: true},
		{Name: model.PolicyRR, Label: model.PolicyRR.Label(), UsesQuantum: true},
	}))
	var reqID string
	httpmock.RegisterResponder("GET", mockServer+"/api/v1/policies",
		func(req *http.Request) (*http.Response, error) {
			reqID = req.Header.Get("X-Request-ID")
			return policies(req)
		})

	out, err := runCLI(t, "--server", mockServer, "policies")
	if err != nil {
		t.Fatalf("policies: %v", err)
	}
	if !strings.Contains(out, "Round Robin (RR)") || !strings.Contains(out, "no") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if n := httpmock.GetTotalCallCount(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
	if !strings.HasPrefix(reqID, "cli_") {
		t.Errorf("X-Request-ID = %q, want cli_ prefix", reqID)
	}
}

func TestRunCommand_SelectsPolicyFirst(t *testing.T) {
	httpmock.Activate(t)
	defer httpmock.DeactivateAndReset()

	var selected map[string]any
	httpmock.RegisterResponder("PUT", mockServer+"/api/v1/workspaces/ws_1/policy",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&selected); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(200, okEnvelope(t, model.Workspace{ID: "ws_1"})), nil
		})
	httpmock.RegisterResponder("POST", mockServer+"/api/v1/workspaces/ws_1/run",
		httpmock.NewStringResponder(200, okEnvelope(t, model.Workspace{
			ID: "ws_1",
			LastRun: &model.Run{
				Policy:   model.PolicySJF,
				Results:  []model.Result{{Process: model.Process{ID: "1", BurstTime: 2}, CompletionTime: 2, TurnaroundTime: 2}},
				Timeline: []model.Segment{{ProcessID: "1", Start: 0, End: 2}},
				Summary:  model.Summary{Processes: 1, Makespan: 2, BusyTime: 2, CPUUtilization: 1},
			},
		})))

	out, err := runCLI(t, "--server", mockServer, "run", "ws_1", "--policy", "SJF")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if selected["policy"] != "sjf" {
		t.Errorf("selected = %+v, want policy sjf", selected)
	}
	if !strings.Contains(out, "Shortest Job First (SJF)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	info := httpmock.GetCallCountInfo()
	if info["POST "+mockServer+"/api/v1/workspaces/ws_1/run"] != 1 {
		t.Errorf("call info = %v", info)
	}
}

func TestRunCommand_APIError(t *testing.T) {
	httpmock.Activate(t)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", mockServer+"/api/v1/workspaces/ws_1/run",
		httpmock.NewStringResponder(422, `{"status":"error","error":{"code":"UNSUPPORTED_POLICY","message":"Selected algorithm not implemented yet"}}`))

	_, err := runCLI(t, "--server", mockServer, "run", "ws_1")
	if !errors.Is(err, model.ErrUnsupportedPolicy) {
		t.Fatalf("err = %v, want UNSUPPORTED_POLICY", err)
	}
	if !strings.Contains(err.Error(), "Selected algorithm not implemented yet") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestClient_TransportError(t *testing.T) {
	httpmock.Activate(t)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", mockServer+"/api/v1/policies",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	c := NewClient(mockServer+"/", logging.Discard())
	if _, err := c.Get("/api/v1/policies"); err == nil || !strings.Contains(err.Error(), "request failed") {
		t.Errorf("err = %v", err)
	}
}

// startTestServer starts a server with an in-memory SQLite store and returns the URL.
func startTestServer(t *testing.T) string {
	t.Helper()
	srvLogger := logging.Discard()
	st, err := store.NewSQLiteStore(":memory:", srvLogger)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := server.New(config.DefaultServerConfig(), st, srvLogger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestWorkspaceRoundTrip(t *testing.T) {
	url := startTestServer(t)

	out, err := runCLI(t, "--server", url, "workspace", "create", "--name", "lab")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := strings.TrimSpace(out)
	if !strings.HasPrefix(id, "ws_") {
		t.Fatalf("id = %q", id)
	}

	if out, err := runCLI(t, "--server", url, "add", id, "--id", "1", "--arrival", "0", "--burst", "5"); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	path := writeWorkload(t, "more.csv", "2,1,3\n3,2,8\n")
	if out, err := runCLI(t, "--server", url, "add", id, "--file", path); err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if _, err := runCLI(t, "--server", url, "add", id, "--id", "1", "--arrival", "0", "--burst", "5"); !errors.Is(err, model.ErrDuplicateID) {
		t.Errorf("duplicate add: err = %v", err)
	}

	out, err = runCLI(t, "--server", url, "run", id, "-o", "json")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	var run model.Run
	if err := json.Unmarshal([]byte(out), &run); err != nil {
		t.Fatalf("run output: %v\n%s", err, out)
	}
	if res, ok := run.ResultFor("3"); !ok || res.WaitingTime != 6 {
		t.Errorf("P3 = %+v", res)
	}

	out, err = runCLI(t, "--server", url, "workspace", "list")
	if err != nil || !strings.Contains(out, id) {
		t.Errorf("list: err=%v\n%s", err, out)
	}

	if _, err := runCLI(t, "--server", url, "remove", id, "2"); err != nil {
		t.Errorf("remove: %v", err)
	}
	out, err = runCLI(t, "--server", url, "workspace", "show", id)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "lab") || !strings.Contains(out, "Latest run") {
		t.Errorf("show output:\n%s", out)
	}

	if _, err := runCLI(t, "--server", url, "workspace", "delete", id); err != nil {
		t.Errorf("delete: %v", err)
	}
	if _, err := runCLI(t, "--server", url, "workspace", "show", id); !errors.Is(err, model.ErrMissing) {
		t.Errorf("show deleted: err = %v", err)
	}
}
