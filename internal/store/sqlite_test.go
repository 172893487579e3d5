package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/me/procviz/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleWorkspace() *model.Workspace {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Workspace{
		ID:   "ws_test-1",
		Name: "textbook",
		Processes: []model.Process{
			{ID: "1", ArrivalTime: 0, BurstTime: 5, Priority: 2, State: model.ProcessStateNew},
			{ID: "2", ArrivalTime: 1, BurstTime: 3, Priority: 1, State: model.ProcessStateNew},
		},
		Policy:    model.PolicyRR,
		Quantum:   3,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleRun() *model.Run {
	return &model.Run{
		Policy: model.PolicyFCFS,
		Results: []model.Result{
			{Process: model.Process{ID: "1", BurstTime: 5}, StartTime: 0, CompletionTime: 5, TurnaroundTime: 5},
			{Process: model.Process{ID: "2", ArrivalTime: 1, BurstTime: 3}, StartTime: 5, CompletionTime: 8,
				TurnaroundTime: 7, WaitingTime: 4, ResponseTime: 4},
		},
		Timeline: []model.Segment{{ProcessID: "1", Start: 0, End: 5}, {ProcessID: "2", Start: 5, End: 8}},
		Summary:  model.Summary{Processes: 2, Makespan: 8, BusyTime: 8, AvgWaitingTime: 2},
	}
}

// --- Migration tests ---

func TestMigrate_Idempotent(t *testing.T) {
	st := testStore(t)
	// Migrate a second time; should not error.
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

// --- Workspace CRUD tests ---

func TestCreateAndGetWorkspace(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	ws := sampleWorkspace()

	if err := st.CreateWorkspace(ctx, ws); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetWorkspace(ctx, ws.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("got nil workspace")
	}
	if got.Name != ws.Name {
		t.Errorf("name = %q, want %q", got.Name, ws.Name)
	}
	if got.Policy != model.PolicyRR || got.Quantum != 3 {
		t.Errorf("policy = %s/%d, want rr/3", got.Policy, got.Quantum)
	}
	if len(got.Processes) != 2 || got.Processes[1] != ws.Processes[1] {
		t.Errorf("processes not preserved: %+v", got.Processes)
	}
	if got.LastRun != nil {
		t.Errorf("expected no run, got %+v", got.LastRun)
	}
	if !got.CreatedAt.Equal(ws.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, ws.CreatedAt)
	}
}

func TestGetWorkspace_NotFound(t *testing.T) {
	st := testStore(t)
	got, err := st.GetWorkspace(context.Background(), "ws_nonexistent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestCreateWorkspace_EmptyProcesses(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	ws := sampleWorkspace()
	ws.Processes = nil

	if err := st.CreateWorkspace(ctx, ws); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, _ := st.GetWorkspace(ctx, ws.ID)
	if got.Processes == nil || len(got.Processes) != 0 {
		t.Errorf("processes = %#v, want empty slice", got.Processes)
	}
}

func TestUpdateWorkspace_LastRun(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	ws := sampleWorkspace()
	if err := st.CreateWorkspace(ctx, ws); err != nil {
		t.Fatalf("create: %v", err)
	}

	ws.LastRun = sampleRun()
	ws.Policy = model.PolicyFCFS
	ws.UpdatedAt = ws.UpdatedAt.Add(time.Minute)
	if err := st.UpdateWorkspace(ctx, ws); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetWorkspace(ctx, ws.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastRun == nil {
		t.Fatal("last run not stored")
	}
	if len(got.LastRun.Timeline) != 2 || got.LastRun.Timeline[1].End != 8 {
		t.Errorf("timeline = %+v", got.LastRun.Timeline)
	}
	if got.LastRun.Summary.AvgWaitingTime != 2 {
		t.Errorf("avg waiting = %v, want 2", got.LastRun.Summary.AvgWaitingTime)
	}
	if !got.UpdatedAt.Equal(ws.UpdatedAt) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, ws.UpdatedAt)
	}

	// Clearing the run writes NULL.
	ws.LastRun = nil
	if err := st.UpdateWorkspace(ctx, ws); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = st.GetWorkspace(ctx, ws.ID)
	if got.LastRun != nil {
		t.Error("expected last run cleared")
	}
}

func TestUpdateWorkspace_NotFound(t *testing.T) {
	st := testStore(t)
	if err := st.UpdateWorkspace(context.Background(), sampleWorkspace()); err == nil {
		t.Error("expected error updating missing workspace")
	}
}

func TestDeleteWorkspace(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	ws := sampleWorkspace()
	if err := st.CreateWorkspace(ctx, ws); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.DeleteWorkspace(ctx, ws.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := st.GetWorkspace(ctx, ws.ID)
	if got != nil {
		t.Error("workspace still present after delete")
	}
	if err := st.DeleteWorkspace(ctx, ws.ID); err == nil {
		t.Error("expected error deleting twice")
	}
}

func TestListWorkspaces_Pagination(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		ws := sampleWorkspace()
		ws.ID = fmt.Sprintf("ws_test-%d", i)
		ws.CreatedAt = base.Add(time.Duration(i) * time.Second)
		ws.UpdatedAt = ws.CreatedAt
		if err := st.CreateWorkspace(ctx, ws); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	list, total, err := st.ListWorkspaces(ctx, model.ListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(list) != 2 {
		t.Errorf("page 1 len = %d, want 2", len(list))
	}

	list, _, err = st.ListWorkspaces(ctx, model.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("page 2 len = %d, want 1", len(list))
	}

	// Most recently updated first.
	list, _, _ = st.ListWorkspaces(ctx, model.ListOptions{Limit: 10})
	if list[0].ID != "ws_test-2" {
		t.Errorf("first = %q, want ws_test-2", list[0].ID)
	}
}

func TestDeleteWorkspacesIdleSince(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	ages := map[string]time.Duration{
		"ws_old":    -3 * time.Hour,
		"ws_recent": -10 * time.Minute,
		"ws_fresh":  0,
	}
	for id, age := range ages {
		ws := sampleWorkspace()
		ws.ID = id
		ws.CreatedAt = now.Add(age)
		ws.UpdatedAt = ws.CreatedAt
		if err := st.CreateWorkspace(ctx, ws); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	n, err := st.DeleteWorkspacesIdleSince(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("delete idle: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if got, _ := st.GetWorkspace(ctx, "ws_old"); got != nil {
		t.Error("ws_old should be gone")
	}
	if got, _ := st.GetWorkspace(ctx, "ws_recent"); got == nil {
		t.Error("ws_recent should remain")
	}
}
