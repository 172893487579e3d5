// Package scheduler owns workspace state: the editable process list, the
// selected policy, and the latest run. It also runs the idle-workspace
// sweeper.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/me/procviz/internal/config"
	"github.com/me/procviz/internal/engine"
	"github.com/me/procviz/internal/logging"
	"github.com/me/procviz/internal/store"
	"github.com/me/procviz/internal/validate"
	"github.com/me/procviz/pkg/model"
)

// Service applies user operations to workspaces. Every failed operation
// leaves the stored workspace untouched.
type Service struct {
	store  store.Store
	cfg    config.ServerConfig
	logger *slog.Logger
	now    func() time.Time

	// locks serializes read-modify-write cycles per workspace, so a slow
	// run only blocks its own workspace.
	locks *workspaceLocks
}

// NewService creates a Service backed by st.
func NewService(st store.Store, cfg config.ServerConfig, logger *slog.Logger) *Service {
	if cfg.DefaultQuantum <= 0 {
		cfg.DefaultQuantum = model.DefaultQuantum
	}
	return &Service{
		store:  st,
		cfg:    cfg,
		logger: logging.Component(logger, "workspaces"),
		now:    func() time.Time { return time.Now().UTC() },
		locks:  newWorkspaceLocks(),
	}
}

// Policies returns the policy menu with each entry's availability.
func (s *Service) Policies() []model.PolicyInfo {
	out := make([]model.PolicyInfo, 0, len(model.Policies))
	for _, p := range model.Policies {
		out = append(out, model.PolicyInfo{
			Name:        p,
			Label:       p.Label(),
			Enabled:     s.cfg.PolicyEnabled(p),
			UsesQuantum: p.UsesQuantum(),
		})
	}
	return out
}

// DefaultQuantum is the Round Robin slice given to new workspaces.
func (s *Service) DefaultQuantum() int {
	return s.cfg.DefaultQuantum
}

// Simulate runs a stateless simulation. A zero quantum means the default.
func (s *Service) Simulate(ctx context.Context, req model.SimulateRequest) (*model.Run, error) {
	if err := validate.Processes(req.Processes); err != nil {
		return nil, err
	}
	policy := model.ParsePolicyName(string(req.Policy))
	if !s.cfg.PolicyEnabled(policy) {
		return nil, model.NewUnsupportedPolicyError(string(req.Policy))
	}
	quantum := req.Quantum
	if quantum == 0 {
		quantum = s.cfg.DefaultQuantum
	}
	run, err := engine.SimulateNamed(req.Processes, policy, quantum)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("simulated", "policy", policy, "processes", len(req.Processes),
		"makespan", run.Summary.Makespan)
	return run, nil
}

// CreateWorkspace creates an empty workspace with FCFS selected.
func (s *Service) CreateWorkspace(ctx context.Context, name string) (*model.Workspace, error) {
	now := s.now()
	ws := &model.Workspace{
		ID:        "ws_" + uuid.New().String(),
		Name:      name,
		Processes: []model.Process{},
		Policy:    model.PolicyFCFS,
		Quantum:   s.cfg.DefaultQuantum,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateWorkspace(ctx, ws); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	s.logger.Info("workspace created", "workspace_id", ws.ID)
	return ws, nil
}

// GetWorkspace returns a NOT_FOUND error when id is unknown.
func (s *Service) GetWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	if ws == nil {
		return nil, model.NewNotFoundError("Workspace", id)
	}
	return ws, nil
}

func (s *Service) ListWorkspaces(ctx context.Context, opts model.ListOptions) ([]*model.Workspace, int, error) {
	return s.store.ListWorkspaces(ctx, opts)
}

func (s *Service) DeleteWorkspace(ctx context.Context, id string) error {
	defer s.locks.lock(id)()

	if _, err := s.GetWorkspace(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteWorkspace(ctx, id); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	s.logger.Info("workspace deleted", "workspace_id", id)
	return nil
}

// AddProcess validates a raw form entry and appends it to the list.
func (s *Service) AddProcess(ctx context.Context, id string, in model.ProcessInput) (*model.Workspace, error) {
	p, err := validate.ParseProcess(in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(ws *model.Workspace) error {
		if err := validate.CheckUnique(ws.Processes, p); err != nil {
			return err
		}
		next := append(ws.Processes[:len(ws.Processes):len(ws.Processes)], p)
		if err := validate.CheckHorizon(next); err != nil {
			return err
		}
		ws.Processes = next
		return nil
	})
}

// ImportProcesses appends, or with replace substitutes, a whole process
// set. The resulting list is validated as one; nothing is stored on error.
func (s *Service) ImportProcesses(ctx context.Context, id string, procs []model.Process, replace bool) (*model.Workspace, error) {
	return s.mutate(ctx, id, func(ws *model.Workspace) error {
		var next []model.Process
		if !replace {
			next = append(next, ws.Processes...)
		}
		for _, p := range procs {
			p.State = model.ProcessStateNew
			next = append(next, p)
		}
		if err := validate.Processes(next); err != nil {
			return err
		}
		ws.Processes = next
		return nil
	})
}

// RemoveProcess deletes the process with the given id from the list.
// The latest run is kept.
func (s *Service) RemoveProcess(ctx context.Context, id, processID string) (*model.Workspace, error) {
	return s.mutate(ctx, id, func(ws *model.Workspace) error {
		i := ws.IndexOf(processID)
		if i < 0 {
			return model.NewNotFoundError("Process", processID)
		}
		ws.Processes = append(ws.Processes[:i:i], ws.Processes[i+1:]...)
		return nil
	})
}

// ClearProcesses empties the list.
func (s *Service) ClearProcesses(ctx context.Context, id string) (*model.Workspace, error) {
	return s.mutate(ctx, id, func(ws *model.Workspace) error {
		ws.Processes = []model.Process{}
		return nil
	})
}

// SelectPolicy changes the selected policy. A zero quantum keeps the
// current one. Disabled policies may be selected; Run rejects them.
func (s *Service) SelectPolicy(ctx context.Context, id string, name model.PolicyName, quantum int) (*model.Workspace, error) {
	policy := model.ParsePolicyName(string(name))
	if !policy.IsKnown() {
		return nil, model.NewUnsupportedPolicyError(string(name))
	}
	if quantum < 0 {
		return nil, model.NewValidationError("Invalid time quantum",
			model.FieldError{Field: "quantum", Message: "must be greater than zero"})
	}
	return s.mutate(ctx, id, func(ws *model.Workspace) error {
		ws.Policy = policy
		if quantum > 0 {
			ws.Quantum = quantum
		}
		return nil
	})
}

// Run simulates the workspace's process list under its selected policy and
// stores the result as the latest run. On error the previous run is kept.
func (s *Service) Run(ctx context.Context, id string) (*model.Workspace, error) {
	return s.mutate(ctx, id, func(ws *model.Workspace) error {
		if len(ws.Processes) == 0 {
			return model.NewValidationError("Please add at least one process",
				model.FieldError{Field: "processes", Message: "at least one process is required"})
		}
		if !s.cfg.PolicyEnabled(ws.Policy) {
			return model.NewUnsupportedPolicyError(string(ws.Policy))
		}
		snapshot := append([]model.Process(nil), ws.Processes...)
		run, err := engine.SimulateNamed(snapshot, ws.Policy, ws.Quantum)
		if err != nil {
			return err
		}
		ws.LastRun = run
		s.logger.Info("run finished", "workspace_id", ws.ID, "policy", ws.Policy,
			"processes", len(snapshot), "avg_waiting", run.Summary.AvgWaitingTime)
		return nil
	})
}

// mutate loads a workspace, applies fn, and stores the result when fn
// succeeds.
func (s *Service) mutate(ctx context.Context, id string, fn func(*model.Workspace) error) (*model.Workspace, error) {
	defer s.locks.lock(id)()

	ws, err := s.GetWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(ws); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			s.logger.Debug("operation rejected", "workspace_id", id, "code", apiErr.Code)
		}
		return nil, err
	}
	ws.UpdatedAt = s.now()
	if err := s.store.UpdateWorkspace(ctx, ws); err != nil {
		return nil, fmt.Errorf("update workspace: %w", err)
	}
	return ws, nil
}
