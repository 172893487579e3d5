package store

import (
	"context"
	"time"

	"github.com/me/procviz/pkg/model"
)

// Store defines the persistence layer for workspaces.
type Store interface {
	// Workspace CRUD
	CreateWorkspace(ctx context.Context, ws *model.Workspace) error
	GetWorkspace(ctx context.Context, id string) (*model.Workspace, error)
	ListWorkspaces(ctx context.Context, opts model.ListOptions) ([]*model.Workspace, int, error)
	UpdateWorkspace(ctx context.Context, ws *model.Workspace) error
	DeleteWorkspace(ctx context.Context, id string) error

	// DeleteWorkspacesIdleSince removes workspaces not updated since cutoff
	// and returns how many were removed.
	DeleteWorkspacesIdleSince(ctx context.Context, cutoff time.Time) (int64, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
