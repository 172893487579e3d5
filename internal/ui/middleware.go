package ui

import (
	"context"
	"errors"
	"net/http"

	"github.com/me/procviz/pkg/model"
)

type contextKey string

const workspaceContextKey contextKey = "workspace"

// WorkspaceFromContext retrieves the workspace resolved by WorkspaceMiddleware.
func WorkspaceFromContext(ctx context.Context) *model.Workspace {
	ws, _ := ctx.Value(workspaceContextKey).(*model.Workspace)
	return ws
}

// WorkspaceMiddleware loads the browser's workspace, creating a new one when
// the cookie is missing or points at a workspace that no longer exists.
func (ui *UI) WorkspaceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ws *model.Workspace
		if id := workspaceIDFromRequest(r); id != "" {
			found, err := ui.svc.GetWorkspace(r.Context(), id)
			switch {
			case err == nil:
				ws = found
			case errors.Is(err, model.ErrMissing):
				ui.logger.Debug("stale workspace cookie", "workspace_id", id)
			default:
				ui.renderError(w, "Failed to load workspace", err)
				return
			}
		}

		if ws == nil {
			created, err := ui.svc.CreateWorkspace(r.Context(), "")
			if err != nil {
				ui.renderError(w, "Failed to create workspace", err)
				return
			}
			ws = created
			SetWorkspaceCookie(w, ws.ID, ui.secure)
		}

		ctx := context.WithValue(r.Context(), workspaceContextKey, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
