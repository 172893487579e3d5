package ui

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all UI routes on the given router.
func (ui *UI) RegisterRoutes(r chi.Router) {
	r.Get("/workspaces", ui.HandleWorkspaceList)

	r.Group(func(r chi.Router) {
		r.Use(ui.WorkspaceMiddleware)

		r.Get("/", ui.HandleIndex)
		r.Get("/gantt.svg", ui.HandleGanttSVG)
		r.Post("/processes", ui.HandleAddProcess)
		r.Post("/processes/clear", ui.HandleClearProcesses)
		r.Post("/processes/{pid}/delete", ui.HandleRemoveProcess)
		r.Post("/policy", ui.HandleSelectPolicy)
		r.Post("/run", ui.HandleRun)
	})

	r.Post("/workspaces/new", ui.HandleNewWorkspace)
	r.Get("/workspaces/{id}/open", ui.HandleOpenWorkspace)
}
