package ui

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/procviz/internal/logging"
	"github.com/me/procviz/internal/report"
	"github.com/me/procviz/internal/scheduler"
	"github.com/me/procviz/pkg/model"
)

// chartWidth is the rendered width of the Gantt chart in pixels.
const chartWidth = 880

// UI handles the web user interface.
type UI struct {
	svc    *scheduler.Service
	logger *slog.Logger
	secure bool // Use secure cookies (HTTPS)
}

// Config holds UI configuration.
type Config struct {
	Secure bool // Use secure cookies for HTTPS
}

// New creates a new UI handler.
func New(svc *scheduler.Service, logger *slog.Logger, cfg Config) *UI {
	return &UI{
		svc:    svc,
		logger: logging.Component(logger, "ui"),
		secure: cfg.Secure,
	}
}

// processCard is one entry of the process list, with metrics once a run
// has produced them.
type processCard struct {
	model.Process
	Result *model.Result
}

// HandleIndex renders the simulator page for the browser's workspace.
func (ui *UI) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())

	cards := make([]processCard, 0, len(ws.Processes))
	for _, p := range ws.Processes {
		cards = append(cards, processCard{Process: p, Result: ws.ResultFor(p.ID)})
	}

	data := map[string]any{
		"Title":     "procviz - CPU Scheduling Simulator",
		"Workspace": ws,
		"Cards":     cards,
		"Policies":  ui.svc.Policies(),
		"Run":       ws.LastRun,
		"Chart":     report.Layout(ws.LastRun, chartWidth),
		"Error":     r.URL.Query().Get("error"),
		"Form": map[string]string{
			"id":       r.URL.Query().Get("id"),
			"arrival":  r.URL.Query().Get("arrival"),
			"burst":    r.URL.Query().Get("burst"),
			"priority": r.URL.Query().Get("priority"),
		},
	}
	ui.render(w, "index", data)
}

// HandleGanttSVG serves the latest run's chart as a standalone SVG image.
func (ui *UI) HandleGanttSVG(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())
	if ws.LastRun == nil {
		http.Error(w, "no simulation has been run", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := renderStandalone(&buf, "components/gantt", report.Layout(ws.LastRun, chartWidth)); err != nil {
		ui.renderError(w, "Failed to render chart", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	buf.WriteTo(w)
}

// HandleAddProcess validates the form entry and appends it. On error the
// typed values are echoed back so the user can correct them.
func (ui *UI) HandleAddProcess(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		ui.redirectError(w, r, "Invalid request", nil)
		return
	}
	in := model.ProcessInput{
		ID:          r.FormValue("id"),
		ArrivalTime: r.FormValue("arrival"),
		BurstTime:   r.FormValue("burst"),
		Priority:    r.FormValue("priority"),
	}
	if _, err := ui.svc.AddProcess(r.Context(), ws.ID, in); err != nil {
		echo := url.Values{}
		echo.Set("id", in.ID)
		echo.Set("arrival", in.ArrivalTime)
		echo.Set("burst", in.BurstTime)
		echo.Set("priority", in.Priority)
		ui.redirectError(w, r, errorMessage(err), echo)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleRemoveProcess deletes one process card.
func (ui *UI) HandleRemoveProcess(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())
	if _, err := ui.svc.RemoveProcess(r.Context(), ws.ID, chi.URLParam(r, "pid")); err != nil {
		ui.redirectError(w, r, errorMessage(err), nil)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleClearProcesses empties the process list.
func (ui *UI) HandleClearProcesses(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())
	if _, err := ui.svc.ClearProcesses(r.Context(), ws.ID); err != nil {
		ui.redirectError(w, r, errorMessage(err), nil)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleSelectPolicy stores the algorithm and quantum without running.
func (ui *UI) HandleSelectPolicy(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())
	if err := ui.selectPolicy(r, ws); err != nil {
		ui.redirectError(w, r, errorMessage(err), nil)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleRun applies the submitted algorithm selection, then runs it.
func (ui *UI) HandleRun(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())
	if err := ui.selectPolicy(r, ws); err != nil {
		ui.redirectError(w, r, errorMessage(err), nil)
		return
	}
	if _, err := ui.svc.Run(r.Context(), ws.ID); err != nil {
		ui.redirectError(w, r, errorMessage(err), nil)
		return
	}
	http.Redirect(w, r, "/#results", http.StatusSeeOther)
}

// HandleWorkspaceList renders all workspaces with their last activity.
func (ui *UI) HandleWorkspaceList(w http.ResponseWriter, r *http.Request) {
	opts := ui.parseListOptions(r)
	list, total, err := ui.svc.ListWorkspaces(r.Context(), opts)
	if err != nil {
		ui.renderError(w, "Failed to list workspaces", err)
		return
	}
	data := map[string]any{
		"Title":      "Workspaces - procviz",
		"Workspaces": list,
		"Current":    workspaceIDFromRequest(r),
		"Pagination": ui.buildPagination(opts, total),
	}
	ui.render(w, "workspaces", data)
}

// HandleNewWorkspace starts a fresh workspace and binds the browser to it.
func (ui *UI) HandleNewWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := ui.svc.CreateWorkspace(r.Context(), strings.TrimSpace(r.FormValue("name")))
	if err != nil {
		ui.renderError(w, "Failed to create workspace", err)
		return
	}
	SetWorkspaceCookie(w, ws.ID, ui.secure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleOpenWorkspace binds the browser to an existing workspace.
func (ui *UI) HandleOpenWorkspace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := ui.svc.GetWorkspace(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrMissing) {
			ui.renderNotFound(w, "Workspace not found")
			return
		}
		ui.renderError(w, "Failed to load workspace", err)
		return
	}
	SetWorkspaceCookie(w, id, ui.secure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// selectPolicy applies the policy and quantum form fields, when present.
func (ui *UI) selectPolicy(r *http.Request, ws *model.Workspace) error {
	if err := r.ParseForm(); err != nil {
		return model.NewValidationError("Invalid request")
	}
	policy := r.FormValue("policy")
	if policy == "" {
		return nil
	}
	quantum := 0
	if q := strings.TrimSpace(r.FormValue("quantum")); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			return model.NewValidationError("Time quantum must be a positive whole number")
		}
		quantum = n
	}
	updated, err := ui.svc.SelectPolicy(r.Context(), ws.ID, model.PolicyName(policy), quantum)
	if err != nil {
		return err
	}
	*ws = *updated
	return nil
}

// errorMessage returns the user-facing text of an error.
func errorMessage(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Something went wrong"
}

// redirectError sends the browser back to the page with a notice. State is
// never changed on this path.
func (ui *UI) redirectError(w http.ResponseWriter, r *http.Request, msg string, extra url.Values) {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("error", msg)
	ui.logger.Debug("ui notice", "path", r.URL.Path, "message", msg)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (ui *UI) parseListOptions(r *http.Request) model.ListOptions {
	opts := model.DefaultListOptions()
	if v := r.URL.Query().Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 1 {
			opts.Offset = (page - 1) * opts.Limit
		}
	}
	opts.Clamp()
	return opts
}

func (ui *UI) buildPagination(opts model.ListOptions, total int) map[string]any {
	page := opts.Offset/opts.Limit + 1
	pages := (total + opts.Limit - 1) / opts.Limit
	return map[string]any{
		"Page":    page,
		"Pages":   pages,
		"Total":   total,
		"HasPrev": page > 1,
		"HasNext": page < pages,
	}
}

func (ui *UI) render(w http.ResponseWriter, template string, data map[string]any) {
	ui.renderStatus(w, http.StatusOK, template, data)
}

func (ui *UI) renderStatus(w http.ResponseWriter, status int, template string, data map[string]any) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, template, data); err != nil {
		ui.logger.Error("template render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (ui *UI) renderError(w http.ResponseWriter, message string, err error) {
	ui.logger.Error(message, "error", err)
	ui.renderStatus(w, http.StatusInternalServerError, "error", map[string]any{
		"Title":   "Error - procviz",
		"Message": message,
	})
}

func (ui *UI) renderNotFound(w http.ResponseWriter, message string) {
	ui.renderStatus(w, http.StatusNotFound, "error", map[string]any{
		"Title":   "Not Found - procviz",
		"Message": message,
	})
}
