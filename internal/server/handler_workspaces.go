package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/procviz/pkg/model"
)

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	opts := parseListOptions(r)

	list, total, err := s.service.ListWorkspaces(r.Context(), opts)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	if list == nil {
		list = []*model.Workspace{}
	}
	respondList(w, reqID, list, &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(list) < total,
	})
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 && !decodeBody(w, r, reqID, &req) {
		return
	}

	ws, err := s.service.CreateWorkspace(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondCreated(w, reqID, ws)
}

func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	ws, err := s.service.GetWorkspace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, ws)
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := s.service.DeleteWorkspace(r.Context(), id); err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, map[string]string{"id": id, "status": "deleted"})
}

// flexString accepts a JSON string or number so form-style and typed
// clients can share the endpoint.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type addProcessesRequest struct {
	ID          flexString `json:"id"`
	ArrivalTime flexString `json:"arrival_time"`
	BurstTime   flexString `json:"burst_time"`
	Priority    flexString `json:"priority"`

	// Bulk form: a complete process set appended (or substituted with
	// Replace) in one step.
	Processes []model.Process `json:"processes"`
	Replace   bool            `json:"replace"`
}

func (s *Server) handleAddProcesses(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req addProcessesRequest
	if !decodeBody(w, r, reqID, &req) {
		return
	}

	var (
		ws  *model.Workspace
		err error
	)
	if req.Processes != nil {
		ws, err = s.service.ImportProcesses(r.Context(), id, req.Processes, req.Replace)
	} else {
		ws, err = s.service.AddProcess(r.Context(), id, model.ProcessInput{
			ID:          string(req.ID),
			ArrivalTime: string(req.ArrivalTime),
			BurstTime:   string(req.BurstTime),
			Priority:    string(req.Priority),
		})
	}
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondCreated(w, reqID, ws)
}

func (s *Server) handleRemoveProcess(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	ws, err := s.service.RemoveProcess(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "pid"))
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, ws)
}

func (s *Server) handleClearProcesses(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	ws, err := s.service.ClearProcesses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, ws)
}

func (s *Server) handleSelectPolicy(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req struct {
		Policy  model.PolicyName `json:"policy"`
		Quantum int              `json:"quantum"`
	}
	if !decodeBody(w, r, reqID, &req) {
		return
	}
	ws, err := s.service.SelectPolicy(r.Context(), chi.URLParam(r, "id"), req.Policy, req.Quantum)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, ws)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	ws, err := s.service.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, ws)
}

func parseListOptions(r *http.Request) model.ListOptions {
	opts := model.DefaultListOptions()
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Offset = n
		}
	}
	opts.Clamp()
	return opts
}
