package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/me/procviz/pkg/model"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Store     string `json:"store"`
	Sweeper   string `json:"sweeper"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	storeStatus := "ok"
	if _, _, err := s.store.ListWorkspaces(r.Context(), model.ListOptions{Limit: 1}); err != nil {
		storeStatus = "error: " + err.Error()
	}
	sweeper := "disabled"
	if s.sweeping {
		sweeper = "running"
	}

	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   "0.1.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Store:     storeStatus,
		Sweeper:   sweeper,
	})
}
