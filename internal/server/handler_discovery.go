package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "procviz API",
		Version:     "v1",
		Description: "CPU scheduling simulator: FCFS, Round Robin, SJF and Priority with Gantt timelines",
		Endpoints: []endpointInfo{
			{"/api/v1/policies", []string{"GET"}, "Policy menu with availability"},
			{"/api/v1/simulate", []string{"POST"}, "Stateless simulation of a process set"},
			{"/api/v1/workspaces", []string{"GET", "POST"}, "Workspace management"},
			{"/api/v1/workspaces/{id}", []string{"GET", "DELETE"}, "Single workspace with latest run"},
			{"/api/v1/workspaces/{id}/processes", []string{"POST", "DELETE"}, "Add, import, or clear processes"},
			{"/api/v1/workspaces/{id}/processes/{pid}", []string{"DELETE"}, "Remove one process"},
			{"/api/v1/workspaces/{id}/policy", []string{"PUT"}, "Select policy and quantum"},
			{"/api/v1/workspaces/{id}/run", []string{"POST"}, "Run the selected policy"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
