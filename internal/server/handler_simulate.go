package server

import (
	"net/http"

	"github.com/me/procviz/pkg/model"
)

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, s.service.Policies())
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req model.SimulateRequest
	if !decodeBody(w, r, reqID, &req) {
		return
	}
	if req.Policy == "" {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("missing required field",
				model.FieldError{Field: "policy", Message: "policy is required"}))
		return
	}

	run, err := s.service.Simulate(r.Context(), req)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, run)
}
