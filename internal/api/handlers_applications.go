package api

import (
	"encoding/json"
	"net/http"

	"formdesk/internal/model"
)

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	// Employees only see published templates; admins see everything.
	publishedOnly := user.Role == model.RoleEmployee
	apps, err := s.store.ListApplications(publishedOnly)
	if err != nil {
		s.writeAppErr(w, err, "list applications failed")
		return
	}
	if apps == nil {
		apps = []model.Application{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	app, err := s.store.GetApplication(r.PathValue("id"))
	if err != nil {
		s.writeAppErr(w, err, "get application failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"application": app})
}

func (s *Server) handleSaveApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if user.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}

	var req struct {
		ID string `json:"id"`
		model.ApplicationForm
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	app, err := s.store.SaveApplication(req.ID, req.ApplicationForm)
	if err != nil {
		s.writeAppErr(w, err, "save application failed")
		return
	}
	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"application": app})
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if user.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}

	if err := s.store.DeleteApplication(r.PathValue("id")); err != nil {
		s.writeAppErr(w, err, "delete application failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
