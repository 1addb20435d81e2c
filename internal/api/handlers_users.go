package api

import (
	"net/http"

	"formdesk/internal/model"
)

// handleListUsers returns every profile. Employees need it to resolve the
// admin counterpart and sender names; it carries no credentials.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	users, err := s.store.ListUsers()
	if err != nil {
		s.writeAppErr(w, err, "list users failed")
		return
	}
	if users == nil {
		users = []model.UserProfile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}
