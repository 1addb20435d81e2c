package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"formdesk/internal/model"
)

func (s *Server) handleListMyApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	items, err := s.store.ListMyApplications(user.ID)
	if err != nil {
		s.writeAppErr(w, err, "list my applications failed")
		return
	}
	if items == nil {
		items = []model.MyApplicationItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleAddMyApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		ApplicationID string `json:"applicationId"`
		Title         string `json:"title"`
		Memo          string `json:"memo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	item, err := s.store.AddMyApplication(user.ID, req.ApplicationID, req.Title, req.Memo)
	if err != nil {
		s.writeAppErr(w, err, "add my application failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": item})
}

func (s *Server) handleUpdateMyApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Memo        *string    `json:"memo"`
		IsCompleted *bool      `json:"isCompleted"`
		CompletedAt *time.Time `json:"completedAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	items, err := s.store.ListMyApplications(user.ID)
	if err != nil {
		s.writeAppErr(w, err, "update my application failed")
		return
	}
	var existing *model.MyApplicationItem
	for i := range items {
		if items[i].ID == r.PathValue("id") {
			existing = &items[i]
			break
		}
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	next := *existing
	if req.Title != nil {
		next.Title = *req.Title
	}
	if req.Memo != nil {
		next.Memo = *req.Memo
	}
	if req.IsCompleted != nil {
		next.IsCompleted = *req.IsCompleted
		// completedAt travels with the completion flag and is
		// client-governed: the controller decides whether a reopened
		// item keeps its first completion time. A request that leaves
		// the flag alone leaves the timestamp alone too.
		next.CompletedAt = req.CompletedAt
	}

	item, err := s.store.UpdateMyApplication(user.ID, next)
	if err != nil {
		s.writeAppErr(w, err, "update my application failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (s *Server) handleDeleteMyApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteMyApplication(user.ID, r.PathValue("id")); err != nil {
		s.writeAppErr(w, err, "delete my application failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
