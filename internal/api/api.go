// Package api exposes the portal's JSON REST endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"formdesk/internal/apperr"
	"formdesk/internal/auth"
	"formdesk/internal/model"
	"formdesk/internal/store"
)

type Server struct {
	store      *store.Store
	log        *zap.Logger
	sessionTTL time.Duration
}

func NewServer(s *store.Store, log *zap.Logger, sessionTTL time.Duration) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{store: s, log: log, sessionTTL: sessionTTL}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)

	// Applications
	mux.HandleFunc("GET /api/applications", s.handleListApplications)
	mux.HandleFunc("GET /api/applications/{id}", s.handleGetApplication)
	mux.HandleFunc("POST /api/applications", s.handleSaveApplication)
	mux.HandleFunc("DELETE /api/applications/{id}", s.handleDeleteApplication)

	// My applications
	mux.HandleFunc("GET /api/my-applications", s.handleListMyApplications)
	mux.HandleFunc("POST /api/my-applications", s.handleAddMyApplication)
	mux.HandleFunc("PUT /api/my-applications/{id}", s.handleUpdateMyApplication)
	mux.HandleFunc("DELETE /api/my-applications/{id}", s.handleDeleteMyApplication)

	// Messages
	mux.HandleFunc("GET /api/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/messages", s.handleSendMessage)
	mux.HandleFunc("PUT /api/messages/{id}/read", s.handleMarkMessageRead)

	// Users
	mux.HandleFunc("GET /api/users", s.handleListUsers)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAppErr maps taxonomy codes onto HTTP statuses; anything unclassified
// is an internal error.
func (s *Server) writeAppErr(w http.ResponseWriter, err error, logMsg string) {
	code := apperr.CodeOf(err)
	if code == apperr.CodeTransient {
		s.log.Error(logMsg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeError(w, apperr.HTTPStatus(code), err.Error())
}

// requireUser resolves the session or answers 401.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (model.UserProfile, bool) {
	user, ok := auth.CurrentUser(r, s.store)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return model.UserProfile{}, false
	}
	return user, true
}
