package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"formdesk/internal/auth"
	"formdesk/internal/model"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password required")
		return
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		role = model.RoleEmployee
	}

	user, err := s.store.CreateUser(req.Name, req.Email, req.Password, role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		s.writeAppErr(w, err, "signup failed")
		return
	}

	token, err := s.store.CreateSession(user.ID, s.sessionTTL)
	if err != nil {
		s.writeAppErr(w, err, "create session failed")
		return
	}
	auth.SetSessionCookie(w, token, int(s.sessionTTL.Seconds()))
	writeJSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := s.store.Authenticate(strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		s.log.Debug("login rejected", zap.String("email", req.Email))
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.store.CreateSession(user.ID, s.sessionTTL)
	if err != nil {
		s.writeAppErr(w, err, "create session failed")
		return
	}
	auth.SetSessionCookie(w, token, int(s.sessionTTL.Seconds()))
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.Logout(w, r, s.store)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
