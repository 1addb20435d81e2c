// Package auth handles session cookies for the API server.
package auth

import (
	"net/http"
	"strings"

	"formdesk/internal/model"
	"formdesk/internal/store"
)

const sessionCookie = "formdesk_session"

// Token extracts the session token from the request: the session cookie,
// or a bearer Authorization header for non-browser clients.
func Token(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// CurrentUser resolves the request's session to a profile, or ok=false.
func CurrentUser(r *http.Request, s *store.Store) (model.UserProfile, bool) {
	token := Token(r)
	if token == "" {
		return model.UserProfile{}, false
	}
	user, err := s.GetUserBySession(token)
	if err != nil {
		return model.UserProfile{}, false
	}
	return user, true
}

func SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// Logout deletes the request's session, if any, and clears the cookie.
func Logout(w http.ResponseWriter, r *http.Request, s *store.Store) {
	if token := Token(r); token != "" {
		s.DeleteSession(token)
	}
	ClearSessionCookie(w)
}
