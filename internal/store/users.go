package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"formdesk/internal/apperr"
	"formdesk/internal/model"
)

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// CreateUser registers a profile with a hashed password.
func (s *Store) CreateUser(name, email, password string, role model.Role) (model.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("hash password: %w", err)
	}

	u := model.UserProfile{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	_, err = s.db.Exec(
		"INSERT INTO users (id, name, email, role, password_hash) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Email, string(u.Role), string(hash),
	)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Authenticate verifies credentials and returns the profile.
func (s *Store) Authenticate(email, password string) (model.UserProfile, error) {
	var u model.UserProfile
	var hash string
	err := s.db.QueryRow(
		"SELECT id, name, email, role, password_hash FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &hash)
	if err == sql.ErrNoRows {
		return model.UserProfile{}, apperr.Unauthenticated("unknown email")
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("query user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return model.UserProfile{}, apperr.Unauthenticated("wrong password")
	}
	return u, nil
}

func (s *Store) GetUser(id string) (model.UserProfile, error) {
	var u model.UserProfile
	err := s.db.QueryRow(
		"SELECT id, name, email, role FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if err == sql.ErrNoRows {
		return model.UserProfile{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(email string) (model.UserProfile, error) {
	var u model.UserProfile
	err := s.db.QueryRow(
		"SELECT id, name, email, role FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if err == sql.ErrNoRows {
		return model.UserProfile{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (s *Store) ListUsers() ([]model.UserProfile, error) {
	rows, err := s.db.Query("SELECT id, name, email, role FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []model.UserProfile
	for rows.Next() {
		var u model.UserProfile
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PromoteAdmin flips an existing user to the admin role.
func (s *Store) PromoteAdmin(email string) error {
	_, err := s.db.Exec("UPDATE users SET role = 'admin' WHERE email = ?", email)
	return err
}

// Sessions

func (s *Store) CreateSession(userID string, ttl time.Duration) (string, error) {
	token := generateToken()
	expires := time.Now().Add(ttl)
	_, err := s.db.Exec(
		"INSERT INTO sessions (user_id, token, expires_at) VALUES (?, ?, ?)",
		userID, token, expires,
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return token, nil
}

func (s *Store) GetUserBySession(token string) (model.UserProfile, error) {
	var userID string
	var expiresAt time.Time
	err := s.db.QueryRow(
		"SELECT user_id, expires_at FROM sessions WHERE token = ?", token,
	).Scan(&userID, &expiresAt)
	if err == sql.ErrNoRows {
		return model.UserProfile{}, apperr.Unauthenticated("session not found")
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("query session: %w", err)
	}
	if time.Now().After(expiresAt) {
		s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
		return model.UserProfile{}, apperr.Unauthenticated("session expired")
	}
	return s.GetUser(userID)
}

func (s *Store) DeleteSession(token string) {
	s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
}
