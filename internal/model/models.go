// Package model holds the read models shared by the API server and the
// browser client.
package model

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Application is an admin-defined form template, not a runnable program.
type Application struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	SubmissionMethod string    `json:"submissionMethod"`
	SubmissionURL    string    `json:"submissionUrl"`
	Notes            string    `json:"notes,omitempty"`
	IsPublished      bool      `json:"isPublished"`
	CreatedAt        time.Time `json:"createdAt"`
}

// MyApplicationItem is an employee's personal tracking entry referencing an
// Application. The referenced Application may have been deleted; readers
// must fall back to a placeholder name instead of failing.
type MyApplicationItem struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"applicationId"`
	UserID        string     `json:"userId"`
	Title         string     `json:"title"`
	Memo          string     `json:"memo,omitempty"`
	IsCompleted   bool       `json:"isCompleted"`
	AddedAt       time.Time  `json:"addedAt"`
	CompletedAt   *time.Time `json:"completedAt"`
}

// AckState tracks the client-side read-acknowledgement lifecycle of a
// received message. It never leaves the process.
type AckState int

const (
	AckNone AckState = iota
	AckPending
	AckDone
)

// Message is immutable once sent except for IsRead, which transitions
// false->true exactly once and only at the receiver's hand.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sentAt"`
	IsRead     bool      `json:"isRead"`

	Ack AckState `json:"-"`
}

// ApplicationForm carries the editable fields of an Application through the
// admin editor and the save endpoint.
type ApplicationForm struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	SubmissionMethod string `json:"submissionMethod"`
	SubmissionURL    string `json:"submissionUrl"`
	Notes            string `json:"notes,omitempty"`
	IsPublished      bool   `json:"isPublished"`
}
