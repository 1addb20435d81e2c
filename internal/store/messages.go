package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"formdesk/internal/apperr"
	"formdesk/internal/model"
)

const messageCols = "id, sender_id, receiver_id, content, sent_at, is_read"

func scanMessage(row interface{ Scan(...any) error }) (model.Message, error) {
	var m model.Message
	var read int
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.SentAt, &read)
	m.IsRead = read != 0
	return m, err
}

// ListMessagesFor returns every message the user sent or received, in
// arrival order. Insertion order breaks sent_at ties.
func (s *Store) ListMessagesFor(userID string) ([]model.Message, error) {
	rows, err := s.db.Query(
		"SELECT "+messageCols+" FROM messages WHERE sender_id = ? OR receiver_id = ? ORDER BY sent_at ASC, rowid ASC",
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// SendMessage inserts a new unread message and returns the canonical row
// with the server-assigned id and timestamp.
func (s *Store) SendMessage(senderID, receiverID, content string) (model.Message, error) {
	m := model.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		SentAt:     time.Now().UTC(),
	}
	_, err := s.db.Exec(
		"INSERT INTO messages ("+messageCols+") VALUES (?, ?, ?, ?, ?, 0)",
		m.ID, m.SenderID, m.ReceiverID, m.Content, m.SentAt,
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// MarkMessageRead flips is_read for a message addressed to userID. Marking
// an already-read message is a no-op, which makes repeated acknowledgement
// calls harmless.
func (s *Store) MarkMessageRead(userID, messageID string) error {
	var receiverID string
	err := s.db.QueryRow(
		"SELECT receiver_id FROM messages WHERE id = ?", messageID,
	).Scan(&receiverID)
	if err == sql.ErrNoRows {
		return apperr.NotFound("message not found")
	}
	if err != nil {
		return fmt.Errorf("query message: %w", err)
	}
	if receiverID != userID {
		return apperr.Forbidden("only the receiver may mark a message read")
	}

	_, err = s.db.Exec("UPDATE messages SET is_read = 1 WHERE id = ?", messageID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}
