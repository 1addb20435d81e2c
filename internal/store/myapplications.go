package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"formdesk/internal/apperr"
	"formdesk/internal/model"
)

const myApplicationCols = "id, application_id, user_id, title, memo, is_completed, added_at, completed_at"

func scanMyApplication(row interface{ Scan(...any) error }) (model.MyApplicationItem, error) {
	var it model.MyApplicationItem
	var completed int
	var completedAt sql.NullTime
	err := row.Scan(&it.ID, &it.ApplicationID, &it.UserID, &it.Title, &it.Memo,
		&completed, &it.AddedAt, &completedAt)
	it.IsCompleted = completed != 0
	if completedAt.Valid {
		t := completedAt.Time
		it.CompletedAt = &t
	}
	return it, err
}

// ListMyApplications returns one user's tracking entries, oldest first.
func (s *Store) ListMyApplications(userID string) ([]model.MyApplicationItem, error) {
	rows, err := s.db.Query(
		"SELECT "+myApplicationCols+" FROM my_applications WHERE user_id = ? ORDER BY added_at ASC, id ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query my applications: %w", err)
	}
	defer rows.Close()

	var items []model.MyApplicationItem
	for rows.Next() {
		it, err := scanMyApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan my application: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddMyApplication creates a tracking entry owned by userID. Multiple
// entries may reference the same application id.
func (s *Store) AddMyApplication(userID, applicationID, title, memo string) (model.MyApplicationItem, error) {
	it := model.MyApplicationItem{
		ID:            uuid.NewString(),
		ApplicationID: applicationID,
		UserID:        userID,
		Title:         title,
		Memo:          memo,
		AddedAt:       time.Now().UTC(),
	}
	_, err := s.db.Exec(
		"INSERT INTO my_applications ("+myApplicationCols+") VALUES (?, ?, ?, ?, ?, 0, ?, NULL)",
		it.ID, it.ApplicationID, it.UserID, it.Title, it.Memo, it.AddedAt,
	)
	if err != nil {
		return model.MyApplicationItem{}, fmt.Errorf("insert my application: %w", err)
	}
	return it, nil
}

// UpdateMyApplication writes the mutable fields of an entry. Only the
// owner's rows are touched.
func (s *Store) UpdateMyApplication(userID string, item model.MyApplicationItem) (model.MyApplicationItem, error) {
	var completedAt any
	if item.CompletedAt != nil {
		completedAt = *item.CompletedAt
	}
	res, err := s.db.Exec(
		`UPDATE my_applications SET title = ?, memo = ?, is_completed = ?, completed_at = ?
			WHERE id = ? AND user_id = ?`,
		item.Title, item.Memo, boolToInt(item.IsCompleted), completedAt, item.ID, userID,
	)
	if err != nil {
		return model.MyApplicationItem{}, fmt.Errorf("update my application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.MyApplicationItem{}, apperr.NotFound("item not found")
	}

	row := s.db.QueryRow(
		"SELECT "+myApplicationCols+" FROM my_applications WHERE id = ? AND user_id = ?",
		item.ID, userID,
	)
	it, err := scanMyApplication(row)
	if err != nil {
		return model.MyApplicationItem{}, fmt.Errorf("query my application: %w", err)
	}
	return it, nil
}

// DeleteMyApplication removes an entry owned by userID.
func (s *Store) DeleteMyApplication(userID, id string) error {
	res, err := s.db.Exec(
		"DELETE FROM my_applications WHERE id = ? AND user_id = ?", id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete my application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("item not found")
	}
	return nil
}
