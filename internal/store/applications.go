package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"formdesk/internal/apperr"
	"formdesk/internal/model"
)

func scanApplication(row interface{ Scan(...any) error }) (model.Application, error) {
	var a model.Application
	var published int
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.SubmissionMethod,
		&a.SubmissionURL, &a.Notes, &published, &a.CreatedAt)
	a.IsPublished = published != 0
	return a, err
}

const applicationCols = "id, name, description, submission_method, submission_url, notes, is_published, created_at"

// ListApplications returns form templates ordered by creation time.
// publishedOnly restricts the result to templates visible to employees.
func (s *Store) ListApplications(publishedOnly bool) ([]model.Application, error) {
	query := "SELECT " + applicationCols + " FROM applications"
	if publishedOnly {
		query += " WHERE is_published = 1"
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (s *Store) GetApplication(id string) (model.Application, error) {
	row := s.db.QueryRow("SELECT "+applicationCols+" FROM applications WHERE id = ?", id)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return model.Application{}, apperr.NotFound("application not found")
	}
	if err != nil {
		return model.Application{}, fmt.Errorf("query application: %w", err)
	}
	return a, nil
}

// SaveApplication upserts a form template. An empty id creates a new one
// with a generated id.
func (s *Store) SaveApplication(id string, form model.ApplicationForm) (model.Application, error) {
	if id == "" {
		a := model.Application{
			ID:               uuid.NewString(),
			Name:             form.Name,
			Description:      form.Description,
			SubmissionMethod: form.SubmissionMethod,
			SubmissionURL:    form.SubmissionURL,
			Notes:            form.Notes,
			IsPublished:      form.IsPublished,
			CreatedAt:        time.Now().UTC(),
		}
		_, err := s.db.Exec(
			"INSERT INTO applications ("+applicationCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			a.ID, a.Name, a.Description, a.SubmissionMethod, a.SubmissionURL,
			a.Notes, boolToInt(a.IsPublished), a.CreatedAt,
		)
		if err != nil {
			return model.Application{}, fmt.Errorf("insert application: %w", err)
		}
		return a, nil
	}

	res, err := s.db.Exec(
		`UPDATE applications SET name = ?, description = ?, submission_method = ?,
			submission_url = ?, notes = ?, is_published = ? WHERE id = ?`,
		form.Name, form.Description, form.SubmissionMethod, form.SubmissionURL,
		form.Notes, boolToInt(form.IsPublished), id,
	)
	if err != nil {
		return model.Application{}, fmt.Errorf("update application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Application{}, apperr.NotFound("application not found")
	}
	return s.GetApplication(id)
}

// DeleteApplication removes a template. Tracking items that reference it
// are left in place and become orphaned on purpose.
func (s *Store) DeleteApplication(id string) error {
	res, err := s.db.Exec("DELETE FROM applications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("application not found")
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
