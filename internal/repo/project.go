package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jtallman/projtrack/internal/models"
)

// ErrNotFound is returned when no project matches both the id and the owner.
// A wrong owner and a nonexistent id are indistinguishable on purpose.
var ErrNotFound = errors.New("project not found")

// ==========================
// ProjectRepo
// ==========================
type ProjectRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{DB: db}
}

// ==========================
// Create Project
// ==========================
func (r *ProjectRepo) Create(ctx context.Context, userID uuid.UUID, name, description, websiteURL, status string) (*models.Project, error) {
	query := `
		INSERT INTO projects (user_id, name, description, website_url, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, description, website_url, status, created_at
	`

	project := &models.Project{}

	err := r.DB.QueryRowContext(ctx, query, userID, name, description, websiteURL, status).
		Scan(&project.ID, &project.UserID, &project.Name, &project.Description,
			&project.WebsiteURL, &project.Status, &project.CreatedAt)

	if err != nil {
		return nil, err
	}

	return project, nil
}

// ==========================
// List By Owner (newest first)
// ==========================
func (r *ProjectRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	query := `
		SELECT id, user_id, name, description, website_url, status, created_at, updated_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description,
			&p.WebsiteURL, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// ==========================
// Get By ID (ownership filtered)
// ==========================
func (r *ProjectRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, user_id, name, description, website_url, status, created_at, updated_at
		FROM projects
		WHERE id = $1 AND user_id = $2
	`

	project := &models.Project{}

	err := r.DB.QueryRowContext(ctx, query, id, userID).
		Scan(&project.ID, &project.UserID, &project.Name, &project.Description,
			&project.WebsiteURL, &project.Status, &project.CreatedAt, &project.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return project, nil
}

// ==========================
// Update (truthy partial merge)
// ==========================
// Update applies only the non-empty fields and stamps updated_at. An empty
// string means "not provided" and leaves the stored column unchanged, which
// keeps the wire contract where falsy values are silently ignored.
func (r *ProjectRepo) Update(ctx context.Context, id, userID uuid.UUID, name, description, websiteURL, status string) error {
	query := `
		UPDATE projects
		SET name        = COALESCE(NULLIF($1, ''), name),
		    description = COALESCE(NULLIF($2, ''), description),
		    website_url = COALESCE(NULLIF($3, ''), website_url),
		    status      = COALESCE(NULLIF($4, ''), status),
		    updated_at  = now()
		WHERE id = $5 AND user_id = $6
	`

	result, err := r.DB.ExecContext(ctx, query, name, description, websiteURL, status, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ==========================
// Delete (ownership filtered)
// ==========================
func (r *ProjectRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ==========================
// Count (stats collector)
// ==========================
func (r *ProjectRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n)
	return n, err
}
