package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/model"
)

// PostgresRepository stores projects in PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// OpenPostgres connects to dbURL and runs migrations
func OpenPostgres(ctx context.Context, dbURL string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	r := &PostgresRepository{db: db}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return r, nil
}

// Seed inserts projects when the table is empty
func (r *PostgresRepository) Seed(ctx context.Context, projects []model.Project) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, p := range projects {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO projects (title, description, technologies, category, status,
				live_url, github_url, featured, year, image, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
			p.Title, p.Description, pq.Array(p.Technologies), p.Category, p.Status,
			p.LiveURL, p.GithubURL, p.Featured, p.Year, p.Image, p.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

const projectColumns = `id, title, description, technologies, category, status,
	live_url, github_url, featured, year, image, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (model.Project, error) {
	var p model.Project
	var techs pq.StringArray
	err := row.Scan(&p.ID, &p.Title, &p.Description, &techs, &p.Category, &p.Status,
		&p.LiveURL, &p.GithubURL, &p.Featured, &p.Year, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Project{}, err
	}
	p.Technologies = []string(techs)
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p, nil
}

func (r *PostgresRepository) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *PostgresRepository) GetProject(ctx context.Context, id string) (model.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id::text = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, fmt.Errorf("project %s: %w", id, apperr.ErrNotFound)
	}
	return p, err
}

func (r *PostgresRepository) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, description, technologies, category, status,
			live_url, github_url, featured, year, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+projectColumns,
		in.Title, in.Description, pq.Array(in.Technologies), in.Category, in.Status,
		in.LiveURL, in.GithubURL, in.Featured, in.Year, in.Image,
	))
}

func (r *PostgresRepository) UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, `
		UPDATE projects SET title = $2, description = $3, technologies = $4, category = $5,
			status = $6, live_url = $7, github_url = $8, featured = $9, year = $10,
			image = COALESCE(NULLIF($11, ''), image), updated_at = NOW()
		WHERE id::text = $1
		RETURNING `+projectColumns,
		id, in.Title, in.Description, pq.Array(in.Technologies), in.Category, in.Status,
		in.LiveURL, in.GithubURL, in.Featured, in.Year, in.Image,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, fmt.Errorf("project %s: %w", id, apperr.ErrNotFound)
	}
	return p, err
}

func (r *PostgresRepository) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) SaveContact(ctx context.Context, msg model.ContactMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_messages (first_name, last_name, email, subject, message)
		VALUES ($1, $2, $3, $4, $5)`,
		msg.FirstName, msg.LastName, msg.Email, msg.Subject, msg.Message,
	)
	return err
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
