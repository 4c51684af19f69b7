package templates

import (
	"context"
	"database/sql"
	stderrors "errors"

	"correspondence-workers/internal/common/errors"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS correspondence_templates (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	subject    TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL,
	version    INTEGER NOT NULL DEFAULT 1,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const (
	selectTemplate = `
		SELECT id, name, subject, body, version, updated_at
		FROM correspondence_templates
		WHERE id = $1`

	listTemplates = `
		SELECT id, name, subject, body, version, updated_at
		FROM correspondence_templates
		ORDER BY id`

	upsertTemplate = `
		INSERT INTO correspondence_templates (id, name, subject, body, version, updated_at)
		VALUES ($1, $2, $3, $4, 1, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			subject = EXCLUDED.subject,
			body = EXCLUDED.body,
			version = correspondence_templates.version + 1,
			updated_at = NOW()
		RETURNING version, updated_at`
)

// PostgresSource keeps editor-maintained templates in the
// correspondence_templates table.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// EnsureSchema creates the templates table if it does not exist.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return errors.NewTemplateStoreFailedError("migrate", err)
	}
	return nil
}

func (s *PostgresSource) Get(ctx context.Context, id string) (*Template, error) {
	var t Template
	err := s.db.QueryRowContext(ctx, selectTemplate, id).
		Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.Version, &t.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, storeError("get", err)
	}
	return &t, nil
}

func (s *PostgresSource) List(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx, listTemplates)
	if err != nil {
		return nil, storeError("list", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.Version, &t.UpdatedAt); err != nil {
			return nil, storeError("list", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list", err)
	}
	return out, nil
}

// Upsert validates and stores t, bumping the version of an existing row.
// The stored version and timestamp are written back into t.
func (s *PostgresSource) Upsert(ctx context.Context, t *Template) error {
	if err := Validate(*t); err != nil {
		return err
	}
	err := s.db.QueryRowContext(ctx, upsertTemplate, t.ID, t.Name, t.Subject, t.Body).
		Scan(&t.Version, &t.UpdatedAt)
	if err != nil {
		return storeError("upsert", err)
	}
	return nil
}

func storeError(op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError("postgres", err)
	}
	return errors.NewTemplateStoreFailedError(op, err)
}
