package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotFound = errors.New("knowledge record not found")
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Repository persists knowledge records in SQL. The driver name selects the
// placeholder dialect: "postgres" uses $N, everything else uses ?.
type Repository struct {
	db     DB
	driver string
}

// NewRepository creates a repository bound to a connection and driver.
func NewRepository(db DB, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

// EnsureSchema creates the knowledge_records table when absent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS knowledge_records (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			keywords TEXT NOT NULL,
			context_tags TEXT NOT NULL DEFAULT '',
			priority INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("create knowledge_records table: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a record, assigning an ID when missing.
func (r *Repository) Upsert(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now()

	query := r.rebind(`
		INSERT INTO knowledge_records
			(id, category, question, answer, keywords, context_tags, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			category = excluded.category,
			question = excluded.question,
			answer = excluded.answer,
			keywords = excluded.keywords,
			context_tags = excluded.context_tags,
			priority = excluded.priority,
			updated_at = excluded.updated_at
	`)
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Category, rec.Question, rec.Answer,
		strings.Join(rec.Keywords, ","), strings.Join(rec.ContextTags, ","),
		rec.Priority, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert knowledge record %s: %w", rec.ID, err)
	}
	return nil
}

// GetByID retrieves a record by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Record, error) {
	query := r.rebind(`
		SELECT id, category, question, answer, keywords, context_tags, priority
		FROM knowledge_records WHERE id = ?
	`)
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get knowledge record %s: %w", id, err)
	}
	return rec, nil
}

// List returns every record ordered by insertion time, oldest first. The
// in-memory store hydrated from this list keeps the same order.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	query := `
		SELECT id, category, question, answer, keywords, context_tags, priority
		FROM knowledge_records ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list knowledge records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan knowledge record: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge_records`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count knowledge records: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var keywords, tags string
	err := row.Scan(&rec.ID, &rec.Category, &rec.Question, &rec.Answer,
		&keywords, &tags, &rec.Priority)
	if err != nil {
		return nil, err
	}
	rec.Keywords = splitList(keywords)
	rec.ContextTags = splitList(tags)
	return &rec, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// rebind rewrites ? placeholders to $N for postgres.
func (r *Repository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
