// Package sqlite provides a sqlite-backed storage.Store. The unique index on
// (user_id, original_item_id, due_at) makes materialization's
// check-then-create a single atomic insert.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmajkech/libsched/schedule/storage"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements storage.Store on a sqlite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens (and if needed creates) the database at dbPath. A nil logger
// discards log output.
func New(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'not_started',
			priority TEXT DEFAULT '',
			title TEXT NOT NULL,
			details TEXT DEFAULT '',
			tags TEXT DEFAULT '',
			start_at DATETIME,
			end_at DATETIME,
			due_at DATETIME,
			estimated_minutes INTEGER DEFAULT 0,
			buffer_before INTEGER DEFAULT 0,
			buffer_after INTEGER DEFAULT 0,
			recurrence_rule TEXT DEFAULT '',
			recurrence_end DATETIME,
			original_item_id TEXT DEFAULT '',
			course_id TEXT DEFAULT '',
			project_id TEXT DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_user_id ON items(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_due_at ON items(due_at)`,
		// One materialized occurrence per (template, dueAt); concurrent
		// materializers race on this index instead of on a read.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_items_instance
			ON items(user_id, original_item_id, due_at)
			WHERE original_item_id != '' AND due_at IS NOT NULL`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

const itemColumns = `id, user_id, type, status, priority, title, details, tags,
	start_at, end_at, due_at, estimated_minutes, buffer_before, buffer_after,
	recurrence_rule, recurrence_end, original_item_id, course_id, project_id,
	created_at, updated_at`

func (s *Store) List(ctx context.Context, userID string, filter storage.Filter) ([]storage.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE user_id = ?`
	args := []any{userID}

	if len(filter.Types) > 0 {
		query += ` AND type IN (` + placeholders(len(filter.Types)) + `)`
		for _, t := range filter.Types {
			args = append(args, string(t))
		}
	}
	if len(filter.Statuses) > 0 {
		query += ` AND status IN (` + placeholders(len(filter.Statuses)) + `)`
		for _, st := range filter.Statuses {
			args = append(args, string(st))
		}
	}
	if filter.OriginalItemID != "" {
		query += ` AND original_item_id = ?`
		args = append(args, filter.OriginalItemID)
	}
	if filter.From != nil {
		query += ` AND COALESCE(due_at, start_at) >= ?`
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		query += ` AND COALESCE(due_at, start_at) <= ?`
		args = append(args, filter.To.UTC())
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []storage.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *Store) Get(ctx context.Context, userID, itemID string) (*storage.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE user_id = ? AND id = ?`, userID, itemID)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *Store) Create(ctx context.Context, userID string, item *storage.Item) error {
	if item == nil {
		return storage.ErrInvalidInput
	}
	prepareForInsert(userID, item)

	_, err := s.db.ExecContext(ctx, insertQuery(""), insertArgs(item)...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (s *Store) CreateInstanceOnce(ctx context.Context, userID string, item *storage.Item) (bool, error) {
	if item == nil || item.OriginalItemID == "" || item.DueAt == nil {
		return false, storage.ErrInvalidInput
	}
	prepareForInsert(userID, item)

	res, err := s.db.ExecContext(ctx, insertQuery("OR IGNORE "), insertArgs(item)...)
	if err != nil {
		return false, fmt.Errorf("create instance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		s.logger.Debug("instance already materialized",
			"template", item.OriginalItemID, "due", item.DueAt.Format(time.RFC3339))
		return false, nil
	}
	return true, nil
}

func prepareForInsert(userID string, item *storage.Item) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.UserID = userID
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
}

func insertQuery(conflictClause string) string {
	return `INSERT ` + conflictClause + `INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
}

func insertArgs(item *storage.Item) []any {
	return []any{
		item.ID, item.UserID, string(item.Type), string(item.Status), item.Priority,
		item.Title, item.Details, strings.Join(item.Tags, ","),
		nullTime(item.StartAt), nullTime(item.EndAt), nullTime(item.DueAt),
		item.EstimatedMinutes, item.BufferBefore, item.BufferAfter,
		item.RecurrenceRule, nullTime(item.RecurrenceEnd), item.OriginalItemID,
		item.CourseID, item.ProjectID,
		item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*storage.Item, error) {
	var (
		item                          storage.Item
		typ, status                   string
		tags                          string
		startAt, endAt, dueAt, recEnd sql.NullTime
	)
	err := row.Scan(
		&item.ID, &item.UserID, &typ, &status, &item.Priority,
		&item.Title, &item.Details, &tags,
		&startAt, &endAt, &dueAt,
		&item.EstimatedMinutes, &item.BufferBefore, &item.BufferAfter,
		&item.RecurrenceRule, &recEnd, &item.OriginalItemID,
		&item.CourseID, &item.ProjectID,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Type = storage.ItemType(typ)
	item.Status = storage.Status(status)
	if tags != "" {
		item.Tags = strings.Split(tags, ",")
	}
	item.StartAt = timePtr(startAt)
	item.EndAt = timePtr(endAt)
	item.DueAt = timePtr(dueAt)
	item.RecurrenceEnd = timePtr(recEnd)
	return &item, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
