// Package audit provides access to the ownership_audit table holding the
// durable history of ownership changes.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the audit trail.
const (
	ActionInitialize = "initialize"
	ActionTransfer   = "transfer"
	ActionRenounce   = "renounce"
)

// Entry is a single audit trail record: one row per ownership transition.
type Entry struct {
	ID            string    `json:"id"`
	Action        string    `json:"action"`
	PreviousOwner string    `json:"previous_owner,omitempty"`
	NewOwner      string    `json:"new_owner,omitempty"`
	Caller        string    `json:"caller,omitempty"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter controls which audit entries to return.
type Filter struct {
	Action string // optional: filter by action (initialize, transfer, renounce)
	Owner  string // optional: match either side of the transition
	Limit  int    // default 50, max 200
	Offset int    // pagination offset
}

// ListResult contains the paginated audit results.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Repository defines the interface for audit trail operations.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository stores audit entries in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new audit repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new audit entry. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = "aud-" + uuid.NewString()[:8]
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ownership_audit (id, action, previous_owner, new_owner, caller, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Action,
		nullableString(entry.PreviousOwner), nullableString(entry.NewOwner),
		nullableString(entry.Caller), entry.Source,
		entry.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return nil
}

// nullableString returns nil for empty strings, or the string otherwise.
// Used for nullable TEXT columns — the zero owner is stored as NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns audit entries matching the filter, ordered by most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	// Clamp limit.
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 { //nolint:mnd // max page size for audit queries
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	// Build WHERE clause dynamically.
	var conditions []string
	var args []any

	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.Owner != "" {
		conditions = append(conditions, "(previous_owner = ? OR new_owner = ?)")
		args = append(args, filter.Owner, filter.Owner)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// WHERE clause is built from parameterised conditions (? placeholders) — no user input in SQL string.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM ownership_audit %s", where) //nolint:gosec // parameterised conditions only
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit entries: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // parameterised conditions only
		"SELECT id, action, previous_owner, new_owner, caller, source, created_at FROM ownership_audit %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		where,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var previous, next, caller sql.NullString
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.Action, &previous, &next,
			&caller, &entry.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		if previous.Valid {
			entry.PreviousOwner = previous.String
		}
		if next.Valid {
			entry.NewOwner = next.String
		}
		if caller.Valid {
			entry.Caller = caller.String
		}

		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp %q: %w", createdAt, err)
		}
		entry.CreatedAt = t

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	if entries == nil {
		entries = []Entry{}
	}

	return &ListResult{
		Entries: entries,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		Total:   total,
	}, nil
}
