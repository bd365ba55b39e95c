package ownership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore persists the owner in the single-row ownership table.
//
// The table is seeded by migrations with one row (id = 1) holding the zero
// owner and initialized = 0. A missing row is treated the same as that seed
// so a fresh database behaves identically either way.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed ownership store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Owner returns the persisted owner, or ZeroOwner for a fresh database.
func (s *SQLiteStore) Owner(ctx context.Context) (OwnerID, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, "SELECT owner FROM ownership WHERE id = 1").Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ZeroOwner, nil
		}
		return ZeroOwner, fmt.Errorf("reading owner: %w", err)
	}
	return OwnerID(owner), nil
}

// SetOwner writes the owner and marks the store initialized.
func (s *SQLiteStore) SetOwner(ctx context.Context, owner OwnerID) error {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := s.db.ExecContext(ctx,
		"UPDATE ownership SET owner = ?, initialized = 1, updated_at = ? WHERE id = 1",
		string(owner), now,
	)
	if err != nil {
		return fmt.Errorf("writing owner: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		// Row not seeded yet (fresh database without the migration seed).
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO ownership (id, owner, initialized, updated_at) VALUES (1, ?, 1, ?)",
			string(owner), now,
		)
		if err != nil {
			return fmt.Errorf("seeding owner row: %w", err)
		}
	}

	return nil
}

// Initialized reports whether SetOwner has ever run against this store.
// Hosts use this to call Initialize exactly once: a renounced store holds
// the zero owner but stays initialized, and must never be re-initialized.
func (s *SQLiteStore) Initialized(ctx context.Context) (bool, error) {
	var initialized int
	err := s.db.QueryRowContext(ctx, "SELECT initialized FROM ownership WHERE id = 1").Scan(&initialized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("reading initialized flag: %w", err)
	}
	return initialized != 0, nil
}
