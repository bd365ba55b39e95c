package ownership

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the ownership schema
// applied and the single row seeded, matching the migration.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "ownership-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE ownership (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			owner TEXT NOT NULL DEFAULT '',
			initialized INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		INSERT INTO ownership (id, owner, initialized) VALUES (1, '', 0);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating ownership table: %v", err)
	}

	return db
}

func TestSQLiteStore_FreshDatabase(t *testing.T) {
	store := NewSQLiteStore(testDB(t))
	ctx := context.Background()

	owner, err := store.Owner(ctx)
	if err != nil {
		t.Fatalf("Owner() error = %v", err)
	}
	if !owner.IsZero() {
		t.Errorf("Owner() = %q on fresh database, want zero", owner)
	}

	initialized, err := store.Initialized(ctx)
	if err != nil {
		t.Fatalf("Initialized() error = %v", err)
	}
	if initialized {
		t.Error("fresh store should not be initialized")
	}
}

func TestSQLiteStore_SetOwnerRoundTrip(t *testing.T) {
	store := NewSQLiteStore(testDB(t))
	ctx := context.Background()

	if err := store.SetOwner(ctx, "alice"); err != nil {
		t.Fatalf("SetOwner() error = %v", err)
	}

	owner, err := store.Owner(ctx)
	if err != nil {
		t.Fatalf("Owner() error = %v", err)
	}
	if owner != "alice" {
		t.Errorf("Owner() = %q, want %q", owner, "alice")
	}

	initialized, err := store.Initialized(ctx)
	if err != nil {
		t.Fatalf("Initialized() error = %v", err)
	}
	if !initialized {
		t.Error("store should be initialized after SetOwner")
	}
}

func TestSQLiteStore_RenouncedStaysInitialized(t *testing.T) {
	store := NewSQLiteStore(testDB(t))
	ctx := context.Background()

	if err := store.SetOwner(ctx, "alice"); err != nil {
		t.Fatalf("SetOwner() error = %v", err)
	}
	if err := store.SetOwner(ctx, ZeroOwner); err != nil {
		t.Fatalf("SetOwner(zero) error = %v", err)
	}

	owner, _ := store.Owner(ctx)
	if !owner.IsZero() {
		t.Errorf("Owner() = %q, want zero", owner)
	}

	// The initialized marker is what lets a host tell "renounced" apart from
	// "never initialized" — it must survive the zero write.
	initialized, _ := store.Initialized(ctx)
	if !initialized {
		t.Error("renounced store must remain initialized")
	}
}

func TestSQLiteStore_MissingSeedRow(t *testing.T) {
	db := testDB(t)
	if _, err := db.Exec("DELETE FROM ownership"); err != nil {
		t.Fatalf("deleting seed row: %v", err)
	}

	store := NewSQLiteStore(db)
	ctx := context.Background()

	owner, err := store.Owner(ctx)
	if err != nil {
		t.Fatalf("Owner() error = %v", err)
	}
	if !owner.IsZero() {
		t.Errorf("Owner() = %q without seed row, want zero", owner)
	}

	if err := store.SetOwner(ctx, "bob"); err != nil {
		t.Fatalf("SetOwner() error = %v", err)
	}
	owner, _ = store.Owner(ctx)
	if owner != "bob" {
		t.Errorf("Owner() = %q, want %q", owner, "bob")
	}
}

func TestOwnable_SQLiteBackedScenario(t *testing.T) {
	store := NewSQLiteStore(testDB(t))
	sink := NewMemorySink()
	o := New(store, sink)
	ctx := context.Background()

	if err := o.Initialize(ctx, "alice"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := o.TransferOwnership(ctx, "alice", "bob"); err != nil {
		t.Fatalf("TransferOwnership() error = %v", err)
	}
	if err := o.RenounceOwnership(ctx, "bob"); err != nil {
		t.Fatalf("RenounceOwnership() error = %v", err)
	}

	owner, _ := o.Owner(ctx)
	if !owner.IsZero() {
		t.Errorf("Owner() = %q, want zero", owner)
	}
	if got := len(sink.Transfers()); got != 3 {
		t.Errorf("emitted %d transfers, want 3", got)
	}
}
