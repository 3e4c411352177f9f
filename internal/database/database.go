package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Event kinds written by the cleaner
const (
	KindBaseDirSet      = "BASE_DIR_SET"
	KindBaseDirReverted = "BASE_DIR_REVERTED"
	KindValidation      = "VALIDATION"
	KindConfirmation    = "CONFIRMATION"
	KindDiscovery       = "DISCOVERY"
)

// HistoryDB manages the SQLite database of cleaner events
type HistoryDB struct {
	db *sql.DB
}

// Event represents one recorded cleaner event
type Event struct {
	ID        int64
	Timestamp time.Time
	Kind      string
	Path      string
	FieldName string // Failing field of a validation, empty otherwise
	Validated bool
	Outcome   string // confirmed, declined, exhausted for confirmations
	Message   string
	CreatedAt time.Time
}

// NewHistoryDB creates a new database connection and initializes schema
func NewHistoryDB(dbPath string) (*HistoryDB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// _loc=auto enables automatic DATETIME parsing
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// Exec instead of Ping so the file is created right away
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize database (check permissions on %s): %w", dbPath, err)
	}

	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	hdb := &HistoryDB{db: db}
	if err = hdb.initSchema(); err != nil {
		return nil, err
	}

	return hdb, nil
}

// initSchema creates tables and indexes if they don't exist
func (d *HistoryDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		kind TEXT NOT NULL,
		path TEXT,
		field_name TEXT,
		validated INTEGER NOT NULL DEFAULT 0,
		outcome TEXT,
		message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	CREATE INDEX IF NOT EXISTS idx_events_path ON events(path);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Record inserts an event. A zero Timestamp is replaced with the current time.
func (d *HistoryDB) Record(e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	_, err := d.db.Exec(`
	INSERT INTO events (timestamp, kind, path, field_name, validated, outcome, message)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		e.Timestamp.UTC(),
		e.Kind,
		e.Path,
		e.FieldName,
		e.Validated,
		e.Outcome,
		e.Message,
	)
	return err
}

// Close closes the database connection
func (d *HistoryDB) Close() error {
	return d.db.Close()
}

// Vacuum optimizes the database (run periodically)
func (d *HistoryDB) Vacuum() error {
	_, err := d.db.Exec("VACUUM")
	return err
}
