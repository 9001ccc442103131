package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schema is the one persisted table. AUTOINCREMENT keeps IDs strictly
// increasing even after the highest row is deleted.
const schema = `
CREATE TABLE IF NOT EXISTS section (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name VARCHAR(250) NOT NULL
);
`

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers; a single connection also keeps ":memory:"
	// databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{db}, nil
}

// CreateTable ensures the section table exists.
func (db *DB) CreateTable() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Open opens the database and creates the table. Callers should treat an
// error as fatal.
func Open(dataSourceName string) (*DB, error) {
	db, err := New(dataSourceName)
	if err != nil {
		return nil, err
	}
	if err := db.CreateTable(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureDir creates the parent directory of a database file path.
func EnsureDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
