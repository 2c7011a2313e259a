// ABOUTME: SQLite Source holding imported dataset rows.
// ABOUTME: Opens the database file with WAL pragmas and the row/import schema.
package source

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is a Source backed by rows previously copied in with Import.
type DB struct {
	db     *sql.DB
	dbPath string
}

var _ Source = (*DB)(nil)

// sqlitePragmas are applied to every connection opened by Open.
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

// Open opens the row database at dbPath, creating the file, its parent
// directory, and the schema as needed.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	d := &DB{db: conn, dbPath: dbPath}

	for _, step := range []struct {
		name string
		run  func() error
	}{
		{"configure pragmas", d.configurePragmas},
		{"initialize schema", d.initSchema},
		{"restrict permissions", func() error { return os.Chmod(dbPath, 0600) }},
	} {
		if err := step.run(); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return d, nil
}

// DataDir is the default directory for CSV files and the row database:
// $XDG_DATA_HOME/glucoscope, or ~/.local/share/glucoscope.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "glucoscope")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) configurePragmas() error {
	for _, pragma := range sqlitePragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}
