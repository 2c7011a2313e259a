// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for imported dataset rows and the import log.
package source

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS source_rows (
		dataset TEXT NOT NULL,
		participant TEXT NOT NULL DEFAULT '',
		seq INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (dataset, participant, seq)
	);

	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		dataset TEXT NOT NULL,
		participant TEXT NOT NULL DEFAULT '',
		row_count INTEGER NOT NULL,
		imported_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_imports_dataset ON imports(dataset, participant);
	`

	_, err := d.db.Exec(schema)
	return err
}
