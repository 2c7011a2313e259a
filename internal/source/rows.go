// ABOUTME: Row read/write operations for the SQLite Source.
// ABOUTME: Rows are stored as JSON payloads in original file order.
package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportRecord describes one dataset import into SQLite.
type ImportRecord struct {
	ID          uuid.UUID
	Dataset     Dataset
	Participant string
	RowCount    int
	ImportedAt  time.Time
}

// importTimeLayout is fixed width so imported_at sorts as text.
const importTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// participantKey normalizes the participant for shared datasets.
func participantKey(dataset Dataset, participant string) string {
	if dataset.PerParticipant() {
		return participant
	}
	return ""
}

// Rows retrieves the stored rows of a dataset in original order.
func (d *DB) Rows(ctx context.Context, dataset Dataset, participant string) ([]Row, error) {
	query := `
		SELECT payload
		FROM source_rows
		WHERE dataset = ? AND participant = ?
		ORDER BY seq
	`
	key := participantKey(dataset, participant)
	rows, err := d.db.QueryContext(ctx, query, string(dataset), key)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var row Row
		if err := json.Unmarshal([]byte(payload), &row); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	if len(result) == 0 {
		imported, err := d.imported(ctx, dataset, key)
		if err != nil {
			return nil, err
		}
		if !imported {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dataset.FileName(participant))
		}
		// Header-only file: imported, but holds no rows.
		return []Row{}, nil
	}
	return result, nil
}

// imported reports whether the dataset was ever imported for key.
func (d *DB) imported(ctx context.Context, dataset Dataset, key string) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM imports WHERE dataset = ? AND participant = ?",
		string(dataset), key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check imports: %w", err)
	}
	return n > 0, nil
}

// ReplaceRows stores rows for a dataset, replacing any earlier import.
func (d *DB) ReplaceRows(ctx context.Context, dataset Dataset, participant string, rows []Row) (*ImportRecord, error) {
	key := participantKey(dataset, participant)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM source_rows WHERE dataset = ? AND participant = ?",
		string(dataset), key); err != nil {
		return nil, fmt.Errorf("clear rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO source_rows (dataset, participant, seq, payload) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, string(dataset), key, i, string(payload)); err != nil {
			return nil, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	rec := &ImportRecord{
		ID:          uuid.New(),
		Dataset:     dataset,
		Participant: key,
		RowCount:    len(rows),
		ImportedAt:  time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO imports (id, dataset, participant, row_count, imported_at) VALUES (?, ?, ?, ?, ?)",
		rec.ID.String(), string(rec.Dataset), rec.Participant, rec.RowCount,
		rec.ImportedAt.Format(importTimeLayout)); err != nil {
		return nil, fmt.Errorf("record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return rec, nil
}

// ListImports returns the import log, most recent first.
func (d *DB) ListImports(ctx context.Context, limit int) ([]*ImportRecord, error) {
	query := `
		SELECT id, dataset, participant, row_count, imported_at
		FROM imports
		ORDER BY imported_at DESC, rowid DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	return scanImports(rows)
}

// scanImports scans multiple rows into ImportRecords.
func scanImports(rows *sql.Rows) ([]*ImportRecord, error) {
	var records []*ImportRecord

	for rows.Next() {
		var rec ImportRecord
		var idStr, dataset, importedAt string

		if err := rows.Scan(&idStr, &dataset, &rec.Participant, &rec.RowCount, &importedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}

		rec.ID, _ = uuid.Parse(idStr)
		rec.Dataset = Dataset(dataset)
		rec.ImportedAt, _ = time.Parse(importTimeLayout, importedAt)
		records = append(records, &rec)
	}

	return records, rows.Err()
}
