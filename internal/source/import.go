// ABOUTME: Copies flat-file datasets into the SQLite Source.
// ABOUTME: Shared tables are optional; participant files are required.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/glucoscope/internal/log"
)

// ImportSummary lists what an Import call stored and skipped.
type ImportSummary struct {
	Imported []*ImportRecord
	Skipped  []string
}

// Import copies the shared datasets and each participant's files from src
// into dst. A missing shared file is skipped; a missing participant file
// fails the import.
func Import(ctx context.Context, src Source, dst *DB, participants []string) (*ImportSummary, error) {
	summary := &ImportSummary{}

	for _, ds := range SharedDatasets {
		if err := importOne(ctx, src, dst, ds, "", summary); err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Warnw("shared dataset missing, skipping", "dataset", ds, "error", err)
				summary.Skipped = append(summary.Skipped, ds.FileName(""))
				continue
			}
			return summary, err
		}
	}

	for _, p := range participants {
		for _, ds := range ParticipantDatasets {
			if err := importOne(ctx, src, dst, ds, p, summary); err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

func importOne(ctx context.Context, src Source, dst *DB, ds Dataset, participant string, summary *ImportSummary) error {
	rows, err := src.Rows(ctx, ds, participant)
	if err != nil {
		return fmt.Errorf("import %s: %w", ds.FileName(participant), err)
	}
	rec, err := dst.ReplaceRows(ctx, ds, participant, rows)
	if err != nil {
		return fmt.Errorf("import %s: %w", ds.FileName(participant), err)
	}
	log.Infow("imported dataset", "dataset", ds, "participant", participant, "rows", rec.RowCount)
	summary.Imported = append(summary.Imported, rec)
	return nil
}
