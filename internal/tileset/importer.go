// Package tileset implements the tile catalog lifecycle: importing a
// shareable tileset file into an editor session and exporting the
// current catalog for reuse. Both are thin compositions of the codec,
// the task runner and the library store.
package tileset

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexforge/hexed/internal/codec"
	"github.com/hexforge/hexed/internal/format"
	"github.com/hexforge/hexed/internal/library"
	"github.com/hexforge/hexed/internal/session"
	"github.com/hexforge/hexed/internal/task"
	"github.com/hexforge/hexed/internal/telemetry"
	"github.com/hexforge/hexed/internal/util"
)

// ImportResult is the decoded tileset plus the display name derived
// from the file stem.
type ImportResult struct {
	Tileset     format.Tileset
	DisplayName string
}

// Importer loads tileset files in the background and merges them into
// a session catalog on application.
type Importer struct {
	runner    *task.Runner
	store     library.Store
	telemetry *telemetry.Manager
	logger    zerolog.Logger
	policy    session.MergePolicy
}

// NewImporter creates an importer using the given conflict policy for
// catalog merges.
func NewImporter(runner *task.Runner, store library.Store, tm *telemetry.Manager, log zerolog.Logger, policy session.MergePolicy) *Importer {
	return &Importer{runner: runner, store: store, telemetry: tm, logger: log, policy: policy}
}

// Import reads and decodes a tileset file off the interactive loop.
// The returned handle delivers the decoded value; the caller applies it
// to the session with Apply once polled.
func (i *Importer) Import(path string) *task.Handle[ImportResult] {
	return task.Submit(i.runner, "tileset-import", path, func(ctx context.Context) (ImportResult, error) {
		start := time.Now()
		res, err := i.importFile(path)
		i.telemetry.RecordOperation("tileset-import", path, time.Since(start), err)
		return res, err
	})
}

func (i *Importer) importFile(path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading tileset %s: %w", path, err)
	}
	ts, err := codec.DecodeTileset(data)
	if err != nil {
		return ImportResult{}, fmt.Errorf("tileset %s: %w", path, err)
	}
	// Imports are the entry point for foreign files; a structurally
	// broken tileset (duplicate or empty ids) fails here instead of
	// losing definitions during the merge.
	if violations := ts.Validate(); len(violations) > 0 {
		return ImportResult{}, fmt.Errorf("tileset %s: %s", path, violations[0])
	}

	if rec, recErr := library.NewRecord(ts, path, library.ActionImport); recErr != nil {
		i.logger.Warn().Err(recErr).Str("path", path).Msg("Failed to build library record for tileset import")
	} else if recErr = i.store.Record(rec); recErr != nil {
		i.logger.Warn().Err(recErr).Str("path", path).Msg("Failed to record tileset import in library")
	}

	return ImportResult{Tileset: ts, DisplayName: util.FileStem(path)}, nil
}

// Apply merges an imported tileset into the catalog under the
// configured conflict policy. Must be called from the interactive loop;
// the catalog is never touched by background work.
func (i *Importer) Apply(catalog *session.Catalog, res ImportResult) (session.MergeSummary, error) {
	summary, err := catalog.Merge(res.Tileset, i.policy)
	if err != nil {
		return session.MergeSummary{}, err
	}
	i.logger.Info().
		Str("tileset", res.DisplayName).
		Int("added", len(summary.Added)).
		Int("renamed", len(summary.Renamed)).
		Int("overwritten", len(summary.Overwritten)).
		Msg("Tileset imported")
	return summary, nil
}
