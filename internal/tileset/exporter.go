package tileset

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexforge/hexed/internal/adapter"
	"github.com/hexforge/hexed/internal/codec"
	"github.com/hexforge/hexed/internal/format"
	"github.com/hexforge/hexed/internal/library"
	"github.com/hexforge/hexed/internal/session"
	"github.com/hexforge/hexed/internal/task"
	"github.com/hexforge/hexed/internal/telemetry"
	"github.com/hexforge/hexed/internal/util"
)

// Exporter writes tileset files in the background.
type Exporter struct {
	runner    *task.Runner
	store     library.Store
	telemetry *telemetry.Manager
	logger    zerolog.Logger
}

// NewExporter creates an exporter.
func NewExporter(runner *task.Runner, store library.Store, tm *telemetry.Manager, log zerolog.Logger) *Exporter {
	return &Exporter{runner: runner, store: store, telemetry: tm, logger: log}
}

// Export snapshots the catalog on the calling thread, then encodes and
// writes the file off the interactive loop. The write is atomic: a
// failed export leaves any existing file untouched.
func (e *Exporter) Export(catalog *session.Catalog, path string) *task.Handle[struct{}] {
	snapshot := adapter.CatalogToFormat(catalog)
	return task.Submit(e.runner, "tileset-export", path, func(ctx context.Context) (struct{}, error) {
		start := time.Now()
		err := e.exportFile(snapshot, path)
		e.telemetry.RecordOperation("tileset-export", path, time.Since(start), err)
		return struct{}{}, err
	})
}

func (e *Exporter) exportFile(ts format.Tileset, path string) error {
	data, err := codec.EncodeTileset(ts)
	if err != nil {
		return fmt.Errorf("encoding tileset %q: %w", ts.Name, err)
	}
	if err := util.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing tileset %s: %w", path, err)
	}

	if rec, recErr := library.NewRecord(ts, path, library.ActionExport); recErr != nil {
		e.logger.Warn().Err(recErr).Str("path", path).Msg("Failed to build library record for tileset export")
	} else if recErr = e.store.Record(rec); recErr != nil {
		e.logger.Warn().Err(recErr).Str("path", path).Msg("Failed to record tileset export in library")
	}

	e.logger.Info().Str("path", path).Int("tiles", len(ts.Tiles)).Msg("Tileset exported")
	return nil
}
