// Package persist is the session boundary of the persistence engine:
// load, save, import and export as task-returning operations. The
// interactive loop submits work here, polls the returned handles each
// tick, and applies completed results in one step. Background work only
// ever touches format values and freshly built sessions; it never
// reaches into live session state.
package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexforge/hexed/internal/adapter"
	"github.com/hexforge/hexed/internal/codec"
	"github.com/hexforge/hexed/internal/config"
	"github.com/hexforge/hexed/internal/format"
	"github.com/hexforge/hexed/internal/library"
	"github.com/hexforge/hexed/internal/session"
	"github.com/hexforge/hexed/internal/task"
	"github.com/hexforge/hexed/internal/telemetry"
	"github.com/hexforge/hexed/internal/tileset"
	"github.com/hexforge/hexed/internal/util"
)

// Policies are the configurable recovery behaviors of the engine.
type Policies struct {
	Dangling adapter.DanglingPolicy
	Conflict session.MergePolicy
}

// PoliciesFromConfig parses the configured policy names.
func PoliciesFromConfig() (Policies, error) {
	dangling, err := adapter.ParseDanglingPolicy(config.GetString("persist.danglingPolicy"))
	if err != nil {
		return Policies{}, err
	}
	conflict, err := session.ParseMergePolicy(config.GetString("persist.importConflictPolicy"))
	if err != nil {
		return Policies{}, err
	}
	return Policies{Dangling: dangling, Conflict: conflict}, nil
}

// LoadedMap is the one-shot result of a map load: a fresh session ready
// to swap in, plus any recoverable warnings met while materializing it.
type LoadedMap struct {
	Session  *session.Session
	Warnings []adapter.Warning
}

// Service composes codec, resolver, adapter and task runner behind the
// editor-facing operations.
type Service struct {
	runner    *task.Runner
	telemetry *telemetry.Manager
	logger    zerolog.Logger
	policies  Policies

	importer *tileset.Importer
	exporter *tileset.Exporter
}

// NewService wires a service. The library store records tileset
// imports and exports; the telemetry manager may be disabled.
func NewService(runner *task.Runner, store library.Store, tm *telemetry.Manager, log zerolog.Logger, policies Policies) *Service {
	return &Service{
		runner:    runner,
		telemetry: tm,
		logger:    log,
		policies:  policies,
		importer:  tileset.NewImporter(runner, store, tm, log, policies.Conflict),
		exporter:  tileset.NewExporter(runner, store, tm, log),
	}
}

// LoadMap reads, decodes and materializes a map and its referenced
// tileset off the interactive loop. A failed load delivers an error and
// nothing else; the caller's current session is untouched. Dangling
// tile references are resolved per the configured policy and reported
// in the result's warning list.
func (s *Service) LoadMap(path string) *task.Handle[*LoadedMap] {
	return task.Submit(s.runner, "map-load", path, func(ctx context.Context) (*LoadedMap, error) {
		start := time.Now()
		loaded, err := s.loadMap(path)
		s.telemetry.RecordOperation("map-load", path, time.Since(start), err)
		return loaded, err
	})
}

func (s *Service) loadMap(path string) (*LoadedMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map %s: %w", path, err)
	}
	m, err := codec.DecodeMap(data)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}

	tsPath := resolveTilesetRef(path, m.TilesetRef)
	tsData, err := os.ReadFile(tsPath)
	if err != nil {
		return nil, fmt.Errorf("reading tileset %s referenced by %s: %w", tsPath, path, err)
	}
	ts, err := codec.DecodeTileset(tsData)
	if err != nil {
		return nil, fmt.Errorf("tileset %s: %w", tsPath, err)
	}

	sess, warnings, err := adapter.FromFormat(m, ts, s.policies.Dangling)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}

	for _, w := range warnings {
		s.logger.Warn().Str("map", path).Msg(w.String())
	}
	s.logger.Info().
		Str("path", path).
		Int("placements", sess.Len()).
		Int("warnings", len(warnings)).
		Msg("Map loaded")

	return &LoadedMap{Session: sess, Warnings: warnings}, nil
}

// SaveMap snapshots the session on the calling thread and writes the
// file in the background, always at the current schema version. The
// write is atomic; a failed save leaves the on-disk file untouched.
// Because operations share a lane per path, a save submitted after a
// load of the same file runs after it.
func (s *Service) SaveMap(path string, sess *session.Session) *task.Handle[struct{}] {
	snapshot := adapter.ToFormat(sess)
	return task.Submit(s.runner, "map-save", path, func(ctx context.Context) (struct{}, error) {
		start := time.Now()
		err := s.saveMap(snapshot, path)
		s.telemetry.RecordOperation("map-save", path, time.Since(start), err)
		return struct{}{}, err
	})
}

func (s *Service) saveMap(m format.Map, path string) error {
	data, err := codec.EncodeMap(m)
	if err != nil {
		return fmt.Errorf("encoding map %s: %w", path, err)
	}
	if err := util.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing map %s: %w", path, err)
	}
	s.logger.Info().
		Str("path", path).
		Int("placements", len(m.Placements)).
		Msg("Map saved")
	return nil
}

// ImportTileset decodes a tileset file in the background. Merge the
// result into a live catalog with ApplyImport once the handle completes.
func (s *Service) ImportTileset(path string) *task.Handle[tileset.ImportResult] {
	return s.importer.Import(path)
}

// ApplyImport merges a completed import into the catalog under the
// configured conflict policy. Call it from the interactive loop only.
func (s *Service) ApplyImport(cat *session.Catalog, res tileset.ImportResult) (session.MergeSummary, error) {
	return s.importer.Apply(cat, res)
}

// ExportTileset snapshots the catalog on the calling thread and writes
// it in the background.
func (s *Service) ExportTileset(cat *session.Catalog, path string) *task.Handle[struct{}] {
	return s.exporter.Export(cat, path)
}

// resolveTilesetRef resolves a map's tileset reference against the map
// file's directory, matching how the files sit next to each other on
// disk. Absolute references are taken as-is.
func resolveTilesetRef(mapPath, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(mapPath), ref)
}
