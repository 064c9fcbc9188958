// Package library keeps a local catalog of tilesets that passed through
// import or export, so the editor can offer them again without
// rescanning the filesystem. Backends follow the storage-interface +
// factory layout; the gorm backend prefers Postgres and falls back to
// local SQLite.
package library

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/hexforge/hexed/internal/format"
)

// ErrNotFound is returned when no record exists for a tileset name.
var ErrNotFound = errors.New("tileset not found in library")

// Action marks how a tileset last touched the library.
const (
	ActionImport = "import"
	ActionExport = "export"
)

// Record is one library entry. Tiles holds a JSON snapshot of the
// tile definitions at the time of the action.
type Record struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"uniqueIndex" json:"name"`
	SourcePath string         `json:"sourcePath"`
	TileCount  int            `json:"tileCount"`
	Tiles      datatypes.JSON `json:"tiles"`
	LastAction string         `json:"lastAction"`
	RecordedAt time.Time      `json:"recordedAt"`
}

// NewRecord builds a record from a tileset value.
func NewRecord(ts format.Tileset, sourcePath, action string) (*Record, error) {
	snapshot, err := json.Marshal(ts.Tiles)
	if err != nil {
		return nil, err
	}
	return &Record{
		Name:       ts.Name,
		SourcePath: sourcePath,
		TileCount:  len(ts.Tiles),
		Tiles:      datatypes.JSON(snapshot),
		LastAction: action,
		RecordedAt: time.Now(),
	}, nil
}

// Store is the interface all library backends satisfy.
type Store interface {
	// Lifecycle
	Init() error
	Close() error

	// Upsert keyed by tileset name.
	Record(rec *Record) error

	Get(name string) (*Record, error)
	List() ([]Record, error)
}
