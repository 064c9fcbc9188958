package library

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hexforge/hexed/internal/config"
)

// NewStore creates a library backend based on configuration.
func NewStore(cfg config.LibraryConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case "postgres", "sqlite", "gorm":
		return NewGormStore(cfg, log), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown library backend: %s", cfg.Backend)
	}
}
