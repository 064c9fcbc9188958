package library

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hexforge/hexed/internal/config"
)

// GormStore persists library records through GORM. Connect tries
// Postgres first and falls back to a local SQLite file, so the library
// works offline.
type GormStore struct {
	cfg    config.LibraryConfig
	db     *gorm.DB
	logger zerolog.Logger
}

// NewGormStore creates a store for the given settings. Init must be
// called before use.
func NewGormStore(cfg config.LibraryConfig, log zerolog.Logger) *GormStore {
	return &GormStore{cfg: cfg, logger: log}
}

// Init connects and migrates the schema.
func (s *GormStore) Init() error {
	db, err := s.openPostgres()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to connect to Postgres library, falling back to SQLite")
		db, err = s.openSqlite()
		if err != nil {
			return fmt.Errorf("failed to open local SQLite library: %w", err)
		}
	}
	s.db = db

	if err := s.db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("migrating library schema: %w", err)
	}
	return nil
}

func (s *GormStore) openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		s.cfg.Host,
		s.cfg.Port,
		s.cfg.Username,
		s.cfg.Password,
		s.cfg.Database,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	return db, nil
}

func (s *GormStore) openSqlite() (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(s.cfg.SqlitePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

// Close releases the underlying connection.
func (s *GormStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record upserts an entry keyed by tileset name.
func (s *GormStore) Record(rec *Record) error {
	var existing Record
	err := s.db.Where("name = ?", rec.Name).First(&existing).Error
	switch {
	case err == nil:
		rec.ID = existing.ID
		return s.db.Save(rec).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.Create(rec).Error
	default:
		return err
	}
}

// Get returns the record for a tileset name.
func (s *GormStore) Get(name string) (*Record, error) {
	var rec Record
	err := s.db.Where("name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns all records ordered by name.
func (s *GormStore) List() ([]Record, error) {
	var out []Record
	if err := s.db.Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
