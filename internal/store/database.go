package store

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database represents the SQLite database connection. All repositories go
// through it so connection settings live in one place.
type Database struct {
	db *gorm.DB
}

// NewDatabase opens (creating if needed) the SQLite database at path with
// foreign keys enforced and WAL journaling.
func NewDatabase(path string) (*Database, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	// SQLite allows a single writer; more connections would just queue on
	// the busy timeout.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{db: conn}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying *gorm.DB for queries
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Migrate creates or updates every table the collector uses.
func (d *Database) Migrate() error {
	err := d.db.AutoMigrate(
		&Game{},
		&Goal{},
		&Penalty{},
		&GameOfficial{},
		&UnplayedGame{},
		&Conference{},
		&Division{},
		&Franchise{},
		&Team{},
		&Arena{},
		&Season{},
		&DimDate{},
		&TeamDatePoint{},
		&IngestRun{},
	)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// HealthCheck verifies the database connection is alive.
func (d *Database) HealthCheck(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
