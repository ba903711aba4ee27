package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitreminder/internal/domain/entity"
	"fitreminder/internal/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options selects the backing database.
type Options struct {
	// DatabaseURL is a PostgreSQL DSN. When empty, SQLitePath is used.
	DatabaseURL string
	// SQLitePath is a file path or an SQLite URI (e.g. "file:x?mode=memory&cache=shared").
	SQLitePath string
	// Verbose logs every SQL statement.
	Verbose bool
}

// Open initializes the GORM connection and migrates the schema.
// PostgreSQL is used when a DatabaseURL is provided, SQLite otherwise.
func Open(opts Options, log logger.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if opts.Verbose {
		level = gormlogger.Info
	}
	gormLog := gormlogger.New(
		log.Std(),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormConfig := &gorm.Config{Logger: gormLog}

	var (
		db  *gorm.DB
		err error
	)
	if opts.DatabaseURL != "" {
		db, err = gorm.Open(postgres.Open(opts.DatabaseURL), gormConfig)
	} else {
		path := opts.SQLitePath
		if path == "" {
			path = "reminders.db"
			log.Warn("SQLITE_PATH not set, defaulting to 'reminders.db'")
		}
		db, err = gorm.Open(sqlite.Open(path), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to connect to database: %w", err)
	}

	if strings.EqualFold(db.Dialector.Name(), "sqlite") {
		// SQLite allows a single writer; serialize access through one connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("🔴 ERROR: failed to get underlying *sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	log.Info(fmt.Sprintf("Connected to database via %s", db.Dialector.Name()))

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Info("Database schema migration completed.")
	return db, nil
}

// AutoMigrate automatically migrates the database schema for the defined entities.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Reminder{},
		&entity.Contact{},
		&entity.LineLinkCode{},
	)
	if err != nil {
		return fmt.Errorf("🔴 ERROR: schema migration failed: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.Close()
}
