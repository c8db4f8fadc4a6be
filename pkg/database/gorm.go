package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects the driver and pool. Zero pool values keep the defaults.
type Options struct {
	Driver          string // "postgres" or "sqlite"
	DSN             string
	Verbose         bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func getLogger(verbose bool) logger.Interface {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true, // Repositories treat not-found as nil, nil
			ParameterizedQueries:      true, // Continuation tokens and proposals stay out of the SQL log
			Colorful:                  verbose,
		},
	)
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func configureConnectionPool(db *gorm.DB, opts Options) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(orInt(opts.MaxIdleConns, 10))
	sqlDB.SetMaxOpenConns(orInt(opts.MaxOpenConns, 50))
	lifetime := opts.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	sqlDB.SetConnMaxLifetime(lifetime)

	return nil
}

func orInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// Open connects and configures the pool. sqlite is meant for single-node
// development; it serializes writers.
func Open(opts Options) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("database: empty DSN for driver %q", opts.Driver)
	}
	d, err := dialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: getLogger(opts.Verbose),
	})
	if err != nil {
		return nil, err
	}

	if opts.Driver == "sqlite" {
		opts.MaxOpenConns = 1
	}
	if err := configureConnectionPool(db, opts); err != nil {
		return nil, err
	}

	return db, nil
}

// NewGormDBFromDSN opens a pooled PostgreSQL connection. verbose logs every statement.
func NewGormDBFromDSN(dsn string, verbose bool) (*gorm.DB, error) {
	return Open(Options{Driver: "postgres", DSN: dsn, Verbose: verbose})
}
