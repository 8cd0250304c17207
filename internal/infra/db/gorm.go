package db

import (
	"fmt"
	"strings"

	"invoicing/internal/config"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the backend selected by cfg.DBDriver.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         NewGormLogger(log, ParseLogLevel(cfg.DBLogLevel)),
		TranslateError: true,
	}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		pc, err := pgconn.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		log.Info("opening postgres",
			zap.String("host", pc.Host),
			zap.Uint16("port", pc.Port),
			zap.String("database", pc.Database),
			zap.String("user", pc.User),
		)
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil

	default:
		log.Info("opening sqlite", zap.String("path", cfg.DBPath))
		db, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.DBPath)), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// single writer; also keeps a shared in-memory database alive
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return db, nil
	}
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000"
}
