package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/audit"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

type Config struct {
	// PostgresDSN selects Postgres. When empty the audit trail lives in SQLite.
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
}

const defaultSQLitePath = "anchorrisk.db"

// Open connects to the configured database and migrates the audit tables.
func Open(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog(),
	}

	var (
		db  *gorm.DB
		err error
	)
	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		log.Info("audit store: postgres")
	} else {
		path := strings.TrimSpace(cfg.SQLitePath)
		if path == "" {
			path = defaultSQLitePath
		}
		db, err = gorm.Open(sqlite.Open(path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
		}
		log.Info("audit store: sqlite", "path", path)
	}

	if err := AutoMigrateAll(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(audit.Models()...)
}

func gormLog() gormLogger.Interface {
	return gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
