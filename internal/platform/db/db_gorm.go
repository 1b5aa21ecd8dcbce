// Package db はGORMによるデータベース接続の初期化を提供します。
package db

import (
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nexus_backend/internal/platform/kvstore"
)

// DefaultSQLitePath はNEXUS_DB未設定時のSQLiteファイルパスです。
const DefaultSQLitePath = "./nexus.db"

// Config holds the database connection settings read from the environment.
type Config struct {
	// DatabaseURL is a postgres DSN. When set, postgres is used.
	DatabaseURL string
	// SQLitePath is the sqlite file path used when DatabaseURL is empty.
	SQLitePath string
}

// LoadConfig reads the database configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("NEXUS_DB"),
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = DefaultSQLitePath
	}
	return cfg
}

// Dialector returns the GORM dialector for the configuration.
// DATABASE_URL（postgres）が優先され、未設定時はSQLiteファイルを使用します。
func Dialector(cfg Config) gorm.Dialector {
	if cfg.DatabaseURL != "" {
		return gpostgres.Open(cfg.DatabaseURL)
	}
	return sqlite.Open(cfg.SQLitePath)
}

// OpenDB opens the database connection with a retry loop and runs
// migrations when RUN_MIGRATIONS=true.
func OpenDB() *gorm.DB {
	cfg := LoadConfig()

	var (
		db  *gorm.DB
		err error
	)

	// マネージドDBの起動待ちを考慮して60秒までリトライ
	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(Dialector(cfg), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(&kvstore.DocumentModel{}); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
