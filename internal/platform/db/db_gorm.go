// Package db opens the relational store and runs migrations.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	authentity "stock_analysis/internal/feature/auth/domain/entity"
	indexentity "stock_analysis/internal/feature/indexes/domain/entity"
	walletentity "stock_analysis/internal/feature/wallet/domain/entity"
)

// Config holds the database connection settings.
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	// InstanceName is the Cloud SQL instance connection name. When set,
	// the connection goes through the Unix socket instead of TCP.
	InstanceName string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN はPostgres接続用のDSN文字列を生成します。
// InstanceNameが設定されている場合はCloud SQLのUnixソケット接続を優先します。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は接続が成功するまで3秒間隔でリトライします。
// 起動直後のDBコンテナを待てるよう、timeoutまで試行を続けます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		wait := 3 * time.Second
		if wait > remaining {
			wait = remaining
		}
		time.Sleep(wait)
	}
}

// OpenDB はPostgresへ接続し、gorm.DBを返します。
func OpenDB() *gorm.DB {
	dsn := BuildDSN(LoadConfigFromEnv())

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatal(err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（User, Session, WalletRow など）
		if err := Migrate(db); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	return db
}

// Migrate runs the schema migrations for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authentity.User{},
		&authentity.Session{},
		&walletentity.WalletRow{},
		&walletentity.Favorite{},
		&indexentity.IndexMetric{},
	)
}
