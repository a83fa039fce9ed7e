package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	// Создаем директорию для БД, если её нет
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS requests (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            request_id TEXT UNIQUE NOT NULL,
            service_type TEXT NOT NULL,
            aircon_type TEXT NOT NULL,
            brand TEXT NOT NULL,
            customer_type TEXT NOT NULL,
            customer_uid TEXT,
            client_name TEXT,
            customer_phone TEXT NOT NULL,
            customer_address TEXT NOT NULL,
            customer_address_detail TEXT NOT NULL,
            partner_uid TEXT,
            partner_name TEXT,
            partner_address TEXT,
            partner_address_detail TEXT,
            engineer_uid TEXT,
            engineer_name TEXT,
            engineer_phone TEXT,
            engineer_profile_image TEXT,
            service_date TEXT NOT NULL,
            service_time TEXT NOT NULL,
            service_images TEXT NOT NULL DEFAULT '[]',
            accepted_at TEXT,
            created_at TEXT NOT NULL,
            completed_at TEXT,
            payment_requested_at TEXT,
            memo TEXT,
            detail_info TEXT,
            sprint TEXT NOT NULL DEFAULT '[]',
            status INTEGER NOT NULL DEFAULT 1,
            submitted_at DATETIME NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS idx_requests_customer_phone ON requests(customer_phone)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_submitted_at ON requests(submitted_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}
