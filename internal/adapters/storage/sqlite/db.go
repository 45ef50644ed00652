// Package sqlite guarda el estado de las mascotas en el archivo local del
// bot. Es el storage por defecto; postgres entra solo si hay DB_DSN.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Open abre (y crea si falta) la base del bot y asegura el esquema.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// el driver corre cada _pragma al abrir cada conexión del pool
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS pets (
	chat_id        INTEGER PRIMARY KEY,
	owner_name     TEXT NOT NULL,
	pet_name       TEXT NOT NULL,
	feed_morning   INTEGER NOT NULL DEFAULT 0,
	feed_afternoon INTEGER NOT NULL DEFAULT 0,
	feed_evening   INTEGER NOT NULL DEFAULT 0,
	walk_morning   INTEGER NOT NULL DEFAULT 0,
	walk_evening   INTEGER NOT NULL DEFAULT 0,
	total_feeds    INTEGER NOT NULL DEFAULT 0,
	total_walks    INTEGER NOT NULL DEFAULT 0,
	anger          INTEGER NOT NULL DEFAULT 0,
	hunger_scale   INTEGER NOT NULL DEFAULT 0,
	boycott_active INTEGER NOT NULL DEFAULT 0,
	boycott_until  TEXT,
	sick_flag      INTEGER NOT NULL DEFAULT 0,
	sick_until     TEXT,
	experience     INTEGER NOT NULL DEFAULT 0,
	days_lived     INTEGER NOT NULL DEFAULT 0,
	last_reset     TEXT NOT NULL
)`

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
