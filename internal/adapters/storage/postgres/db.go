// Package postgres guarda las mascotas en Postgres vía pgx. Se activa solo
// cuando hay DB_DSN configurado; si no, el juego corre sobre sqlite.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return db, nil
}

// Los castigos se guardan igual que en sqlite: flag entero más timestamp
// texto anulable, para compartir el codec entre ambos motores.
const schema = `
CREATE TABLE IF NOT EXISTS pets (
	chat_id        BIGINT PRIMARY KEY,
	owner_name     TEXT    NOT NULL,
	pet_name       TEXT    NOT NULL,
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
	last_reset     TEXT    NOT NULL
)`

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
