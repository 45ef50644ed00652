package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-bot/internal/adapters/storage/sqlcodec"
	"pet-care-bot/internal/domain/pets"
	"pet-care-bot/internal/platform/logger"
)

type PetsRepo struct {
	db  *sql.DB
	loc *time.Location
	log logger.Logger
}

// NewPetsRepo arma el repo. loc es la zona del juego, para codificar los
// timestamps de castigo.
func NewPetsRepo(db *sql.DB, loc *time.Location, log logger.Logger) *PetsRepo {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PetsRepo{db: db, loc: loc, log: log}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", sqlcodec.NumColumns), ",")

	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO pets ("+sqlcodec.Columns+") VALUES ("+placeholders+")",
		sqlcodec.InsertArgs(p, r.loc)...,
	)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("insert pet: %w", err)
	}

	// alta idempotente: devolvemos la fila que haya quedado
	return r.Get(ctx, p.ChatID)
}

func (r *PetsRepo) Get(ctx context.Context, chatID int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+sqlcodec.Columns+" FROM pets WHERE chat_id = ?", chatID)

	p, anomalies, err := sqlcodec.ScanPet(row, r.loc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, fmt.Errorf("get pet: %w", err)
	}
	r.logAnomalies(chatID, anomalies)
	return p, nil
}

func (r *PetsRepo) Patch(ctx context.Context, chatID int64, patch pets.Patch) error {
	set, args := sqlcodec.Assignments(patch, r.loc, 1, func(int) string { return "?" })
	if len(set) == 0 {
		return nil
	}
	args = append(args, chatID)

	res, err := r.db.ExecContext(ctx,
		"UPDATE pets SET "+strings.Join(set, ", ")+" WHERE chat_id = ?", args...)
	if err != nil {
		return fmt.Errorf("patch pet: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sqlcodec.Columns+" FROM pets ORDER BY chat_id ASC")
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, anomalies, err := sqlcodec.ScanPet(rows, r.loc)
		if err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		r.logAnomalies(p.ChatID, anomalies)
		out = append(out, p)
	}
	return out, rows.Err()
}

// logAnomalies registra timestamps rotos sin frenar el juego.
func (r *PetsRepo) logAnomalies(chatID int64, anomalies []error) {
	for _, err := range anomalies {
		r.log.Warn("pet row anomaly", logger.Fields{"chat_id": chatID, "error": err.Error()})
	}
}
