// Package sqlcodec define la representación SQL canónica de una mascota:
// orden de columnas, codificación de castigos y armado de UPDATEs parciales.
// Lo comparten los adapters de sqlite y postgres, que solo difieren en
// placeholders y en el dialecto del alta.
package sqlcodec

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pet-care-bot/internal/domain/pets"
)

// Columns es la lista canónica de columnas de la tabla pets, en el orden que
// usan los SELECT y los INSERT de ambos adapters.
const Columns = "chat_id, owner_name, pet_name, " +
	"feed_morning, feed_afternoon, feed_evening, walk_morning, walk_evening, " +
	"total_feeds, total_walks, anger, hunger_scale, " +
	"boycott_active, boycott_until, sick_flag, sick_until, " +
	"experience, days_lived, last_reset"

// NumColumns sirve para armar los placeholders del INSERT.
const NumColumns = 19

// EncodeCondition parte una Condition en sus columnas (flag, timestamp).
// Clear = (0, NULL); Pending = (1, NULL); Cooling = (0, RFC3339 en la zona
// del juego).
func EncodeCondition(c pets.Condition, loc *time.Location) (int, sql.NullString) {
	switch c.State {
	case pets.ConditionPending:
		return 1, sql.NullString{}
	case pets.ConditionCooling:
		return 0, sql.NullString{String: c.Until.In(loc).Format(time.RFC3339Nano), Valid: true}
	default:
		return 0, sql.NullString{}
	}
}

// DecodeCondition rearma la Condition desde las columnas. El flag gana sobre
// cualquier timestamp guardado. Un timestamp roto no es fatal: devuelve
// Clear y el detalle para que el adapter lo loguee.
func DecodeCondition(active int64, until sql.NullString, loc *time.Location) (pets.Condition, error) {
	if active != 0 {
		return pets.PendingCondition(), nil
	}
	if !until.Valid || strings.TrimSpace(until.String) == "" {
		return pets.ClearCondition(), nil
	}
	t, err := parseStoredTime(until.String, loc)
	if err != nil {
		return pets.ClearCondition(), fmt.Errorf("parse punishment timestamp %q: %w", until.String, err)
	}
	return pets.CoolingCondition(t), nil
}

// parseStoredTime tolera los formatos históricos de la columna: RFC3339 con
// o sin fracción, y el ISO local sin zona (se interpreta en la del juego).
func parseStoredTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// Scanner cubre *sql.Row y *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanPet escanea una fila leída con Columns. Las anomalías (timestamps
// rotos) no frenan el juego: vuelven aparte para que el caller las loguee.
func ScanPet(row Scanner, loc *time.Location) (pets.Pet, []error, error) {
	var (
		p                       pets.Pet
		boycottActive, sickFlag int64
		boycottUntil, sickUntil sql.NullString
	)

	if err := row.Scan(
		&p.ChatID, &p.OwnerName, &p.PetName,
		&p.FeedMorning, &p.FeedAfternoon, &p.FeedEvening,
		&p.WalkMorning, &p.WalkEvening,
		&p.TotalFeeds, &p.TotalWalks,
		&p.Anger, &p.HungerScale,
		&boycottActive, &boycottUntil, &sickFlag, &sickUntil,
		&p.Experience, &p.DaysLived, &p.LastReset,
	); err != nil {
		return pets.Pet{}, nil, err
	}

	var anomalies []error

	boycott, err := DecodeCondition(boycottActive, boycottUntil, loc)
	if err != nil {
		anomalies = append(anomalies, fmt.Errorf("boycott: %w", err))
	}
	p.Boycott = boycott

	sickness, err := DecodeCondition(sickFlag, sickUntil, loc)
	if err != nil {
		anomalies = append(anomalies, fmt.Errorf("sickness: %w", err))
	}
	p.Sickness = sickness

	return p, anomalies, nil
}

// InsertArgs arma los valores de un INSERT con Columns en orden.
func InsertArgs(p pets.Pet, loc *time.Location) []any {
	boycottActive, boycottUntil := EncodeCondition(p.Boycott, loc)
	sickFlag, sickUntil := EncodeCondition(p.Sickness, loc)

	return []any{
		p.ChatID, p.OwnerName, p.PetName,
		p.FeedMorning, p.FeedAfternoon, p.FeedEvening,
		p.WalkMorning, p.WalkEvening,
		p.TotalFeeds, p.TotalWalks,
		p.Anger, p.HungerScale,
		boycottActive, boycottUntil, sickFlag, sickUntil,
		p.Experience, p.DaysLived, p.LastReset,
	}
}

// Assignments arma la lista SET de un UPDATE con los campos no-nil del
// patch. ph genera el placeholder para la posición 1-based que recibe
// (postgres "$n"; sqlite lo ignora y devuelve "?"). start es la posición del
// primer argumento del SET.
func Assignments(pt pets.Patch, loc *time.Location, start int, ph func(int) string) ([]string, []any) {
	var (
		set  []string
		args []any
	)
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s = %s", col, ph(start+len(args))))
		args = append(args, v)
	}

	if pt.OwnerName != nil {
		add("owner_name", *pt.OwnerName)
	}
	if pt.PetName != nil {
		add("pet_name", *pt.PetName)
	}
	if pt.FeedMorning != nil {
		add("feed_morning", *pt.FeedMorning)
	}
	if pt.FeedAfternoon != nil {
		add("feed_afternoon", *pt.FeedAfternoon)
	}
	if pt.FeedEvening != nil {
		add("feed_evening", *pt.FeedEvening)
	}
	if pt.WalkMorning != nil {
		add("walk_morning", *pt.WalkMorning)
	}
	if pt.WalkEvening != nil {
		add("walk_evening", *pt.WalkEvening)
	}
	if pt.TotalFeeds != nil {
		add("total_feeds", *pt.TotalFeeds)
	}
	if pt.TotalWalks != nil {
		add("total_walks", *pt.TotalWalks)
	}
	if pt.Anger != nil {
		add("anger", *pt.Anger)
	}
	if pt.HungerScale != nil {
		add("hunger_scale", *pt.HungerScale)
	}
	if pt.Boycott != nil {
		active, until := EncodeCondition(*pt.Boycott, loc)
		add("boycott_active", active)
		add("boycott_until", until)
	}
	if pt.Sickness != nil {
		active, until := EncodeCondition(*pt.Sickness, loc)
		add("sick_flag", active)
		add("sick_until", until)
	}
	if pt.Experience != nil {
		add("experience", *pt.Experience)
	}
	if pt.DaysLived != nil {
		add("days_lived", *pt.DaysLived)
	}
	if pt.LastReset != nil {
		add("last_reset", *pt.LastReset)
	}

	return set, args
}
