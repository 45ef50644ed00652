package pets

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("pet not found")

// Repository es el puerto de persistencia del estado de mascotas.
type Repository interface {
	// Create registra la mascota si el chat todavía no tiene una. Si ya
	// existe, devuelve la existente sin tocarla (alta idempotente).
	Create(ctx context.Context, p Pet) (Pet, error)

	// Get devuelve ErrNotFound si el chat no tiene mascota.
	Get(ctx context.Context, chatID int64) (Pet, error)

	// Patch aplica los campos no-nil en una sola operación atómica.
	// Un patch vacío es un no-op silencioso.
	Patch(ctx context.Context, chatID int64, patch Patch) error

	// List devuelve todas las mascotas ordenadas por chat id.
	List(ctx context.Context) ([]Pet, error)
}

// Patch es el subconjunto de campos a escribir. Punteros para PATCH real:
// nil = no tocar.
type Patch struct {
	OwnerName *string
	PetName   *string

	FeedMorning   *int
	FeedAfternoon *int
	FeedEvening   *int
	WalkMorning   *int
	WalkEvening   *int

	TotalFeeds *int
	TotalWalks *int

	Anger       *int
	HungerScale *int

	Boycott  *Condition
	Sickness *Condition

	Experience *int
	DaysLived  *int
	LastReset  *string
}

// IsEmpty dice si el patch no toca ningún campo.
func (pt Patch) IsEmpty() bool {
	return pt.OwnerName == nil && pt.PetName == nil &&
		pt.FeedMorning == nil && pt.FeedAfternoon == nil && pt.FeedEvening == nil &&
		pt.WalkMorning == nil && pt.WalkEvening == nil &&
		pt.TotalFeeds == nil && pt.TotalWalks == nil &&
		pt.Anger == nil && pt.HungerScale == nil &&
		pt.Boycott == nil && pt.Sickness == nil &&
		pt.Experience == nil && pt.DaysLived == nil && pt.LastReset == nil
}

// Apply devuelve una copia de la mascota con los campos no-nil aplicados.
// La usan el adapter en memoria y los tests; los adapters SQL escriben las
// columnas directamente.
func (pt Patch) Apply(p Pet) Pet {
	if pt.OwnerName != nil {
		p.OwnerName = *pt.OwnerName
	}
	if pt.PetName != nil {
		p.PetName = *pt.PetName
	}
	if pt.FeedMorning != nil {
		p.FeedMorning = *pt.FeedMorning
	}
	if pt.FeedAfternoon != nil {
		p.FeedAfternoon = *pt.FeedAfternoon
	}
	if pt.FeedEvening != nil {
		p.FeedEvening = *pt.FeedEvening
	}
	if pt.WalkMorning != nil {
		p.WalkMorning = *pt.WalkMorning
	}
	if pt.WalkEvening != nil {
		p.WalkEvening = *pt.WalkEvening
	}
	if pt.TotalFeeds != nil {
		p.TotalFeeds = *pt.TotalFeeds
	}
	if pt.TotalWalks != nil {
		p.TotalWalks = *pt.TotalWalks
	}
	if pt.Anger != nil {
		p.Anger = *pt.Anger
	}
	if pt.HungerScale != nil {
		p.HungerScale = *pt.HungerScale
	}
	if pt.Boycott != nil {
		p.Boycott = *pt.Boycott
	}
	if pt.Sickness != nil {
		p.Sickness = *pt.Sickness
	}
	if pt.Experience != nil {
		p.Experience = *pt.Experience
	}
	if pt.DaysLived != nil {
		p.DaysLived = *pt.DaysLived
	}
	if pt.LastReset != nil {
		p.LastReset = *pt.LastReset
	}
	return p
}
