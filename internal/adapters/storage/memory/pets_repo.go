// Package memory implementa el estado de mascotas en un mapa. Sirve para
// tests y para corretear el bot en dev sin archivo de base.
package memory

import (
	"context"
	"sort"
	"sync"

	"pet-care-bot/internal/domain/pets"
)

type petRepo struct {
	mu     sync.RWMutex
	byChat map[int64]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byChat: make(map[int64]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ChatID == 0 {
		return pets.Pet{}, pets.ErrInvalidInput
	}
	if existing, ok := r.byChat[p.ChatID]; ok {
		// alta idempotente: la fila existente no se toca
		return existing, nil
	}
	r.byChat[p.ChatID] = p
	return p, nil
}

func (r *petRepo) Get(ctx context.Context, chatID int64) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byChat[chatID]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) Patch(ctx context.Context, chatID int64, patch pets.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if patch.IsEmpty() {
		return nil
	}
	p, ok := r.byChat[chatID]
	if !ok {
		return pets.ErrNotFound
	}
	r.byChat[chatID] = patch.Apply(p)
	return nil
}

func (r *petRepo) List(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.byChat))
	for _, p := range r.byChat {
		out = append(out, p)
	}

	// Orden estable por chat_id asc, igual que los adapters SQL
	sort.Slice(out, func(i, j int) bool {
		return out[i].ChatID < out[j].ChatID
	})

	return out, nil
}
