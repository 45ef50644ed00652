package memory

import (
	"context"
	"errors"
	"testing"

	"pet-care-bot/internal/domain/pets"
)

func TestPetRepo_CreateIsIdempotent(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	first, err := repo.Create(ctx, pets.NewPet(42, "caro", "Bobby", "2025-06-10"))
	if err != nil {
		t.Fatalf("Create #1: %v", err)
	}

	again, err := repo.Create(ctx, pets.NewPet(42, "otra", "Otro", "2025-06-11"))
	if err != nil {
		t.Fatalf("Create #2: %v", err)
	}
	if again != first {
		t.Fatalf("second create replaced the pet: %+v", again)
	}
}

func TestPetRepo_GetNotFound(t *testing.T) {
	repo := NewPetRepo()

	if _, err := repo.Get(context.Background(), 99); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPetRepo_PatchSubset(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	p := pets.NewPet(42, "caro", "Bobby", "2025-06-10")
	p.Experience = 7
	if _, err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	anger := 55
	boycott := pets.PendingCondition()
	if err := repo.Patch(ctx, 42, pets.Patch{Anger: &anger, Boycott: &boycott}); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	got, err := repo.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Anger != 55 || got.Boycott.State != pets.ConditionPending {
		t.Fatalf("patched fields wrong: %+v", got)
	}
	if got.Experience != 7 || got.PetName != "Bobby" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestPetRepo_EmptyPatchIsNoOp(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	// ni siquiera es error sobre un chat inexistente
	if err := repo.Patch(ctx, 99, pets.Patch{}); err != nil {
		t.Fatalf("empty patch on missing pet: %v", err)
	}

	p, _ := repo.Create(ctx, pets.NewPet(42, "caro", "Bobby", "2025-06-10"))
	if err := repo.Patch(ctx, 42, pets.Patch{}); err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	got, _ := repo.Get(ctx, 42)
	if got != p {
		t.Fatalf("empty patch mutated state: %+v", got)
	}
}

func TestPetRepo_PatchNotFound(t *testing.T) {
	repo := NewPetRepo()
	n := 1

	if err := repo.Patch(context.Background(), 99, pets.Patch{Anger: &n}); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPetRepo_ListSortedByChatID(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		if _, err := repo.Create(ctx, pets.NewPet(id, "caro", "Bobby", "2025-06-10")); err != nil {
			t.Fatalf("Create(%d): %v", id, err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d", len(all))
	}
	for i, want := range []int64{1, 2, 3} {
		if all[i].ChatID != want {
			t.Fatalf("order: %+v", all)
		}
	}
}
