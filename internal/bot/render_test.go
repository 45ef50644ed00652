package bot

import (
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pet-care-bot/internal/domain/pets"
)

var msk = time.FixedZone("MSK", 3*60*60)

func TestRenderStatus_AllLines(t *testing.T) {
	p := pets.Pet{
		ChatID:        1,
		PetName:       "Firulais(ana)",
		FeedMorning:   1,
		FeedAfternoon: 0,
		FeedEvening:   2,
		WalkMorning:   1,
		WalkEvening:   0,
		TotalFeeds:    12,
		TotalWalks:    7,
		Anger:         40,
		HungerScale:   60,
		Boycott:       pets.CoolingCondition(time.Date(2025, 6, 10, 13, 0, 0, 0, msk)),
		Sickness:      pets.PendingCondition(),
		Experience:    9,
		DaysLived:     4,
	}

	got := renderStatus(p, msk)
	for _, want := range []string{
		"Firulais(ana) status:",
		"Feeds today: morning 1, afternoon 0, evening 2",
		"Walks today: morning 1, evening 0",
		"Total feeds: 12, total walks: 7",
		"Anger: 40/100",
		"Hunger/sickness: 60/100",
		"Experience: 9",
		"Days lived: 4",
		"Boycott timer until 2025-06-10 13:00:00 MSK.",
		"The pet is sick. Run /feed or /walk, then give it 2 hours.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("status sin la línea %q:\n%s", want, got)
		}
	}
}

func TestRenderStatus_QuietWhenConditionsClear(t *testing.T) {
	p := pets.Pet{ChatID: 1, PetName: "Firulais(ana)"}

	got := renderStatus(p, msk)
	// "sick" a secas chocaría con la línea fija "Hunger/sickness"
	for _, banned := range []string{"Boycott", "boycotting", "The pet is sick", "Recovering"} {
		if strings.Contains(got, banned) {
			t.Errorf("status menciona %q sin castigos activos:\n%s", banned, got)
		}
	}
}

func TestRenderStatus_ExpiredWindowStillShown(t *testing.T) {
	p := pets.Pet{
		ChatID:  1,
		PetName: "Firulais(ana)",
		Boycott: pets.CoolingCondition(time.Date(2020, 1, 1, 0, 0, 0, 0, msk)),
	}

	got := renderStatus(p, msk)
	if !strings.Contains(got, "Boycott timer until 2020-01-01 00:00:00 MSK.") {
		t.Fatalf("la ventana vencida no se muestra:\n%s", got)
	}
}

func TestRenderStatus_EscapesPetName(t *testing.T) {
	p := pets.Pet{ChatID: 1, PetName: "Firulais(<b>&)"}

	got := renderStatus(p, msk)
	if !strings.Contains(got, "Firulais(&lt;b&gt;&amp;) status:") {
		t.Fatalf("nombre sin escapar para modo HTML:\n%s", got)
	}
}

func TestRenderStart(t *testing.T) {
	p := pets.Pet{ChatID: 1, PetName: "Firulais(ana)"}

	fresh := renderStart(p, false)
	if !strings.Contains(fresh, "Firulais(ana) is ready") {
		t.Errorf("alta nueva: %q", fresh)
	}
	again := renderStart(p, true)
	if !strings.Contains(again, "already look after Firulais(ana)") {
		t.Errorf("alta repetida: %q", again)
	}
}

func TestRenderCooldown(t *testing.T) {
	until := time.Date(2025, 6, 10, 13, 0, 0, 0, msk)

	got := renderCooldown(until, msk)
	want := "The pet is on a timer until 2025-06-10 13:00:00 MSK. Try again later."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWithNotices_AppendsInOrder(t *testing.T) {
	until := time.Date(2025, 6, 10, 11, 0, 0, 0, msk)
	notices := []pets.Notice{
		{Kind: pets.NoticeOverfed},
		{Kind: pets.NoticeOverfedSick},
		{Kind: pets.NoticeSick, Until: until},
	}

	got := withNotices("Fed (morning).", notices, msk)
	want := "Fed (morning). The pet overate, experience -2. " +
		"Bad luck: all that food made it sick. " +
		"The pet is sick from hunger, recovering until 2025-06-10 11:00:00 MSK."
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestWithNotices_WalkMishapCarriesLoss(t *testing.T) {
	got := withNotices("Walk done (evening).", []pets.Notice{
		{Kind: pets.NoticeWalkMishap, ExperienceLost: 3},
	}, msk)

	if !strings.Contains(got, "experience -3.") {
		t.Fatalf("la pérdida no aparece: %q", got)
	}
}

func TestOwnerName(t *testing.T) {
	cases := []struct {
		name string
		user *tgbotapi.User
		want string
	}{
		{"full name", &tgbotapi.User{FirstName: "Ana", LastName: "García"}, "Ana García"},
		{"first only", &tgbotapi.User{FirstName: "Ana"}, "Ana"},
		{"username fallback", &tgbotapi.User{UserName: "ana"}, "ana"},
		{"all empty", &tgbotapi.User{}, "player"},
		{"nil user", nil, "player"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ownerName(tc.user)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
