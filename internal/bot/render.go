package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pet-care-bot/internal/domain/pets"
)

const (
	replyNotInitialized = "Pet not found. Use /start first."
	replyInternalError  = "Something went wrong. Try again in a moment."
	replyNameUsage      = "Usage: /name <nickname>"

	replyHelp = `Quick rules:
- Feed the pet 3 times a day (ideally 09:00, 14:00 and 19:00).
- Walk it twice a day (ideally 09:00 and 19:00).
- Missed slots push the anger and hunger scales up.
- When hunger or anger reaches 100 the pet starts a boycott and waits for /feed or /walk. After that command it needs 2 hours to recover.`
)

const stampLayout = "2006-01-02 15:04:05 MST"

// esc escapa texto que viene del usuario; las respuestas van en modo HTML.
func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func stamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(stampLayout)
}

func renderStart(p pets.Pet, existed bool) string {
	if existed {
		return fmt.Sprintf("You already look after %s. Check /status.", esc(p.PetName))
	}
	return fmt.Sprintf("Hi! %s is ready. Commands: /name, /feed, /walk, /status, /help", esc(p.PetName))
}

func renderRenamed(p pets.Pet) string {
	return fmt.Sprintf("Pet name set: %s", esc(p.PetName))
}

func renderStatus(p pets.Pet, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s status:\n", esc(p.PetName))
	fmt.Fprintf(&b, "Feeds today: morning %d, afternoon %d, evening %d\n", p.FeedMorning, p.FeedAfternoon, p.FeedEvening)
	fmt.Fprintf(&b, "Walks today: morning %d, evening %d\n", p.WalkMorning, p.WalkEvening)
	fmt.Fprintf(&b, "Total feeds: %d, total walks: %d\n", p.TotalFeeds, p.TotalWalks)
	fmt.Fprintf(&b, "Anger: %d/100\n", p.Anger)
	fmt.Fprintf(&b, "Hunger/sickness: %d/100\n", p.HungerScale)
	fmt.Fprintf(&b, "Experience: %d\n", p.Experience)
	fmt.Fprintf(&b, "Days lived: %d\n", p.DaysLived)

	// las ventanas vencidas también se muestran; el estado es informativo
	switch p.Boycott.State {
	case pets.ConditionPending:
		b.WriteString("The pet is boycotting you and waits for /feed or /walk.\n")
	case pets.ConditionCooling:
		fmt.Fprintf(&b, "Boycott timer until %s.\n", stamp(p.Boycott.Until, loc))
	}
	switch p.Sickness.State {
	case pets.ConditionPending:
		b.WriteString("The pet is sick. Run /feed or /walk, then give it 2 hours.\n")
	case pets.ConditionCooling:
		fmt.Fprintf(&b, "Recovering until %s.\n", stamp(p.Sickness.Until, loc))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCooldown(until time.Time, loc *time.Location) string {
	return fmt.Sprintf("The pet is on a timer until %s. Try again later.", stamp(until, loc))
}

func renderFed(res pets.ActionResult, loc *time.Location) string {
	return withNotices(fmt.Sprintf("Fed (%s).", res.Period), res.Notices, loc)
}

func renderWalked(res pets.ActionResult, loc *time.Location) string {
	return withNotices(fmt.Sprintf("Walk done (%s).", res.Period), res.Notices, loc)
}

func withNotices(base string, notices []pets.Notice, loc *time.Location) string {
	parts := []string{base}
	for _, n := range notices {
		switch n.Kind {
		case pets.NoticeOverfed:
			parts = append(parts, "The pet overate, experience -2.")
		case pets.NoticeOverfedSick:
			parts = append(parts, "Bad luck: all that food made it sick.")
		case pets.NoticeWalkMishap:
			parts = append(parts, fmt.Sprintf("Something unpleasant happened on the walk, experience -%d.", n.ExperienceLost))
		case pets.NoticeSick:
			parts = append(parts, fmt.Sprintf("The pet is sick from hunger, recovering until %s.", stamp(n.Until, loc)))
		}
	}
	return strings.Join(parts, " ")
}
