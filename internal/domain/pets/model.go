package pets

import (
	"fmt"
	"strings"
	"time"
)

// Period define las franjas horarias del juego.
// @Enum morning, afternoon, evening
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

// MealPeriodAt clasifica una hora local en franja de comida:
// 05-11 mañana, 12-16 tarde, el resto noche (madrugada incluida).
func MealPeriodAt(t time.Time) Period {
	switch h := t.Hour(); {
	case h >= 5 && h <= 11:
		return PeriodMorning
	case h >= 12 && h <= 16:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}

// WalkPeriodAt clasifica una hora local en franja de paseo. No existe paseo
// de tarde: 05-11 mañana, el resto noche.
func WalkPeriodAt(t time.Time) Period {
	if h := t.Hour(); h >= 5 && h <= 11 {
		return PeriodMorning
	}
	return PeriodEvening
}

// ConditionState define los estados de un castigo.
// @Enum clear, pending, cooling
type ConditionState string

const (
	ConditionClear   ConditionState = "clear"
	ConditionPending ConditionState = "pending"
	ConditionCooling ConditionState = "cooling"
)

// Condition modela un castigo (boicot o enfermedad) como máquina de tres
// estados: nada, marcado por el reset diario, o enfriándose hasta una hora
// concreta. Pending nunca lleva timestamp y Cooling siempre lo lleva, así la
// combinación inconsistente flag+fecha no se puede representar.
type Condition struct {
	State ConditionState
	Until time.Time // solo significativo en cooling
}

func ClearCondition() Condition   { return Condition{State: ConditionClear} }
func PendingCondition() Condition { return Condition{State: ConditionPending} }

func CoolingCondition(until time.Time) Condition {
	return Condition{State: ConditionCooling, Until: until}
}

// Active dice si la ventana de enfriamiento sigue abierta a la hora dada.
// Pending no bloquea nada por sí solo.
func (c Condition) Active(now time.Time) bool {
	return c.State == ConditionCooling && now.Before(c.Until)
}

// Pet es el estado completo de la mascota de un chat. Una fila por chat,
// creada en el primer /start y nunca borrada.
type Pet struct {
	ChatID    int64
	OwnerName string
	PetName   string

	// Contadores del día; vuelven a cero en el reset de medianoche.
	FeedMorning   int
	FeedAfternoon int
	FeedEvening   int
	WalkMorning   int
	WalkEvening   int

	TotalFeeds int
	TotalWalks int

	Anger       int // 0..100
	HungerScale int // 0.. sin tope, enferma desde 100

	Boycott  Condition
	Sickness Condition

	Experience int
	DaysLived  int
	LastReset  string // fecha civil YYYY-MM-DD en la zona del juego
}

// DateLayout es el formato de la fecha civil (columna last_reset).
const DateLayout = "2006-01-02"

// NewPet arma el registro inicial de un chat: contadores en cero, sin
// castigos, y el día de alta como último reset.
func NewPet(chatID int64, ownerName, petName, today string) Pet {
	return Pet{
		ChatID:    chatID,
		OwnerName: ownerName,
		PetName:   petName,
		Boycott:   ClearCondition(),
		Sickness:  ClearCondition(),
		LastReset: today,
	}
}

// DefaultPetName arma el nombre por defecto: base fija más la semilla del
// dueño (su username normalmente).
func DefaultPetName(seed string) string {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		seed = "anon"
	}
	return fmt.Sprintf("Firulais(%s)", seed)
}

// FeedCount devuelve el contador de comidas de la franja.
func (p Pet) FeedCount(per Period) int {
	switch per {
	case PeriodMorning:
		return p.FeedMorning
	case PeriodAfternoon:
		return p.FeedAfternoon
	default:
		return p.FeedEvening
	}
}

// WalkCount devuelve el contador de paseos de la franja.
func (p Pet) WalkCount(per Period) int {
	if per == PeriodMorning {
		return p.WalkMorning
	}
	return p.WalkEvening
}
