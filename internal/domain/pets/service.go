package pets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Reglas del juego.
const (
	cooldownWindow = 2 * time.Hour

	angerMax          = 100
	sickThreshold     = 100
	overfeedHungerCap = 200

	overfeedSickChance = 0.01 // sobrealimentar puede caer mal
	walkMishapChance   = 0.01 // accidente raro en el paseo
)

// NoticeKind define los avisos que puede producir una acción.
// @Enum overfed, overfed_sick, walk_mishap, sick
type NoticeKind string

const (
	NoticeOverfed     NoticeKind = "overfed"      // 3a comida (o más) en la franja
	NoticeOverfedSick NoticeKind = "overfed_sick" // la comida de más le cayó mal
	NoticeWalkMishap  NoticeKind = "walk_mishap"  // perdió experiencia paseando
	NoticeSick        NoticeKind = "sick"         // hambre en zona crítica
)

// Notice es un efecto secundario que el transporte puede contarle al dueño.
type Notice struct {
	Kind           NoticeKind
	ExperienceLost int       // solo walk_mishap
	Until          time.Time // solo sick
}

// ActionResult es el resultado estructurado de una comida o un paseo.
type ActionResult struct {
	Pet           Pet
	Period        Period
	Rejected      bool      // boicot vigente, no se tocó nada
	CooldownUntil time.Time // fin de la ventana cuando Rejected
	Notices       []Notice
}

// ResetOutcome es el resultado del reset diario para una mascota. Una falla
// queda acá y no corta la pasada.
type ResetOutcome struct {
	ChatID int64
	Pet    Pet
	Err    error
}

// Service es el engine de transiciones. Serializa las acciones de un mismo
// chat; chats distintos corren en paralelo.
type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	chatMu sync.Mutex
	chats  map[int64]*sync.Mutex
}

// NewService arma el engine. loc es la zona horaria fija del juego; rng la
// fuente de los eventos aleatorios (los tests pasan una sembrada).
func NewService(repo Repository, loc *time.Location, rng *rand.Rand) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		repo:  repo,
		loc:   loc,
		now:   time.Now,
		rng:   rng,
		chats: map[int64]*sync.Mutex{},
	}
}

// lockChat serializa las transiciones de un chat.
func (s *Service) lockChat(chatID int64) func() {
	s.chatMu.Lock()
	mu, ok := s.chats[chatID]
	if !ok {
		mu = &sync.Mutex{}
		s.chats[chatID] = mu
	}
	s.chatMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// randFloat y randInt centralizan el RNG. *rand.Rand no es seguro para uso
// concurrente y acá llegan chats en paralelo.
func (s *Service) randFloat() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

// randInt devuelve un uniforme en [lo, hi], ambos incluidos.
func (s *Service) randInt(lo, hi int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return lo + s.rng.Intn(hi-lo+1)
}

// Start crea la mascota del chat si no existe. El booleano dice si ya
// existía; el alta es idempotente.
func (s *Service) Start(ctx context.Context, chatID int64, ownerName, seed string) (Pet, bool, error) {
	if chatID == 0 {
		return Pet{}, false, ErrInvalidInput
	}
	if strings.TrimSpace(ownerName) == "" {
		return Pet{}, false, ErrInvalidInput
	}
	defer s.lockChat(chatID)()

	existing, err := s.repo.Get(ctx, chatID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Pet{}, false, err
	}

	today := s.now().In(s.loc).Format(DateLayout)
	fresh := NewPet(chatID, strings.TrimSpace(ownerName), DefaultPetName(seed), today)

	created, err := s.repo.Create(ctx, fresh)
	if err != nil {
		return Pet{}, false, err
	}
	return created, false, nil
}

// Rename cambia el nombre visible. La mascota tiene que existir.
func (s *Service) Rename(ctx context.Context, chatID int64, name string) (Pet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Pet{}, ErrInvalidInput
	}
	defer s.lockChat(chatID)()

	p, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return Pet{}, err
	}

	if err := s.repo.Patch(ctx, chatID, Patch{PetName: &name}); err != nil {
		return Pet{}, err
	}
	p.PetName = name
	return p, nil
}

// Get devuelve el estado actual sin tocarlo.
func (s *Service) Get(ctx context.Context, chatID int64) (Pet, error) {
	return s.repo.Get(ctx, chatID)
}

// Feed aplica una comida en la franja actual. Orden de efectos: contador de
// franja, total y experiencia suben; castigo por sobrealimentar si la franja
// ya tenía dos comidas; conversión de castigos pendientes; chequeo de
// enfermedad por hambre. Todo queda en un solo patch.
func (s *Service) Feed(ctx context.Context, chatID int64) (ActionResult, error) {
	defer s.lockChat(chatID)()

	p, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return ActionResult{}, err
	}

	now := s.now().In(s.loc)
	if p.Boycott.Active(now) {
		return ActionResult{Pet: p, Rejected: true, CooldownUntil: p.Boycott.Until}, nil
	}

	period := MealPeriodAt(now)
	prev := p.FeedCount(period)
	var notices []Notice

	switch period {
	case PeriodMorning:
		p.FeedMorning++
	case PeriodAfternoon:
		p.FeedAfternoon++
	default:
		p.FeedEvening++
	}
	p.TotalFeeds++
	p.Experience++

	// tercera comida o más en la misma franja
	hungerTouched := false
	if prev >= 2 {
		p.Experience = max(0, p.Experience-2)
		notices = append(notices, Notice{Kind: NoticeOverfed})
		if s.randFloat() < overfeedSickChance {
			p.HungerScale = min(overfeedHungerCap, p.HungerScale+50)
			hungerTouched = true
			notices = append(notices, Notice{Kind: NoticeOverfedSick})
		}
	}

	boycottTouched, sickTouched := resolvePending(&p, now)

	// hambre en zona crítica: se enferma (o renueva la ventana)
	if p.HungerScale >= sickThreshold {
		p.Sickness = CoolingCondition(now.Add(cooldownWindow))
		sickTouched = true
		notices = append(notices, Notice{Kind: NoticeSick, Until: p.Sickness.Until})
	}

	patch := Patch{TotalFeeds: &p.TotalFeeds, Experience: &p.Experience}
	switch period {
	case PeriodMorning:
		patch.FeedMorning = &p.FeedMorning
	case PeriodAfternoon:
		patch.FeedAfternoon = &p.FeedAfternoon
	default:
		patch.FeedEvening = &p.FeedEvening
	}
	if hungerTouched {
		patch.HungerScale = &p.HungerScale
	}
	if boycottTouched {
		patch.Boycott = &p.Boycott
	}
	if sickTouched {
		patch.Sickness = &p.Sickness
	}

	if err := s.repo.Patch(ctx, chatID, patch); err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Pet: p, Period: period, Notices: notices}, nil
}

// Walk aplica un paseo en la franja actual (mañana o noche).
func (s *Service) Walk(ctx context.Context, chatID int64) (ActionResult, error) {
	defer s.lockChat(chatID)()

	p, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return ActionResult{}, err
	}

	now := s.now().In(s.loc)
	if p.Boycott.Active(now) {
		return ActionResult{Pet: p, Rejected: true, CooldownUntil: p.Boycott.Until}, nil
	}

	period := WalkPeriodAt(now)
	var notices []Notice

	if period == PeriodMorning {
		p.WalkMorning++
	} else {
		p.WalkEvening++
	}
	p.TotalWalks++
	p.Experience++

	if s.randFloat() < walkMishapChance {
		loss := s.randInt(1, 3)
		p.Experience = max(0, p.Experience-loss)
		notices = append(notices, Notice{Kind: NoticeWalkMishap, ExperienceLost: loss})
	}

	boycottTouched, sickTouched := resolvePending(&p, now)

	if p.HungerScale >= sickThreshold {
		p.Sickness = CoolingCondition(now.Add(cooldownWindow))
		sickTouched = true
		notices = append(notices, Notice{Kind: NoticeSick, Until: p.Sickness.Until})
	}

	patch := Patch{TotalWalks: &p.TotalWalks, Experience: &p.Experience}
	if period == PeriodMorning {
		patch.WalkMorning = &p.WalkMorning
	} else {
		patch.WalkEvening = &p.WalkEvening
	}
	if boycottTouched {
		patch.Boycott = &p.Boycott
	}
	if sickTouched {
		patch.Sickness = &p.Sickness
	}

	if err := s.repo.Patch(ctx, chatID, patch); err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Pet: p, Period: period, Notices: notices}, nil
}

// resolvePending convierte castigos marcados por el reset diario en ventanas
// concretas de dos horas. Corre después de los efectos primarios de una
// acción exitosa; una acción rechazada no convierte nada.
func resolvePending(p *Pet, now time.Time) (boycott, sick bool) {
	if p.Boycott.State == ConditionPending {
		p.Boycott = CoolingCondition(now.Add(cooldownWindow))
		boycott = true
	}
	if p.Sickness.State == ConditionPending {
		p.Sickness = CoolingCondition(now.Add(cooldownWindow))
		sick = true
	}
	return boycott, sick
}

// DailyReset aplica el corte de medianoche: penalidades por franjas
// perdidas, hambre acumulada, marcas de castigo, contadores a cero y un día
// más de vida. Un solo patch por mascota.
func (s *Service) DailyReset(ctx context.Context, chatID int64) (Pet, error) {
	defer s.lockChat(chatID)()

	p, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return Pet{}, err
	}

	fedM := p.FeedMorning > 0
	walkedM := p.WalkMorning > 0
	fedA := p.FeedAfternoon > 0
	fedE := p.FeedEvening > 0
	walkedE := p.WalkEvening > 0

	// enojo: día ignorado por completo va directo al tope; si no, suma por
	// franja perdida en orden fijo
	if !fedM && !walkedM && !fedA && !fedE && !walkedE {
		p.Anger = angerMax
	} else {
		if !fedM {
			p.Anger += s.randInt(28, 30)
		}
		if !walkedM {
			p.Anger += s.randInt(16, 20)
		}
		if !fedA {
			p.Anger += 20
		}
		if !fedE {
			p.Anger += s.randInt(32, 34)
		}
		if !walkedE {
			p.Anger += s.randInt(16, 20)
		}
		p.Anger = min(p.Anger, angerMax)
	}

	// hambre: +20 por franja perdida, sin tope
	missed := 0
	for _, done := range []bool{fedM, walkedM, fedA, fedE, walkedE} {
		if !done {
			missed++
		}
	}
	p.HungerScale += 20 * missed

	// hambre crítica: enfermedad y boicot quedan marcados para la próxima
	// acción, y las estadísticas de cuidado pagan el descuido
	if p.HungerScale >= sickThreshold {
		p.Sickness = PendingCondition()
		p.Boycott = PendingCondition()
		p.TotalFeeds = max(0, p.TotalFeeds-3)
		p.TotalWalks = max(0, p.TotalWalks-2)
		p.HungerScale = max(p.HungerScale, sickThreshold)
	}

	// enojo al tope: pierde experiencia y también boicotea
	if p.Anger >= angerMax {
		p.Experience = max(0, p.Experience-5)
		p.Boycott = PendingCondition()
	}

	p.DaysLived++
	p.FeedMorning, p.FeedAfternoon, p.FeedEvening = 0, 0, 0
	p.WalkMorning, p.WalkEvening = 0, 0
	p.LastReset = s.now().In(s.loc).Format(DateLayout)

	patch := Patch{
		FeedMorning:   &p.FeedMorning,
		FeedAfternoon: &p.FeedAfternoon,
		FeedEvening:   &p.FeedEvening,
		WalkMorning:   &p.WalkMorning,
		WalkEvening:   &p.WalkEvening,
		TotalFeeds:    &p.TotalFeeds,
		TotalWalks:    &p.TotalWalks,
		Anger:         &p.Anger,
		HungerScale:   &p.HungerScale,
		Boycott:       &p.Boycott,
		Sickness:      &p.Sickness,
		Experience:    &p.Experience,
		DaysLived:     &p.DaysLived,
		LastReset:     &p.LastReset,
	}
	if err := s.repo.Patch(ctx, chatID, patch); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// DailyResetAll corre el reset sobre todas las mascotas registradas.
func (s *Service) DailyResetAll(ctx context.Context) ([]ResetOutcome, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}

	outcomes := make([]ResetOutcome, 0, len(all))
	for _, p := range all {
		reset, err := s.DailyReset(ctx, p.ChatID)
		outcomes = append(outcomes, ResetOutcome{ChatID: p.ChatID, Pet: reset, Err: err})
	}
	return outcomes, nil
}
