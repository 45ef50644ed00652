// Package scheduler dispara el corte diario de medianoche sobre todas las
// mascotas. Corre como una goroutine aparte del transporte; solo comparten
// el store, y el motor serializa por chat.
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pet-care-bot/internal/domain/pets"
	"pet-care-bot/internal/platform/logger"
)

// Resetter es lo único que el scheduler necesita del motor.
type Resetter interface {
	DailyResetAll(ctx context.Context) ([]pets.ResetOutcome, error)
}

type Scheduler struct {
	resetter Resetter
	loc      *time.Location
	log      logger.Logger
	now      func() time.Time
}

func New(resetter Resetter, loc *time.Location, log logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{resetter: resetter, loc: loc, log: log, now: time.Now}
}

// NextMidnight devuelve la medianoche local estrictamente posterior a now.
// time.Date normaliza día+1, así que los cambios de mes, año y DST salen
// bien sin aritmética manual.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day()+1, 0, 0, 0, 0, loc)
}

// Run duerme hasta cada medianoche y aplica una pasada de reset. La espera
// se recalcula en cada vuelta desde el reloj actual, nunca desde un offset
// guardado. Termina solo cuando el contexto muere.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := NextMidnight(s.now(), s.loc)
		wait := next.Sub(s.now())
		s.log.Info("daily reset scheduled", logger.Fields{
			"at": next.Format(time.RFC3339),
			"in": wait.Round(time.Second).String(),
		})

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("scheduler stopped", nil)
			return
		case <-timer.C:
		}

		s.runPass(ctx)
	}
}

// runPass aplica el corte a todas las mascotas. Una falla por mascota no
// frena al resto; la pasada siguiente la vuelve a agarrar.
func (s *Scheduler) runPass(ctx context.Context) {
	log := s.log.With(logger.Fields{"run_id": uuid.NewString()})

	outcomes, err := s.resetter.DailyResetAll(ctx)
	if err != nil {
		log.Error("daily reset pass failed", logger.Fields{"error": err.Error()})
		return
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			log.Error("daily reset failed for pet", logger.Fields{
				"chat_id": o.ChatID,
				"error":   o.Err.Error(),
			})
		}
	}
	log.Info("daily reset applied", logger.Fields{"pets": len(outcomes), "failed": failed})
}
