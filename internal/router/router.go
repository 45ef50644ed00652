// Package router arma el server HTTP del modo webhook: la ruta del callback
// de Telegram y el health check.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pet-care-bot/internal/middleware"
	"pet-care-bot/internal/platform/logger"
)

// UpdateHandler procesa un update ya decodificado. Lo implementa bot.Bot.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type Options struct {
	Bot UpdateHandler

	// Path local del callback, derivado de la URL pública. Vacío = "/".
	WebhookPath string

	// Secret del alta del webhook. Vacío = sin chequeo.
	Secret string

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	path := opts.WebhookPath
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.With(middleware.WebhookAuth(opts.Secret)).Post(path, updateHandler(opts.Bot, log))

	return r
}

// updateHandler decodifica el update y lo despacha en línea: Telegram espera
// el 200 como acuse y reintenta ante cualquier otra cosa.
func updateHandler(bot UpdateHandler, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			log.Warn("bad webhook payload", logger.Fields{"error": err.Error()})
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		bot.HandleUpdate(r.Context(), update)
		w.WriteHeader(http.StatusOK)
	}
}
