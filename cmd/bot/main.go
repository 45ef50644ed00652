package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pet-care-bot/internal/adapters/storage/postgres"
	"pet-care-bot/internal/adapters/storage/sqlite"
	"pet-care-bot/internal/bot"
	"pet-care-bot/internal/config"
	"pet-care-bot/internal/domain/pets"
	"pet-care-bot/internal/platform/httpclient"
	"pet-care-bot/internal/platform/logger"
	"pet-care-bot/internal/router"
	"pet-care-bot/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "pet-care-bot",
	})
	log.Info("starting", logger.Fields{"webhook": cfg.UseWebhook})

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	repo, closeStore, err := openStore(cfg, loc, log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := pets.NewService(repo, loc, rand.New(rand.NewSource(time.Now().UnixNano())))

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, httpclient.NewLongPoll(60*time.Second))
	if err != nil {
		return fmt.Errorf("telegram login: %w", err)
	}
	log.Info("authorized on telegram", logger.Fields{"account": api.Self.UserName})

	b := bot.New(api, svc, loc, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go scheduler.New(svc, loc, log).Run(ctx)

	if cfg.UseWebhook {
		return runWebhook(ctx, cfg, b, log)
	}
	return b.RunPolling(ctx)
}

// openStore elige el adapter de persistencia: postgres cuando hay DSN, si no
// el archivo sqlite local.
func openStore(cfg config.Config, loc *time.Location, log logger.Logger) (pets.Repository, func(), error) {
	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		log.Info("using postgres store", nil)
		return postgres.NewPetsRepo(db, loc, log), func() { _ = db.Close() }, nil
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using sqlite store", logger.Fields{"path": cfg.DBPath})
	return sqlite.NewPetsRepo(db, loc, log), func() { _ = db.Close() }, nil
}

func runWebhook(ctx context.Context, cfg config.Config, b *bot.Bot, log logger.Logger) error {
	if err := b.RegisterWebhook(cfg.WebhookURL, cfg.WebhookSecret); err != nil {
		return err
	}
	defer b.RemoveWebhook()

	u, err := url.Parse(cfg.WebhookURL)
	if err != nil {
		return fmt.Errorf("parse webhook url: %w", err)
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: router.NewRouter(router.Options{
			Bot:         b,
			WebhookPath: u.Path,
			Secret:      cfg.WebhookSecret,
			Log:         log,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("webhook server listening", logger.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("webhook server stopped", nil)
	return <-errCh
}
