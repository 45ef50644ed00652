// Package bot es el adapter de Telegram: traduce updates entrantes a
// llamadas del motor de juego y arma las respuestas.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pet-care-bot/internal/domain/pets"
	"pet-care-bot/internal/platform/logger"
)

// Client es la porción del cliente de Telegram que el bot usa de verdad.
// *tgbotapi.BotAPI la implementa; los tests enchufan un fake.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api Client
	svc *pets.Service
	log logger.Logger
	loc *time.Location
}

// New arma el adapter. loc es la zona del juego, usada para formatear los
// timestamps de las respuestas.
func New(api Client, svc *pets.Service, loc *time.Location, log logger.Logger) *Bot {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Bot{api: api, svc: svc, log: log, loc: loc}
}

// HandleUpdate procesa un update entrante. Todo lo que no sea un comando
// conocido se ignora en silencio.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	chatID := msg.Chat.ID
	cmd := msg.Command()
	b.log.Info("command received", logger.Fields{"chat_id": chatID, "command": cmd})

	var reply string
	switch cmd {
	case "start":
		reply = b.handleStart(ctx, msg)
	case "help":
		reply = replyHelp
	case "name":
		reply = b.handleName(ctx, msg)
	case "status":
		reply = b.handleStatus(ctx, msg)
	case "feed":
		reply = b.handleFeed(ctx, msg)
	case "walk":
		reply = b.handleWalk(ctx, msg)
	default:
		b.log.Debug("unknown command", logger.Fields{"chat_id": chatID, "command": cmd})
		return
	}

	b.reply(chatID, reply)
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) string {
	seed := ""
	if msg.From != nil {
		seed = msg.From.UserName
	}

	p, existed, err := b.svc.Start(ctx, msg.Chat.ID, ownerName(msg.From), seed)
	if err != nil {
		return b.failure("start", msg.Chat.ID, err)
	}
	return renderStart(p, existed)
}

func (b *Bot) handleName(ctx context.Context, msg *tgbotapi.Message) string {
	seed := strings.TrimSpace(msg.CommandArguments())
	if seed == "" {
		return replyNameUsage
	}

	// el nombre visible siempre lleva el formato base(apodo)
	p, err := b.svc.Rename(ctx, msg.Chat.ID, pets.DefaultPetName(seed))
	switch {
	case errors.Is(err, pets.ErrNotFound):
		return replyNotInitialized
	case err != nil:
		return b.failure("rename", msg.Chat.ID, err)
	}
	return renderRenamed(p)
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message) string {
	p, err := b.svc.Get(ctx, msg.Chat.ID)
	switch {
	case errors.Is(err, pets.ErrNotFound):
		return replyNotInitialized
	case err != nil:
		return b.failure("status", msg.Chat.ID, err)
	}
	return renderStatus(p, b.loc)
}

func (b *Bot) handleFeed(ctx context.Context, msg *tgbotapi.Message) string {
	res, err := b.svc.Feed(ctx, msg.Chat.ID)
	switch {
	case errors.Is(err, pets.ErrNotFound):
		return replyNotInitialized
	case err != nil:
		return b.failure("feed", msg.Chat.ID, err)
	case res.Rejected:
		return renderCooldown(res.CooldownUntil, b.loc)
	}
	return renderFed(res, b.loc)
}

func (b *Bot) handleWalk(ctx context.Context, msg *tgbotapi.Message) string {
	res, err := b.svc.Walk(ctx, msg.Chat.ID)
	switch {
	case errors.Is(err, pets.ErrNotFound):
		return replyNotInitialized
	case err != nil:
		return b.failure("walk", msg.Chat.ID, err)
	case res.Rejected:
		return renderCooldown(res.CooldownUntil, b.loc)
	}
	return renderWalked(res, b.loc)
}

func (b *Bot) failure(op string, chatID int64, err error) string {
	b.log.Error(op+" failed", logger.Fields{"chat_id": chatID, "error": err.Error()})
	return replyInternalError
}

func (b *Bot) reply(chatID int64, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(out); err != nil {
		b.log.Error("send reply", logger.Fields{"chat_id": chatID, "error": err.Error()})
	}
}

// RunPolling consume updates por long polling hasta que el contexto muera.
// Cada update corre en su goroutine; el motor serializa por chat.
func (b *Bot) RunPolling(ctx context.Context) error {
	// un webhook viejo bloquea getUpdates
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete stale webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("polling for updates", nil)
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.HandleUpdate(ctx, update)
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("polling stopped", nil)
			return nil
		}
	}
}

// RegisterWebhook da de alta la URL en Telegram. El secret viaja como
// parámetro crudo porque la config tipada del cliente no lo expone.
func (b *Bot) RegisterWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	if secret != "" {
		params["secret_token"] = secret
	}
	if _, err := b.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	b.log.Info("webhook registered", logger.Fields{"url": url})
	return nil
}

// RemoveWebhook la da de baja al apagar. Best effort.
func (b *Bot) RemoveWebhook() {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.log.Warn("delete webhook", logger.Fields{"error": err.Error()})
	}
}

// ownerName saca un nombre presentable del usuario de Telegram: nombre
// completo, si no username, si no un genérico.
func ownerName(u *tgbotapi.User) string {
	if u == nil {
		return "player"
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "player"
}
