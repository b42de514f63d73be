package telegram

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"budgetbot/internal"
	"budgetbot/pkg/logger"
)

// Bot runs the long-polling loop and fans updates out to the handler,
// one goroutine per update so a slow rate fetch never blocks the queue.
type Bot struct {
	api            *tgbotapi.BotAPI
	handler        *Handler
	logger         *slog.Logger
	pollTimeout    time.Duration
	handlerTimeout time.Duration
	updateBuffer   int
}

func NewBot(cfg internal.TelegramConfig, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	api.Buffer = cfg.UpdateBuffer

	log.Info("authorized on telegram", "username", api.Self.UserName)

	return &Bot{
		api:            api,
		logger:         log,
		pollTimeout:    cfg.PollTimeout,
		handlerTimeout: cfg.HandlerTimeout,
		updateBuffer:   cfg.UpdateBuffer,
	}, nil
}

// API exposes the underlying client so the handler can send through it.
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

func (b *Bot) SetHandler(h *Handler) {
	b.handler = h
}

// Run polls until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.pollTimeout.Seconds())

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("telegram polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil && update.CallbackQuery == nil {
				continue
			}
			go b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	updateID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling update",
				"update_id", updateID, "panic", r)
		}
	}()

	ctx = internal.ContextWithUpdateID(ctx, updateID)
	ctx = logger.With(ctx, "update_id", updateID)
	if chat := update.FromChat(); chat != nil {
		ctx = logger.With(ctx, "chat_id", chat.ID)
	}
	ctx, cancel := internal.WithTimeout(ctx, b.handlerTimeout)
	defer cancel()

	switch {
	case update.Message != nil:
		b.handler.Handle(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handler.HandleCallback(ctx, update.CallbackQuery)
	}
}
