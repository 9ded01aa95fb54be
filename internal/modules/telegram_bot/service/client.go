package service

import (
	"context"
	"fmt"

	"stock_watch/internal/models"
	"stock_watch/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Watchlist то, что боту нужно от движка
type Watchlist interface {
	Synchronize(ctx context.Context) (models.Dataset, error)
	RequestAdd(ctx context.Context, code string) (models.Dataset, error)
	RequestRemove(ctx context.Context, code string) (models.Dataset, error)
	Snapshot() models.Snapshot
	Symbols() []models.TrackedSymbol
}

// sender часть *tgbot.BotAPI, которой пользуются хендлеры
type sender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// Telegram
type Telegram struct {
	bot    *tgbot.BotAPI
	sender sender
	wl     Watchlist
}

func NewTelegram(token string, wl Watchlist) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Info("[TG] authorized as @%s", b.Self.UserName)

	return &Telegram{
		bot:    b,
		sender: b,
		wl:     wl,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.sender.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

func (t *Telegram) SendMessage(_ context.Context, message tgbot.MessageConfig) (tgbot.Message, error) {
	return t.sender.Send(message)
}

// Start крутит long polling до Stop или отмены ctx
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.handleUpdate(ctx, update)
		}
	}
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
