package service

import (
	"context"
	"strings"

	"stock_watch/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnList   = "📋 Список"
	btnStatus = "📊 Статус"
	btnSync   = "🔄 Обновить"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		// callback-и и inline mode не используем
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		var err error
		switch msg.Command() {
		case "start", "help":
			err = t.handleStart(ctx, chatID)
		case "list":
			err = t.handleList(ctx, chatID)
		case "add":
			err = t.handleAdd(ctx, chatID, msg.CommandArguments())
		case "remove":
			err = t.handleRemove(ctx, chatID, msg.CommandArguments())
		case "sync":
			err = t.handleSync(ctx, chatID)
		case "status":
			err = t.handleStatus(ctx, chatID)
		default:
			_, err = t.SendF(ctx, chatID, "Не знаю команду /%s, попробуй /help", msg.Command())
		}
		if err != nil {
			logger.Error("[TG] /%s error: %v", msg.Command(), err)
		}
		return
	}

	// кнопки клавиатуры
	var err error
	switch strings.TrimSpace(msg.Text) {
	case btnList:
		err = t.handleList(ctx, chatID)
	case btnStatus:
		err = t.handleStatus(ctx, chatID)
	case btnSync:
		err = t.handleSync(ctx, chatID)
	}
	if err != nil {
		logger.Error("[TG] button error: %v", err)
	}
}

func (t *Telegram) handleStart(ctx context.Context, chatID int64) error {
	replyKb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnList),
			tgbotapi.NewKeyboardButton(btnSync),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStatus),
		),
	)

	msgText := "Привет! Я слежу за списком тикеров.\n\n" +
		"/list — таблица метрик\n" +
		"/add `CODE` — добавить тикер\n" +
		"/remove `CODE` — убрать тикер\n" +
		"/sync — перечитать котировки\n" +
		"/status — состояние синхронизации"

	msg := tgbotapi.NewMessage(chatID, msgText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = replyKb

	_, err := t.SendMessage(ctx, msg)
	return err
}

func (t *Telegram) handleList(ctx context.Context, chatID int64) error {
	return t.sendTable(ctx, chatID, "", t.wl.Snapshot().Dataset)
}

func (t *Telegram) handleSync(ctx context.Context, chatID int64) error {
	ds, err := t.wl.Synchronize(ctx)
	if err != nil {
		_, sendErr := t.Send(ctx, chatID, describeErr(err))
		return sendErr
	}
	return t.sendTable(ctx, chatID, "🔄 Обновлено", ds)
}

func (t *Telegram) handleAdd(ctx context.Context, chatID int64, args string) error {
	code := strings.TrimSpace(args)
	ds, err := t.wl.RequestAdd(ctx, code)
	if err != nil {
		_, sendErr := t.Send(ctx, chatID, describeErr(err))
		return sendErr
	}
	return t.sendTable(ctx, chatID, "✅ "+strings.ToUpper(code)+" в списке", ds)
}

func (t *Telegram) handleRemove(ctx context.Context, chatID int64, args string) error {
	code := strings.TrimSpace(args)
	ds, err := t.wl.RequestRemove(ctx, code)
	if err != nil {
		_, sendErr := t.Send(ctx, chatID, describeErr(err))
		return sendErr
	}
	return t.sendTable(ctx, chatID, "🗑 "+strings.ToUpper(code)+" убран", ds)
}

func (t *Telegram) handleStatus(ctx context.Context, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, formatStatus(t.wl.Snapshot(), t.wl.Symbols()))
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.SendMessage(ctx, msg)
	return err
}
