package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"stock_watch/internal/models"
	view "stock_watch/internal/modules/view/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (t *Telegram) sendTable(ctx context.Context, chatID int64, title string, ds models.Dataset) error {
	msg := tgbotapi.NewMessage(chatID, formatTable(title, ds))
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.SendMessage(ctx, msg)
	return err
}

func formatTable(title string, ds models.Dataset) string {
	if len(ds) == 0 {
		if title != "" {
			return title + "\n\n📭 Список пуст"
		}
		return "📭 Список пуст"
	}

	var buf bytes.Buffer
	view.Render(&buf, view.Project(ds))

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	// моноширинный блок, иначе таблица разъезжается
	b.WriteString("```\n")
	b.WriteString(buf.String())
	b.WriteString("```")
	return b.String()
}

func formatStatus(snap models.Snapshot, symbols []models.TrackedSymbol) string {
	codes := make([]string, 0, len(symbols))
	for _, s := range symbols {
		codes = append(codes, s.Code)
	}
	committed := "никогда"
	if !snap.CommittedAt.IsZero() {
		committed = snap.CommittedAt.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf(
		"*📊 Статус*\n\n"+
			"Состояние: `%s`\n"+
			"Версия: `%d`\n"+
			"Тикеров: `%d` (%s)\n"+
			"Строк с данными: `%d`\n"+
			"Последний коммит: `%s`\n",
		snap.State,
		snap.Version,
		len(codes),
		strings.Join(codes, ", "),
		len(snap.Dataset),
		committed,
	)
}

func describeErr(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyCode):
		return "❗️ Укажи тикер, например /add PETR4"
	case errors.Is(err, models.ErrUnknownSymbol):
		return "❗️ Провайдер не знает такой тикер"
	case models.IsPersistence(err):
		return "⚠️ Хранилище недоступно: " + err.Error()
	default:
		return "❌ Ошибка: " + err.Error()
	}
}
