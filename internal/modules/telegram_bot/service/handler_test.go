package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"stock_watch/internal/models"
	"stock_watch/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseNop()
	os.Exit(m.Run())
}

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type fakeWatchlist struct {
	snap    models.Snapshot
	symbols []models.TrackedSymbol
	err     error
	added   []string
	removed []string
}

func (f *fakeWatchlist) Synchronize(context.Context) (models.Dataset, error) {
	return f.snap.Dataset, f.err
}

func (f *fakeWatchlist) RequestAdd(_ context.Context, code string) (models.Dataset, error) {
	if f.err != nil {
		return nil, f.err
	}
	if models.NormalizeCode(code) == "" {
		return nil, models.ErrEmptyCode
	}
	f.added = append(f.added, code)
	return f.snap.Dataset, nil
}

func (f *fakeWatchlist) RequestRemove(_ context.Context, code string) (models.Dataset, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.removed = append(f.removed, code)
	return f.snap.Dataset, nil
}

func (f *fakeWatchlist) Snapshot() models.Snapshot       { return f.snap }
func (f *fakeWatchlist) Symbols() []models.TrackedSymbol { return f.symbols }

func newTestBot(wl *fakeWatchlist) (*Telegram, *fakeSender) {
	s := &fakeSender{}
	return &Telegram{sender: s, wl: wl}, s
}

func command(text string, length int) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: length},
		},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Text: s, Chat: &tgbotapi.Chat{ID: 42}}}
}

func dataset() models.Dataset {
	return models.Dataset{
		{Symbol: "PETR4", ChangePercent: models.Float(1.5), Price: models.Float(37.52)},
		{Symbol: "ITUB4", Price: models.Float(33)},
	}
}

func TestList(t *testing.T) {
	bot, sent := newTestBot(&fakeWatchlist{snap: models.Snapshot{Dataset: dataset()}})

	bot.handleUpdate(context.Background(), command("/list", 5))

	msg := sent.last(t)
	assert.EqualValues(t, 42, msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Contains(t, msg.Text, "```")
	assert.Contains(t, msg.Text, "PETR4")
	assert.Contains(t, msg.Text, "37.52")
	assert.Contains(t, msg.Text, "ITUB4")
}

func TestListEmpty(t *testing.T) {
	bot, sent := newTestBot(&fakeWatchlist{})

	bot.handleUpdate(context.Background(), text(btnList))

	assert.Equal(t, "📭 Список пуст", sent.last(t).Text)
}

func TestAddAndRemove(t *testing.T) {
	wl := &fakeWatchlist{snap: models.Snapshot{Dataset: dataset()}}
	bot, sent := newTestBot(wl)

	bot.handleUpdate(context.Background(), command("/add vale3", 4))
	assert.Equal(t, []string{"vale3"}, wl.added)
	assert.Contains(t, sent.last(t).Text, "VALE3 в списке")

	bot.handleUpdate(context.Background(), command("/remove PETR4", 7))
	assert.Equal(t, []string{"PETR4"}, wl.removed)
	assert.Contains(t, sent.last(t).Text, "PETR4 убран")
}

func TestAddErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		args string
		want string
	}{
		{"empty", nil, "/add", "Укажи тикер"},
		{"unknown", models.ErrUnknownSymbol, "/add XXXX", "не знает"},
		{"store", &models.PersistenceError{Op: "add", Code: "VALE3", Err: context.Canceled}, "/add VALE3", "Хранилище недоступно"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bot, sent := newTestBot(&fakeWatchlist{err: tc.err})
			bot.handleUpdate(context.Background(), command(tc.args, 4))
			assert.Contains(t, sent.last(t).Text, tc.want)
		})
	}
}

func TestStatus(t *testing.T) {
	wl := &fakeWatchlist{
		snap: models.Snapshot{
			Dataset:     dataset(),
			State:       models.SyncIdle,
			Version:     3,
			CommittedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		symbols: []models.TrackedSymbol{{Code: "PETR4"}, {Code: "VALE3"}, {Code: "ITUB4"}},
	}
	bot, sent := newTestBot(wl)

	bot.handleUpdate(context.Background(), command("/status", 7))

	out := sent.last(t).Text
	assert.Contains(t, out, "`3`")
	assert.Contains(t, out, "PETR4, VALE3, ITUB4")
	assert.Contains(t, out, "Строк с данными: `2`")
	assert.Contains(t, out, "2026-01-02 03:04:05")
}

func TestUnknownCommand(t *testing.T) {
	bot, sent := newTestBot(&fakeWatchlist{})

	bot.handleUpdate(context.Background(), command("/trade", 6))

	assert.Equal(t, "Не знаю команду /trade, попробуй /help", sent.last(t).Text)
}

func TestIgnoresNonMessages(t *testing.T) {
	bot, sent := newTestBot(&fakeWatchlist{})

	bot.handleUpdate(context.Background(), tgbotapi.Update{})
	bot.handleUpdate(context.Background(), text("просто текст"))

	assert.Empty(t, sent.sent)
}
