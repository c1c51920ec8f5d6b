package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"stylebot/internal/config"
	"stylebot/internal/registry"
	"stylebot/internal/store"
	"stylebot/internal/style"
)

// fakeClient records outgoing traffic instead of talking to Telegram.
type fakeClient struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	failSend map[int64]bool // chat IDs whose sends fail
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		updates:  make(chan tgbotapi.Update, 16),
		failSend: make(map[int64]bool),
	}
}

func (f *fakeClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok && f.failSend[msg.ChatID] {
		return tgbotapi.Message{}, fmt.Errorf("forbidden: bot was blocked by the user")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeClient) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeClient) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeClient) StopReceivingUpdates() {}

func (f *fakeClient) sentMessages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (f *fakeClient) sentEdits() []tgbotapi.EditMessageTextConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range f.sent {
		if edit, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, edit)
		}
	}
	return out
}

func (f *fakeClient) lastCallback() (tgbotapi.CallbackConfig, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if cb, ok := f.requests[i].(tgbotapi.CallbackConfig); ok {
			return cb, true
		}
	}
	return tgbotapi.CallbackConfig{}, false
}

func newTestBot(t *testing.T, adminIDs ...int64) (*Bot, *fakeClient, *store.Store) {
	t.Helper()

	catalog, engine, err := style.NewCatalog()
	require.NoError(t, err)

	st, err := store.New(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.DefaultConfig()
	cfg.Telegram.Token = "test:token"
	cfg.Telegram.AdminIDs = adminIDs
	cfg.Telegram.BroadcastDelay = "0s"

	api := newFakeClient()
	b := New(api, cfg, catalog, engine, registry.New(0), st, zap.NewNop())
	return b, api, st
}

func textMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: chatID, UserName: "max"},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
}

func commandMessage(chatID int64, text string) *tgbotapi.Message {
	msg := textMessage(chatID, text)
	cmdLen := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		cmdLen = i
	}
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	return msg
}

func callbackUpdate(chatID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func TestStartAndHelpCommands(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(42, "/start")})
	b.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(42, "/help")})

	msgs := api.sentMessages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, "style bot")
	assert.Contains(t, msgs[1].Text, "/help")
}

func TestNameRejection(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, tgbotapi.Update{Message: textMessage(42, "   ")})
	b.handleUpdate(ctx, tgbotapi.Update{Message: textMessage(42, strings.Repeat("x", 31))})

	msgs := api.sentMessages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, "1–30")
	assert.Contains(t, msgs[1].Text, "too long")
}

func TestNameOpensFamilyMenu(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: textMessage(42, " Max ")})

	msgs := api.sentMessages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Styling: Max")

	markup, ok := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	var datas []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			require.NotNil(t, btn.CallbackData)
			datas = append(datas, *btn.CallbackData)
		}
	}
	assert.Contains(t, datas, "fam:font")
	assert.Contains(t, datas, "fam:decorative")
	assert.Contains(t, datas, "fam:art")
	assert.Contains(t, datas, "fam:mixed")
}

func TestFamilyCallbackWithoutSessionPrompts(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.handleUpdate(context.Background(), callbackUpdate(42, 10, "fam:font"))

	cb, ok := api.lastCallback()
	require.True(t, ok)
	assert.Equal(t, sendNameFirstText, cb.Text)
	assert.True(t, cb.ShowAlert)
}

func TestFontPageRenderAndDeliver(t *testing.T) {
	b, api, st := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, tgbotapi.Update{Message: textMessage(42, "Max")})
	b.handleUpdate(ctx, callbackUpdate(42, 10, "fam:font"))

	edits := api.sentEdits()
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].Text, "page 1/2")
	assert.Contains(t, edits[0].Text, "𝐌𝐚𝐱", "bold rendering appears on page 1")

	// First numbered button is the bold style; its callback carries the
	// registry fingerprint of the rendered text.
	markup := edits[0].ReplyMarkup
	require.NotNil(t, markup)
	first := markup.InlineKeyboard[0][0]
	require.NotNil(t, first.CallbackData)
	data := *first.CallbackData
	require.True(t, strings.HasPrefix(data, "t:font:0:"), "got %q", data)
	assert.LessOrEqual(t, len(data), 64)

	b.handleUpdate(ctx, callbackUpdate(42, 10, data))

	msgs := api.sentMessages()
	var delivered []string
	for _, m := range msgs {
		delivered = append(delivered, m.Text)
	}
	assert.Contains(t, delivered, "𝐌𝐚𝐱", "full text arrives as its own message")

	stats, err := st.UsageStats(5)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Renders)
	assert.Equal(t, 1, stats.ByFamily["font"])
	require.Len(t, stats.Top, 1)
	assert.Equal(t, "bold", stats.Top[0].Style)
}

func TestPageNavigationClamps(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, tgbotapi.Update{Message: textMessage(42, "Max")})
	// Fonts: 12 styles, 2 pages. Page 99 clamps to the last page.
	b.handleUpdate(ctx, callbackUpdate(42, 10, "pg:font:99"))

	edits := api.sentEdits()
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].Text, "page 2/2")
}

func TestExpiredFingerprintAlerts(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, tgbotapi.Update{Message: textMessage(42, "Max")})
	b.handleUpdate(ctx, callbackUpdate(42, 10, "t:font:0:ffffffff"))

	cb, ok := api.lastCallback()
	require.True(t, ok)
	assert.Equal(t, expiredText, cb.Text)
	assert.True(t, cb.ShowAlert)
	// Only the family menu went out; the miss produced no text message.
	assert.Len(t, api.sentMessages(), 1)
}

func TestBroadcastAdminGate(t *testing.T) {
	b, api, _ := newTestBot(t, 1)
	ctx := context.Background()

	b.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(42, "/broadcast hi")})

	msgs := api.sentMessages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "restricted")
}

func TestBroadcastDeliversAndCounts(t *testing.T) {
	b, api, st := newTestBot(t, 1)
	ctx := context.Background()

	require.NoError(t, st.UpsertUser(2, "b"))
	require.NoError(t, st.UpsertUser(3, "c"))
	api.failSend[3] = true

	b.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(1, "/broadcast hello all")})

	msgs := api.sentMessages()
	var texts []string
	for _, m := range msgs {
		texts = append(texts, fmt.Sprintf("%d:%s", m.ChatID, m.Text))
	}
	assert.Contains(t, texts, "2:hello all")
	assert.Contains(t, texts, "1:Broadcast done: 1 delivered, 1 failed.")
}

func TestBroadcastEmptyPayloadShowsUsage(t *testing.T) {
	b, api, _ := newTestBot(t, 1)

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(1, "/broadcast")})

	msgs := api.sentMessages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Usage: /broadcast")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	// The store's connection pool outlives the test body (closed in Cleanup).
	defer goleak.VerifyNone(t, goleak.IgnoreAnyFunction("database/sql.(*DB).connectionOpener"))

	b, api, _ := newTestBot(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	api.updates <- tgbotapi.Update{Message: commandMessage(42, "/start")}
	require.Eventually(t, func() bool { return len(api.sentMessages()) == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
