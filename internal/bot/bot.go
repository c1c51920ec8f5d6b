// Package bot is the Telegram transport: it collects a validated name from
// the user, presents the style catalog through paginated inline keyboards,
// and redeems registry fingerprints into full rendered texts. All rendering
// is delegated to internal/style; the bot owns only session state and I/O.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"stylebot/internal/config"
	"stylebot/internal/registry"
	"stylebot/internal/style"
)

// Name length contract enforced before the engine is called.
const (
	nameMinRunes = 1
	nameMaxRunes = 30
)

var (
	errNameEmpty   = errors.New("name is empty")
	errNameTooLong = errors.New("name is too long")
)

// Client is the slice of the Telegram API the bot uses. *tgbotapi.BotAPI
// satisfies it; tests substitute a recorder.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// UsageStore is the persistence surface the bot needs.
type UsageStore interface {
	UpsertUser(chatID int64, username string) error
	RecordRender(chatID int64, family, style string) error
	UserIDs() ([]int64, error)
}

// Bot wires the transport to the style engine, registry, and usage store.
type Bot struct {
	api     Client
	cfg     *config.Config
	catalog *style.Catalog
	engine  *style.Engine
	reg     *registry.Registry
	store   UsageStore
	log     *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*session
}

// session is the per-chat interactive state: just the current name. Page
// position travels inside callback data, not here.
type session struct {
	name string
}

// New assembles a Bot. All collaborators are required except the logger,
// which defaults to a nop logger.
func New(api Client, cfg *config.Config, catalog *style.Catalog, engine *style.Engine, reg *registry.Registry, st UsageStore, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:      api,
		cfg:      cfg,
		catalog:  catalog,
		engine:   engine,
		reg:      reg,
		store:    st,
		log:      log,
		sessions: make(map[int64]*session),
	}
}

// Run consumes the long-polling update channel until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.Telegram.PollTimeout

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("bot update loop started", zap.Int("poll_timeout", u.Timeout))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot update loop stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	username := ""
	if msg.From != nil {
		username = msg.From.UserName
	}
	if err := b.store.UpsertUser(chatID, username); err != nil {
		b.log.Warn("user upsert failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	name, err := validateName(msg.Text)
	if err != nil {
		b.reply(chatID, nameRejectionText(err))
		return
	}

	b.setSession(chatID, name)
	b.sendFamilyMenu(chatID, 0, name)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.reply(chatID, startText)
	case "help":
		b.reply(chatID, helpText)
	case "broadcast":
		b.handleBroadcast(ctx, msg)
	default:
		b.reply(chatID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		b.answerCallback(cq.ID, "", false)
		return
	}
	chatID := cq.Message.Chat.ID

	cb, err := parseCallback(cq.Data)
	if err != nil {
		b.log.Warn("bad callback data", zap.String("data", cq.Data), zap.Error(err))
		b.answerCallback(cq.ID, "", false)
		return
	}

	switch cb.action {
	case actionNoop:
		b.answerCallback(cq.ID, "", false)

	case actionMenu:
		name, ok := b.sessionName(chatID)
		if !ok {
			b.answerCallback(cq.ID, sendNameFirstText, true)
			return
		}
		b.sendFamilyMenu(chatID, cq.Message.MessageID, name)
		b.answerCallback(cq.ID, "", false)

	case actionFamily, actionPage:
		name, ok := b.sessionName(chatID)
		if !ok {
			b.answerCallback(cq.ID, sendNameFirstText, true)
			return
		}
		b.showStylePage(chatID, cq.Message.MessageID, cb.family, cb.page, name)
		b.answerCallback(cq.ID, "", false)

	case actionText:
		b.deliverText(cq, cb)
	}
}

// deliverText redeems a fingerprint into its full rendered text. A registry
// miss (evicted or from a previous process) is a normal outcome the user can
// recover from by rendering again.
func (b *Bot) deliverText(cq *tgbotapi.CallbackQuery, cb callback) {
	chatID := cq.Message.Chat.ID

	text, ok := b.reg.Lookup(cb.fingerprint)
	if !ok {
		b.answerCallback(cq.ID, expiredText, true)
		return
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("text delivery failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.answerCallback(cq.ID, "Sending failed, try again.", true)
		return
	}

	label := b.catalog.Label(cb.family, cb.index)
	if err := b.store.RecordRender(chatID, string(cb.family), label); err != nil {
		b.log.Warn("render record failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	b.answerCallback(cq.ID, "Sent ✅", false)
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < nameMinRunes {
		return "", errNameEmpty
	}
	if n > nameMaxRunes {
		return "", errNameTooLong
	}
	return name, nil
}

func (b *Bot) setSession(chatID int64, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[chatID] = &session{name: name}
}

func (b *Bot) sessionName(chatID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	if !ok {
		return "", false
	}
	return s.name, true
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	cb := tgbotapi.NewCallback(id, text)
	cb.ShowAlert = alert
	if _, err := b.api.Request(cb); err != nil {
		b.log.Warn("callback answer failed", zap.Error(err))
	}
}

func nameRejectionText(err error) string {
	if errors.Is(err, errNameTooLong) {
		return fmt.Sprintf("That name is too long — %d characters max.", nameMaxRunes)
	}
	return "Send me a name to style (1–30 characters)."
}
