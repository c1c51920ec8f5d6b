package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleBroadcast implements the admin /broadcast command: the payload is
// sent to every known user with a small inter-send delay. Per-recipient
// failures (blocked bot, deleted account) are logged and skipped; there is
// no retry.
func (b *Bot) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !b.cfg.IsAdmin(chatID) {
		b.reply(chatID, "This command is restricted to admins.")
		return
	}

	payload := strings.TrimSpace(msg.CommandArguments())
	if payload == "" {
		b.reply(chatID, "Usage: /broadcast <message>")
		return
	}

	delivered, failed := b.broadcast(ctx, chatID, payload)
	b.reply(chatID, fmt.Sprintf("Broadcast done: %d delivered, %d failed.", delivered, failed))
}

func (b *Bot) broadcast(ctx context.Context, issuer int64, text string) (delivered, failed int) {
	runID := uuid.NewString()[:8]
	log := b.log.With(zap.String("broadcast_id", runID))

	ids, err := b.store.UserIDs()
	if err != nil {
		log.Error("broadcast audience query failed", zap.Error(err))
		return 0, 0
	}
	log.Info("broadcast started", zap.Int("audience", len(ids)))

	delay := b.cfg.GetBroadcastDelay()
	for _, id := range ids {
		if id == issuer {
			continue
		}
		select {
		case <-ctx.Done():
			log.Warn("broadcast cancelled", zap.Int("delivered", delivered))
			return delivered, failed
		default:
		}

		if _, err := b.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
			failed++
			log.Warn("broadcast send failed", zap.Int64("chat_id", id), zap.Error(err))
			continue
		}
		delivered++

		if delay > 0 {
			select {
			case <-ctx.Done():
				log.Warn("broadcast cancelled", zap.Int("delivered", delivered))
				return delivered, failed
			case <-time.After(delay):
			}
		}
	}

	log.Info("broadcast finished", zap.Int("delivered", delivered), zap.Int("failed", failed))
	return delivered, failed
}
