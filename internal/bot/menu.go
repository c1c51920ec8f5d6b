package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"stylebot/internal/page"
	"stylebot/internal/style"
)

const (
	startText = "Hi! I'm the style bot. Send me a name (1–30 characters) and " +
		"I'll render it in fancy Unicode styles."
	helpText = "Send any name and pick a style family from the menu. " +
		"Tap a number to get the full styled text as its own message, ready to copy.\n\n" +
		"/start – intro\n/help – this message"
	sendNameFirstText = "Send me a name first."
	expiredText       = "That preview expired — pick the style again."

	// Number buttons per keyboard row on a style page.
	buttonsPerRow = 5
)

var familyLabels = []struct {
	label  string
	family style.Family
}{
	{"🔤 Fonts", style.FamilyFont},
	{"꧁ Frames ꧂", style.FamilyDecorative},
	{"♪ Art ♪", style.FamilyArt},
	{"✨ Mixed", style.FamilyMixed},
}

// sendFamilyMenu shows the family picker. With a non-zero messageID the
// existing menu message is edited in place instead of sending a new one.
func (b *Bot) sendFamilyMenu(chatID int64, messageID int, name string) {
	text := fmt.Sprintf("Styling: %s\nPick a style family:", name)

	var row []tgbotapi.InlineKeyboardButton
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, fl := range familyLabels {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fl.label, familyCallback(fl.family)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)

	b.sendOrEdit(chatID, messageID, text, markup)
}

// showStylePage renders one page of a family for the session name: the
// message body lists the previews, the keyboard carries one numbered button
// per preview (callback data holds the registry fingerprint) plus navigation.
func (b *Bot) showStylePage(chatID int64, messageID int, fam style.Family, pageNo int, name string) {
	styles := b.catalog.Styles(fam)
	items, info := page.Paginate(styles, pageNo, b.cfg.Menu.PageSize)

	var lines []string
	var numberRow []tgbotapi.InlineKeyboardButton
	var rows [][]tgbotapi.InlineKeyboardButton

	base := (info.Page - 1) * b.cfg.Menu.PageSize
	for i, d := range items {
		rendered, err := b.engine.Render(name, d)
		if err != nil {
			// Catalog entries are validated at boot; treat this as a bug.
			b.log.Error("render failed", zap.String("family", string(fam)), zap.Int("index", base+i), zap.Error(err))
			continue
		}
		fp := b.reg.Store(rendered)

		lines = append(lines, fmt.Sprintf("%d. %s", i+1, rendered))
		numberRow = append(numberRow, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d", i+1), textCallback(fam, base+i, fp)))
		if len(numberRow) == buttonsPerRow {
			rows = append(rows, numberRow)
			numberRow = nil
		}
	}
	if len(numberRow) > 0 {
		rows = append(rows, numberRow)
	}

	if nav := navRow(fam, info); nav != nil {
		rows = append(rows, nav)
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("« Families", menuCallback()),
	})

	header := fmt.Sprintf("%s styles for %s (page %d/%d)\nTap a number to get the full text.",
		familyTitle(fam), name, info.Page, info.Total)
	text := header
	if len(lines) > 0 {
		text += "\n\n" + strings.Join(lines, "\n")
	}

	b.sendOrEdit(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func navRow(fam style.Family, info page.Info) []tgbotapi.InlineKeyboardButton {
	if !info.HasPrev && !info.HasNext {
		return nil
	}
	var row []tgbotapi.InlineKeyboardButton
	if info.HasPrev {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️", pageCallback(fam, info.Page-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("%d/%d", info.Page, info.Total), actionNoop))
	if info.HasNext {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("➡️", pageCallback(fam, info.Page+1)))
	}
	return row
}

func familyTitle(fam style.Family) string {
	switch fam {
	case style.FamilyFont:
		return "Font"
	case style.FamilyDecorative:
		return "Frame"
	case style.FamilyArt:
		return "Art"
	case style.FamilyMixed:
		return "Mixed"
	default:
		return string(fam)
	}
}

// sendOrEdit edits messageID in place when non-zero, otherwise sends fresh.
func (b *Bot) sendOrEdit(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	if messageID == 0 {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = markup
		if _, err := b.api.Send(msg); err != nil {
			b.log.Warn("menu send failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	if _, err := b.api.Send(edit); err != nil {
		b.log.Warn("menu edit failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
