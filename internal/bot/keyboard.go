package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ytmusicbot/internal/cache"
)

// Callback data prefixes. Telegram limits callback data to 64 bytes.
const (
	cbDownload = "dl"
	cbLyrics   = "lyrics"
	cbPage     = "page"
	cbNoop     = "noop"
)

func resultsKeyboard(p cache.Page, gen uint64) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(p.Items)+1)
	for _, t := range p.Items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(cache.ButtonLabel(t), cbDownload+":"+t.ID),
			tgbotapi.NewInlineKeyboardButtonData("📝", cbLyrics+":"+t.ID),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if p.HasPrev {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", pageData(gen, p.Index-1)))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", p.Index+1, p.Total), cbNoop))
	if p.HasNext {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", pageData(gen, p.Index+1)))
	}
	rows = append(rows, nav)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func pageData(gen uint64, page int) string {
	return fmt.Sprintf("%s:%d:%d", cbPage, gen, page)
}

// parseCallback splits "action:arg".
func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

// parsePage parses the "<gen>:<page>" argument of a page callback.
func parsePage(arg string) (gen uint64, page int, ok bool) {
	g, p, found := strings.Cut(arg, ":")
	if !found {
		return 0, 0, false
	}
	gen, err := strconv.ParseUint(g, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	page, err = strconv.Atoi(p)
	if err != nil {
		return 0, 0, false
	}
	return gen, page, true
}
