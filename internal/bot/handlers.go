package bot

import (
	"context"
	"runtime/debug"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ytmusicbot/internal/cache"
	"ytmusicbot/internal/pipeline"
)

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.Logger.Error("Panic handling update %d: %v\n%s", upd.UpdateID, r, debug.Stack())
		}
	}()

	switch {
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.IsCommand() {
		switch m.Command() {
		case "start", "help":
			b.sendHTML(m.Chat.ID, msgHelp)
		case "queue":
			b.sendHTML(m.Chat.ID, queueText(b.Admission.Snapshot()))
		case "stats":
			b.sendHTML(m.Chat.ID, statsText(b.Results.Len(), b.Metadata.Len(), b.Artifacts.Len(), b.Admission.Snapshot()))
		}
		return
	}

	if strings.TrimSpace(m.Text) != "" {
		b.search(ctx, m)
	}
}

func (b *Bot) search(ctx context.Context, m *tgbotapi.Message) {
	query := strings.TrimSpace(m.Text)
	chatID := m.Chat.ID
	userID := chatID
	if m.From != nil {
		userID = m.From.ID
	}
	log := b.Logger.With("user", userID)

	if _, err := b.API.Request(tgbotapi.NewDeleteMessage(chatID, m.MessageID)); err != nil {
		log.Debug("Could not delete query message: %v", err)
	}

	status, err := b.API.Send(tgbotapi.NewMessage(chatID, msgSearching))
	if err != nil {
		log.Error("Failed to send search status: %v", err)
		return
	}

	sctx, cancel := b.withTimeout(ctx, b.Config.SearchTimeout)
	defer cancel()
	tracks, err := b.Searcher.Search(sctx, query, b.Config.SearchLimit)
	if err != nil {
		log.Warn("Search for %q failed: %v", query, err)
	}
	log.Debug("Search %q: %d results", query, len(tracks))

	if len(tracks) == 0 {
		b.editText(chatID, status.MessageID, msgNothingFound)
		return
	}

	gen := b.Results.Put(userID, query, tracks)
	page, _ := cache.Paginate(tracks, 0)
	b.Metadata.PutTracks(page.Items)

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, status.MessageID, resultsText(query), resultsKeyboard(page, gen))
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.API.Send(edit); err != nil {
		log.Error("Failed to show results: %v", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.From == nil {
		b.answer(cq.ID, "")
		return
	}

	action, arg := parseCallback(cq.Data)
	switch action {
	case cbPage:
		b.showPage(cq, arg)
	case cbLyrics:
		b.showLyrics(ctx, cq, arg)
	case cbDownload:
		b.download(ctx, cq, arg)
	default:
		b.answer(cq.ID, "")
	}
}

// showPage re-renders the keyboard of the message the button belongs to.
// Buttons of a search the user has since replaced are reported as expired.
func (b *Bot) showPage(cq *tgbotapi.CallbackQuery, arg string) {
	gen, index, ok := parsePage(arg)
	if !ok {
		b.answer(cq.ID, msgSearchExpired)
		return
	}

	result, ok := b.Results.Lookup(cq.From.ID, gen)
	if !ok {
		b.answer(cq.ID, msgSearchExpired)
		return
	}
	page, ok := cache.Paginate(result.Tracks, index)
	if !ok {
		b.answer(cq.ID, msgSearchExpired)
		return
	}

	b.Metadata.PutTracks(page.Items)
	edit := tgbotapi.NewEditMessageReplyMarkup(cq.Message.Chat.ID, cq.Message.MessageID, resultsKeyboard(page, gen))
	if _, err := b.API.Send(edit); err != nil {
		b.Logger.Warn("Failed to switch page: %v", err)
	}
	b.answer(cq.ID, "")
}

func (b *Bot) showLyrics(ctx context.Context, cq *tgbotapi.CallbackQuery, trackID string) {
	b.answer(cq.ID, msgLyricsLoading)

	meta := b.Metadata.Get(trackID)
	lctx, cancel := b.withTimeout(ctx, b.Config.LyricsTimeout)
	defer cancel()

	text, err := b.Lyrics.Fetch(lctx, meta.Artist, meta.Title)
	if err != nil {
		b.Logger.Warn("Lyrics for %s failed: %v", trackID, err)
		text = ""
	}
	b.sendHTML(cq.Message.Chat.ID, lyricsText(meta, text))
}

func (b *Bot) download(ctx context.Context, cq *tgbotapi.CallbackQuery, trackID string) {
	d := &chatDelivery{
		api:        b.API,
		chatID:     cq.Message.Chat.ID,
		callbackID: cq.ID,
		logger:     b.Logger,
	}
	out, err := b.Pipeline.Deliver(ctx, pipeline.Request{TrackID: trackID}, d)
	b.Logger.Debug("Download %s by %d: %s (err=%v)", trackID, cq.From.ID, out, err)
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.API.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.Logger.Debug("Failed to answer callback: %v", err)
	}
}

func (b *Bot) sendHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.API.Send(msg); err != nil {
		b.Logger.Error("Failed to send message: %v", err)
	}
}

func (b *Bot) editText(chatID int64, messageID int, text string) {
	if _, err := b.API.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		b.Logger.Error("Failed to edit message: %v", err)
	}
}
