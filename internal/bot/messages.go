package bot

import (
	"fmt"
	"html"
	"unicode/utf8"

	"ytmusicbot/internal/cache"
	"ytmusicbot/internal/queue"
)

const (
	msgHelp = "🎵 <b>Music Bot</b>\n\n" +
		"Отправь мне название песни — я найду и скачаю её для тебя!\n\n" +
		"🎵 — скачать трек\n" +
		"📝 — показать текст песни"

	msgSearching      = "🔍 Ищу..."
	msgNothingFound   = "❌ Ничего не найдено. Попробуй другой запрос."
	msgResults        = "🎵 Результаты: <b>%s</b>"
	msgSearchExpired  = "⚠️ Поиск устарел, введи запрос заново"
	msgLyricsLoading  = "📝 Загружаю текст..."
	msgLyricsNotFound = "❌ Текст песни не найден"

	// Telegram allows 4096 characters per message.
	maxMessageRunes = 4000
)

func queueText(s queue.Snapshot) string {
	return fmt.Sprintf("📊 <b>Статус очереди</b>\n\n"+
		"⬇️ Скачивается: %d/%d\n"+
		"⏳ В ожидании: %d", s.Running, s.Limit, s.Waiting)
}

func statsText(searches, tracks, cached int, s queue.Snapshot) string {
	return fmt.Sprintf("📈 <b>Статистика</b>\n\n"+
		"🔎 Поисков в памяти: %d\n"+
		"🎼 Треков известно: %d\n"+
		"💾 Аудио в кэше: %d\n"+
		"⬇️ Активных загрузок: %d", searches, tracks, cached, s.Active)
}

func resultsText(query string) string {
	return fmt.Sprintf(msgResults, html.EscapeString(query))
}

// lyricsText builds the lyrics message, cut so that it fits in one message.
func lyricsText(m cache.Metadata, lyrics string) string {
	header := fmt.Sprintf("📝 <b>%s - %s</b>\n\n", html.EscapeString(m.Artist), html.EscapeString(m.Title))
	if lyrics == "" {
		return header + msgLyricsNotFound
	}

	limit := maxMessageRunes - utf8.RuneCountInString(header)
	if utf8.RuneCountInString(lyrics) > limit {
		lyrics = string([]rune(lyrics)[:limit]) + "..."
	}
	return header + html.EscapeString(lyrics)
}
