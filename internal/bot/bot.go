// Package bot is the Telegram front end: it routes commands, search queries
// and button presses to the caches, the lyrics client and the download
// pipeline.
package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ytmusicbot/internal/cache"
	"ytmusicbot/internal/catalog"
	"ytmusicbot/internal/config"
	"ytmusicbot/internal/logger"
	"ytmusicbot/internal/pipeline"
	"ytmusicbot/internal/queue"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// LyricsFetcher returns "" when there are no lyrics.
type LyricsFetcher interface {
	Fetch(ctx context.Context, artist, title string) (string, error)
}

// Deliverer runs a download request.
type Deliverer interface {
	Deliver(ctx context.Context, req pipeline.Request, d pipeline.Delivery) (pipeline.Outcome, error)
}

// Spawner runs update handlers; shutdown.Handler waits for them on exit.
type Spawner interface {
	Go(fn func())
}

// Deps are the collaborators of a Bot.
type Deps struct {
	API       API
	Searcher  catalog.Searcher
	Lyrics    LyricsFetcher
	Pipeline  Deliverer
	Results   *cache.ResultCache
	Metadata  *cache.MetadataStore
	Artifacts *cache.ArtifactCache
	Admission *queue.Admission
	Spawner   Spawner
	Config    config.Config
	Logger    *logger.Logger
}

// Bot handles Telegram updates.
type Bot struct {
	Deps
}

// New creates a new Bot instance
func New(d Deps) *Bot {
	return &Bot{Deps: d}
}

// Run long-polls Telegram until ctx is done. Every update is handled in its
// own goroutine.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)

	b.Logger.Info("Bot started, %d concurrent downloads", b.Admission.Limit())

	for {
		select {
		case <-ctx.Done():
			b.API.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.Spawner.Go(func() { b.handleUpdate(ctx, upd) })
		}
	}
}

func (b *Bot) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
