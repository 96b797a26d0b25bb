// Package pipeline turns a download request for a track id into an audio
// message: artifact cache, admission queue, yt-dlp, tags, thumbnail, upload.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"ytmusicbot/internal/cache"
	"ytmusicbot/internal/catalog"
	"ytmusicbot/internal/downloader"
	"ytmusicbot/internal/logger"
	"ytmusicbot/internal/metadata"
	"ytmusicbot/internal/queue"
	"ytmusicbot/pkg/utils"
)

// User-facing texts.
const (
	NoticeFromCache   = "✅ Из кэша"
	NoticeDownloading = "⏳ Скачиваю..."
	NoticeQueued      = "📋 В очереди: #%d"
	MsgDownloadFailed = "❌ Не удалось скачать. Попробуй другую песню."
)

// Fetcher downloads a track into req.Dir and returns the audio path.
type Fetcher interface {
	Fetch(ctx context.Context, req downloader.FetchRequest) (string, error)
}

// ArtworkSource downloads a cover image.
type ArtworkSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CoverFinder looks up a cover image URL for a song; "" means none.
type CoverFinder interface {
	CoverURL(ctx context.Context, artist, title string) (string, error)
}

// Audio is a local file ready to be uploaded.
type Audio struct {
	Path      string
	ThumbPath string // empty when no thumbnail could be prepared
	Title     string
	Performer string
	Duration  time.Duration // zero when unknown
}

// Delivery is how the pipeline talks back to the user who asked.
type Delivery interface {
	// Notify shows a short transient notice.
	Notify(text string)
	SendText(text string) error
	// SendAudio uploads a file and returns a handle that can resend it.
	SendAudio(a Audio) (string, error)
	SendCached(handle string) error
}

// Request is one download button press.
type Request struct {
	TrackID string
}

// Outcome says how a request ended.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeCached
	OutcomeDelivered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCached:
		return "cached"
	case OutcomeDelivered:
		return "delivered"
	default:
		return "failed"
	}
}

// Deps are the collaborators of a Pipeline. Artwork, Covers and Tagger may
// be nil.
type Deps struct {
	Admission *queue.Admission
	Metadata  *cache.MetadataStore
	Artifacts *cache.ArtifactCache
	Fetcher   Fetcher
	Artwork   ArtworkSource
	Covers    CoverFinder
	Tagger    metadata.Tagger
	Logger    *logger.Logger

	// TempRoot holds one directory per run; it must exist.
	TempRoot        string
	DownloadTimeout time.Duration
}

// Pipeline delivers tracks to chats, downloading them when not cached.
type Pipeline struct {
	Deps
}

// New creates a Pipeline. A zero DownloadTimeout means five minutes.
func New(d Deps) *Pipeline {
	if d.DownloadTimeout <= 0 {
		d.DownloadTimeout = 5 * time.Minute
	}
	return &Pipeline{Deps: d}
}

// Deliver handles one request end to end. Every failure is reported to the
// user through d; the returned error is for logging only.
func (p *Pipeline) Deliver(ctx context.Context, req Request, d Delivery) (Outcome, error) {
	log := p.Logger.With("track", req.TrackID)

	if handle, ok := p.Artifacts.Get(req.TrackID); ok {
		if err := d.SendCached(handle); err != nil {
			log.Warn("Failed to resend cached audio: %v", err)
			if serr := d.SendText(MsgDownloadFailed); serr != nil {
				log.Warn("Failed to report download failure: %v", serr)
			}
			return OutcomeFailed, fmt.Errorf("send cached audio: %w", err)
		}
		d.Notify(NoticeFromCache)
		return OutcomeCached, nil
	}

	meta := p.Metadata.Get(req.TrackID)
	ticket := p.Admission.Enqueue(req.TrackID)

	limit := p.Admission.Limit()
	if ticket.Running(limit) {
		d.Notify(NoticeDownloading)
	} else {
		d.Notify(fmt.Sprintf(NoticeQueued, ticket.WaitingPosition(limit)))
	}
	log.Debug("Enqueued at position %d", ticket.Position)

	if err := p.run(ctx, ticket, meta, d, log); err != nil {
		log.Error("Download failed: %v", err)
		if serr := d.SendText(MsgDownloadFailed); serr != nil {
			log.Warn("Failed to report download failure: %v", serr)
		}
		return OutcomeFailed, err
	}
	log.Info("Delivered %s - %s (%s)", meta.Artist, meta.Title, catalog.DurationString(meta.Duration))
	return OutcomeDelivered, nil
}

// run holds the admission slot and the run directory. Both are given back on
// every return path, panics included.
func (p *Pipeline) run(ctx context.Context, ticket *queue.Ticket, meta cache.Metadata, d Delivery, log *logger.Logger) (err error) {
	var runDir, audioPath string

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if rerr := utils.RemoveFile(audioPath); rerr != nil {
			log.Warn("Failed to remove %s: %v", audioPath, rerr)
		}
		if cerr := utils.Cleanup(runDir, p.TempRoot); cerr != nil {
			log.Warn("Failed to clean up %s: %v", runDir, cerr)
		}
		p.Admission.Release(ticket)
	}()

	if err := p.Admission.Acquire(ctx, ticket); err != nil {
		return fmt.Errorf("waiting for a download slot: %w", err)
	}

	runDir, err = utils.CreateTempDir(p.TempRoot, "run-*")
	if err != nil {
		return err
	}

	dctx, cancel := context.WithTimeout(ctx, p.DownloadTimeout)
	defer cancel()

	audioPath, err = p.Fetcher.Fetch(dctx, downloader.FetchRequest{
		TrackID: ticket.TrackID,
		Title:   meta.Title,
		Artist:  meta.Artist,
		Dir:     runDir,
	})
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	art := p.fetchArtwork(dctx, meta, log)
	p.writeTags(audioPath, meta, art, log)

	audio := Audio{
		Path:      audioPath,
		ThumbPath: p.writeThumbnail(runDir, art, log),
		Title:     meta.Title,
		Performer: meta.Artist,
		Duration:  meta.Duration,
	}

	handle, err := d.SendAudio(audio)
	if err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	p.Artifacts.Put(ticket.TrackID, handle)
	return nil
}

// fetchArtwork tries the album cover, then the search thumbnail. It returns
// nil when neither can be downloaded.
func (p *Pipeline) fetchArtwork(ctx context.Context, meta cache.Metadata, log *logger.Logger) []byte {
	defer recoverStep("artwork", log)
	if p.Artwork == nil {
		return nil
	}

	var urls []string
	if p.Covers != nil {
		cover, err := p.Covers.CoverURL(ctx, meta.Artist, meta.Title)
		if err != nil {
			log.Debug("Cover lookup failed: %v", err)
		} else if cover != "" {
			urls = append(urls, cover)
		}
	}
	if meta.Thumbnail != "" {
		urls = append(urls, meta.Thumbnail)
	}

	for _, url := range urls {
		data, err := p.Artwork.Fetch(ctx, url)
		if err != nil {
			log.Warn("Artwork %s skipped: %v", url, err)
			continue
		}
		return data
	}
	return nil
}

// writeThumbnail returns "" when art is missing or unusable.
func (p *Pipeline) writeThumbnail(dir string, art []byte, log *logger.Logger) string {
	defer recoverStep("thumbnail", log)
	if art == nil {
		return ""
	}
	thumb, err := metadata.WriteThumbnail(dir, art)
	if err != nil {
		log.Warn("Thumbnail skipped: %v", err)
		return ""
	}
	return thumb
}

func (p *Pipeline) writeTags(path string, meta cache.Metadata, art []byte, log *logger.Logger) {
	defer recoverStep("tagging", log)
	if p.Tagger == nil {
		return
	}

	tags := metadata.Tags{Title: meta.Title, Artist: meta.Artist}
	if art != nil {
		cover, err := metadata.Resize(art, metadata.CoverSize)
		if err != nil {
			log.Warn("Cover not embedded: %v", err)
		} else {
			tags.Artwork = cover
		}
	}

	if err := p.Tagger.WriteTags(path, tags); err != nil {
		log.Warn("Tagging with %s failed: %v", p.Tagger.Name(), err)
	}
}

// recoverStep keeps a panic in an optional step from failing the delivery.
// It must be deferred directly.
func recoverStep(step string, log *logger.Logger) {
	if r := recover(); r != nil {
		log.Warn("%s skipped after panic: %v", step, r)
	}
}
