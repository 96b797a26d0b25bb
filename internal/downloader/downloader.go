// Package downloader fetches a YouTube video's audio track with yt-dlp and
// transcodes it to the configured format.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"

	"ytmusicbot/internal/config"
	"ytmusicbot/internal/logger"
	"ytmusicbot/pkg/utils"
)

// ErrNoOutput is returned when yt-dlp exits cleanly but leaves no audio file.
var ErrNoOutput = errors.New("yt-dlp produced no audio file")

const watchURL = "https://music.youtube.com/watch?v="

// FetchRequest describes one download. Dir must exist and belong to the caller.
type FetchRequest struct {
	TrackID string
	Title   string
	Artist  string
	Dir     string
}

// runner executes yt-dlp for url writing to the given output template.
type runner func(ctx context.Context, output, url string) error

// Downloader handles downloading YouTube videos as audio files using yt-dlp
type Downloader struct {
	Config config.Config
	Logger *logger.Logger
	run    runner
}

// New creates a new Downloader instance
func New(cfg config.Config, log *logger.Logger) *Downloader {
	d := &Downloader{Config: cfg, Logger: log}
	d.run = d.runYtdlp
	return d
}

// Fetch downloads req.TrackID into req.Dir and returns the audio file path.
func (d *Downloader) Fetch(ctx context.Context, req FetchRequest) (string, error) {
	if req.TrackID == "" {
		return "", fmt.Errorf("track id cannot be empty")
	}

	base := FileBaseName(req)
	output := filepath.Join(req.Dir, base+".%(ext)s")
	url := watchURL + req.TrackID

	d.Logger.Debug("Downloading %s to %s", url, req.Dir)
	if err := d.run(ctx, output, url); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("download cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("yt-dlp failed for %s: %w", req.TrackID, err)
	}

	files, err := utils.FindAudioFiles(req.Dir)
	if err != nil {
		return "", err
	}

	want := base + "." + d.Config.AudioFormat
	for _, f := range files {
		if filepath.Base(f) == want {
			return f, nil
		}
	}
	if len(files) > 0 {
		d.Logger.Debug("expected %s, using %s", want, filepath.Base(files[0]))
		return files[0], nil
	}
	return "", ErrNoOutput
}

func (d *Downloader) runYtdlp(ctx context.Context, output, url string) error {
	cmd := ytdlp.New().
		Quiet().
		NoWarnings().
		NoPlaylist().
		ForceOverwrites().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(d.Config.AudioFormat).
		AudioQuality(d.Config.AudioQuality).
		Output(output)

	// If empty yt-dlp will go to default (no browser cookies)
	if d.Config.CookiesBrowser != "" {
		cmd.CookiesFromBrowser(d.Config.CookiesBrowser)
	}

	res, err := cmd.Run(ctx, url)
	if err != nil {
		if res != nil && res.Stderr != "" {
			d.Logger.Debug("yt-dlp stderr: %s", res.Stderr)
		}
		return err
	}
	return nil
}

// FileBaseName is "artist - title" made safe for the filesystem, or the
// track id when neither is known.
func FileBaseName(req FetchRequest) string {
	name := req.Title
	if req.Artist != "" && req.Title != "" {
		name = req.Artist + " - " + req.Title
	}
	if s := utils.SanitizeFileName(name); s != "" {
		return s
	}
	if s := utils.SanitizeFileName(req.TrackID); s != "" {
		return s
	}
	return "audio"
}
