package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raitonoberu/ytmusic"

	"ytmusicbot/internal/logger"
)

// maxPages bounds how many continuation pages one search may pull.
const maxPages = 3

// trackPager returns the next page of results; an empty page means the end.
type trackPager func() ([]Track, error)

// YTMusic searches songs on music.youtube.com.
type YTMusic struct {
	newPager func(query string) trackPager
	logger   *logger.Logger
}

// NewYTMusic creates a YouTube Music searcher.
func NewYTMusic(log *logger.Logger) *YTMusic {
	return &YTMusic{newPager: ytmusicPager, logger: log}
}

func (y *YTMusic) Name() string { return "ytmusic" }

// Search returns up to limit songs for query. The underlying client is not
// context aware, so the lookup runs in its own goroutine and is abandoned when
// ctx is done.
func (y *YTMusic) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	type result struct {
		tracks []Track
		err    error
	}

	done := make(chan result, 1)
	go func() {
		tracks, err := y.collect(query, limit)
		done <- result{tracks, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.tracks, r.err
	}
}

func (y *YTMusic) collect(query string, limit int) ([]Track, error) {
	next := y.newPager(query)
	seen := make(map[string]bool)
	var out []Track

	for page := 0; page < maxPages && len(out) < limit; page++ {
		tracks, err := next()
		if err != nil {
			if len(out) > 0 {
				y.logger.Debug("ytmusic continuation failed, keeping %d results: %v", len(out), err)
				break
			}
			return nil, fmt.Errorf("ytmusic search: %w", err)
		}
		if len(tracks) == 0 {
			break
		}
		for _, t := range tracks {
			if t.ID == "" || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}

	return out, nil
}

func ytmusicPager(query string) trackPager {
	s := ytmusic.TrackSearch(query)
	return func() ([]Track, error) {
		r, err := s.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, nil
		}

		tracks := make([]Track, 0, len(r.Tracks))
		for _, v := range r.Tracks {
			names := make([]string, 0, len(v.Artists))
			for _, a := range v.Artists {
				if a.Name != "" {
					names = append(names, a.Name)
				}
			}
			thumb := thumbnailURL(v.VideoID)
			if n := len(v.Thumbnails); n > 0 && v.Thumbnails[n-1].URL != "" {
				thumb = v.Thumbnails[n-1].URL
			}
			tracks = append(tracks, Track{
				ID:        v.VideoID,
				Title:     v.Title,
				Artist:    strings.Join(names, ", "),
				Duration:  time.Duration(v.Duration) * time.Second,
				Thumbnail: thumb,
			})
		}
		return tracks, nil
	}
}
