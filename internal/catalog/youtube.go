package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ppalone/ytsearch"
)

// YouTube searches regular YouTube videos. Titles are normalized so that an
// "Artist - Title (Official Video)" upload looks like a catalog song.
type YouTube struct {
	client *ytsearch.Client
}

// NewYouTube creates a YouTube web searcher.
func NewYouTube() *YouTube {
	return &YouTube{client: ytsearch.NewClient(nil)}
}

func (y *YouTube) Name() string { return "youtube" }

func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	res, err := y.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	var out []Track
	seen := make(map[string]bool)
	for _, r := range res.Results {
		if r.VideoID == "" || seen[r.VideoID] {
			continue
		}
		seen[r.VideoID] = true

		title, artist := NormalizeTitle(r.Title, "")
		if artist == "" {
			_, artist = NormalizeTitle("", r.Channel)
		}
		out = append(out, Track{
			ID:        r.VideoID,
			Title:     title,
			Artist:    artist,
			Duration:  parseClock(r.Duration),
			Thumbnail: thumbnailURL(r.VideoID),
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// parseClock parses "3:20" or "1:05:20". Anything else is zero.
func parseClock(s string) time.Duration {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	var total int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second
}
