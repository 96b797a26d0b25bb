// Package catalog searches the YouTube Music catalog for songs.
//
// Searcher is the interface consumed by the bot; YTMusic and YouTube are the two
// implementations, usually combined through Chain so that the web search only
// runs when YouTube Music is unavailable or returns nothing.
package catalog

import (
	"context"
	"fmt"
	"time"
)

// Track is one search result. ID is the YouTube video id and is stable across
// searches, so every cache keys on it.
type Track struct {
	ID        string
	Title     string
	Artist    string
	Duration  time.Duration
	Thumbnail string // URL, may be empty
}

// Searcher is the interface catalog backends implement.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Track, error)
}

// DurationString renders d as m:ss or h:mm:ss, the way YouTube Music shows it.
func DurationString(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	total := int(d.Round(time.Second).Seconds())
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// thumbnailURL is the predictable YouTube thumbnail for a video id.
func thumbnailURL(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
}
