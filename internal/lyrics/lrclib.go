// Package lyrics looks up song lyrics on LRCLib.
package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Matches the "[mm:ss.xx]" stamps of a synced LRC line.
var lrcTimestamp = regexp.MustCompile(`^(\[\d+:\d+(?:\.\d+)?\])+\s?`)

// Client is an LRCLib API client.
type Client struct {
	httpClient *http.Client
	apiURL     string
	userAgent  string
}

// NewClient creates a Client whose requests give up after timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     "https://lrclib.net/api/search",
		userAgent:  "ytmusicbot/1.0",
	}
}

// Fetch returns the plain lyrics of the best match for artist and title.
// An empty string with a nil error means LRCLib has no lyrics for the song.
// There is a single attempt; callers report failures as "not found".
func (c *Client) Fetch(ctx context.Context, artist, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", nil
	}

	params := url.Values{}
	params.Set("track_name", title)
	if artist != "" {
		params.Set("artist_name", artist)
	}

	reqURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create lrclib request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lrclib request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lrclib returned status %d", resp.StatusCode)
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return "", fmt.Errorf("failed to decode lrclib response: %w", err)
	}

	return pick(records), nil
}

// pick prefers the first record with plain lyrics, then falls back to the
// first synced one with its timestamps stripped. Instrumentals have neither.
func pick(records []record) string {
	for _, r := range records {
		if text := strings.TrimSpace(r.PlainLyrics); text != "" {
			return text
		}
	}
	for _, r := range records {
		if r.SyncedLyrics != "" {
			return stripTimestamps(r.SyncedLyrics)
		}
	}
	return ""
}

func stripTimestamps(synced string) string {
	lines := strings.Split(synced, "\n")
	for i, line := range lines {
		lines[i] = lrcTimestamp.ReplaceAllString(strings.TrimRight(line, "\r"), "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

type record struct {
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	Instrumental bool   `json:"instrumental"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}
