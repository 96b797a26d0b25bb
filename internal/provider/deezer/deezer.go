// Package deezer finds square album covers on Deezer. YouTube thumbnails are
// 16:9 video frames, so a matching Deezer cover makes better artwork.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a Deezer search API client.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// New creates a new Deezer client.
func New(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     "https://api.deezer.com",
	}
}

func (c *Client) Name() string { return "deezer" }

// CoverURL returns the cover of the best match for artist and title, or ""
// when Deezer knows no such track.
func (c *Client) CoverURL(ctx context.Context, artist, title string) (string, error) {
	q := buildQuery(artist, title)
	if q == "" {
		return "", nil
	}

	reqURL := fmt.Sprintf("%s/search?q=%s&limit=5", c.apiURL, url.QueryEscape(q))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create deezer request: %w", err)
	}
	req.Header.Set("User-Agent", "ytmusicbot/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deezer search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("deezer search returned %d: %s", resp.StatusCode, body)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("failed to decode deezer response: %w", err)
	}
	if searchResp.Error != nil {
		return "", fmt.Errorf("deezer API error: %s", searchResp.Error.Message)
	}

	return pickCover(searchResp.Data, artist), nil
}

func buildQuery(artist, title string) string {
	escape := func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(s, "\"", ""))
	}
	title, artist = escape(title), escape(artist)
	if title == "" {
		return ""
	}
	q := "track:\"" + title + "\""
	if artist != "" {
		q += " artist:\"" + artist + "\""
	}
	return q
}

// pickCover prefers a result by the same artist. Without an artist the first
// result wins.
func pickCover(items []trackItem, artist string) string {
	if artist == "" {
		for _, item := range items {
			if u := item.Album.cover(); u != "" {
				return u
			}
		}
		return ""
	}
	for _, item := range items {
		if strings.EqualFold(item.Artist.Name, artist) {
			return item.Album.cover()
		}
	}
	return ""
}

// Deezer API response types

type searchResponse struct {
	Data  []trackItem `json:"data"`
	Error *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type trackItem struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	TitleShort string    `json:"title_short"`
	Artist     artist    `json:"artist"`
	Album      albumInfo `json:"album"`
}

type artist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type albumInfo struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	CoverBig string `json:"cover_big"`
	CoverXL  string `json:"cover_xl"`
}

func (a albumInfo) cover() string {
	if a.CoverXL != "" {
		return a.CoverXL
	}
	return a.CoverBig
}
