package metadata

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // GIF decoder
	"image/jpeg"
	_ "image/png" // PNG decoder
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder
)

const (
	// ThumbSize is the largest side Telegram accepts for an audio thumbnail.
	ThumbSize = 320
	// CoverSize bounds the cover embedded into the audio file.
	CoverSize = 1000

	maxArtworkBytes = 10 << 20
	// maxArtworkPixels bounds the decoded image; a few header bytes can
	// declare dimensions that would need gigabytes.
	maxArtworkPixels = 4096 * 4096
)

// ArtworkFetcher downloads cover images.
type ArtworkFetcher struct {
	httpClient *http.Client
}

func NewArtworkFetcher(timeout time.Duration) *ArtworkFetcher {
	return &ArtworkFetcher{httpClient: &http.Client{Timeout: timeout}}
}

// Fetch downloads the image at url.
func (f *ArtworkFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("no artwork url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create artwork request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("artwork request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork server returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtworkBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork: %w", err)
	}
	if len(data) > maxArtworkBytes {
		return nil, fmt.Errorf("artwork larger than %d bytes", maxArtworkBytes)
	}
	return data, nil
}

// Resize decodes data, scales it to fit within maxSide x maxSide keeping the
// aspect ratio and returns it as JPEG. Smaller images are only re-encoded.
func Resize(data []byte, maxSide int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxArtworkPixels {
		return nil, fmt.Errorf("image dimensions %dx%d out of range", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	if w > maxSide || h > maxSide {
		if w >= h {
			h = max(1, h*maxSide/w)
			w = maxSide
		} else {
			w = max(1, w*maxSide/h)
			h = maxSide
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteThumbnail resizes data to ThumbSize and saves it as dir/thumb.jpg.
func WriteThumbnail(dir string, data []byte) (string, error) {
	thumb, err := Resize(data, ThumbSize)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "thumb.jpg")
	if err := os.WriteFile(path, thumb, 0644); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return path, nil
}
