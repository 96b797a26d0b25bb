package metadata

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestResize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"landscape", 1280, 720, 320, 320, 180},
		{"portrait", 360, 640, 320, 180, 320},
		{"square", 544, 544, 320, 320, 320},
		{"already small", 120, 90, 320, 120, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Resize(pngImage(t, tt.w, tt.h), tt.max)
			require.NoError(t, err)
			w, h := decodedSize(t, out)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestResizeInvalid(t *testing.T) {
	_, err := Resize([]byte("not an image"), ThumbSize)
	assert.Error(t, err)
}

func TestWriteThumbnail(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteThumbnail(dir, pngImage(t, 640, 480))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	w, h := decodedSize(t, data)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestArtworkFetch(t *testing.T) {
	img := pngImage(t, 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(img)
	}))
	defer srv.Close()

	f := NewArtworkFetcher(5 * time.Second)

	data, err := f.Fetch(context.Background(), srv.URL+"/cover.png")
	require.NoError(t, err)
	assert.Equal(t, img, data)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), "")
	assert.Error(t, err)
}

// withDimensions rewrites the IHDR of a PNG so it claims w x h pixels.
func withDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	require.Equal(t, "IHDR", string(out[12:16]))
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestResizeRejectsOversizedImage(t *testing.T) {
	huge := withDimensions(t, pngImage(t, 4, 4), 100000, 100000)

	_, err := Resize(huge, ThumbSize)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100000x100000")

	_, err = Resize(withDimensions(t, pngImage(t, 4, 4), 5000, 4000), CoverSize)
	assert.Error(t, err)
}
