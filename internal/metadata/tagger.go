package metadata

import (
	"fmt"

	"go.senan.xyz/taglib"
)

// TaglibTagger writes tags through TagLib and handles every format yt-dlp
// can produce.
type TaglibTagger struct{}

func (TaglibTagger) Name() string { return "taglib" }

// WriteTags writes the given Tags to an audio file.
func (TaglibTagger) WriteTags(path string, t Tags) error {
	tags := make(map[string][]string)

	if t.Title != "" {
		tags[taglib.Title] = []string{t.Title}
	}
	if t.Artist != "" {
		tags[taglib.Artist] = []string{t.Artist}
	}

	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("failed to write tags to %s: %w", path, err)
	}
	return writeArtwork(path, t.Artwork)
}

// writeArtwork embeds artwork image data into an audio file.
func writeArtwork(path string, imageData []byte) error {
	if len(imageData) == 0 {
		return nil
	}
	if err := taglib.WriteImage(path, imageData); err != nil {
		return fmt.Errorf("failed to write artwork to %s: %w", path, err)
	}
	return nil
}
