// Package metadata writes title, artist and cover art into downloaded audio
// files and prepares artwork for embedding and for Telegram thumbnails.
package metadata

import "fmt"

// Tags is what gets embedded into an audio file.
type Tags struct {
	Title   string
	Artist  string
	Artwork []byte // JPEG, may be nil
}

// Tagger writes Tags into the file at path in place.
type Tagger interface {
	Name() string
	WriteTags(path string, tags Tags) error
}

// NewTagger returns the tagger configured by name ("taglib" or "id3v2").
func NewTagger(name string) (Tagger, error) {
	switch name {
	case "", "taglib":
		return TaglibTagger{}, nil
	case "id3v2":
		return ID3Tagger{}, nil
	default:
		return nil, fmt.Errorf("unknown tagger %q", name)
	}
}
