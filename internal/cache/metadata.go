package cache

import (
	"sync"
	"time"

	"ytmusicbot/internal/catalog"
)

// Metadata is what a download or lyrics request needs to know about a track
// it references only by id.
type Metadata struct {
	Title     string
	Artist    string
	Thumbnail string
	Duration  time.Duration
}

// MetadataStore maps track ids to Metadata. Entries are never evicted.
type MetadataStore struct {
	mu      sync.RWMutex
	entries map[string]Metadata
}

func NewMetadataStore() *MetadataStore {
	return &MetadataStore{entries: make(map[string]Metadata)}
}

// Put upserts; the last write wins.
func (s *MetadataStore) Put(id string, m Metadata) {
	s.mu.Lock()
	s.entries[id] = m
	s.mu.Unlock()
}

// PutTracks stores the metadata of every track.
func (s *MetadataStore) PutTracks(tracks []catalog.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tracks {
		s.entries[t.ID] = Metadata{Title: t.Title, Artist: t.Artist, Thumbnail: t.Thumbnail, Duration: t.Duration}
	}
}

// Get returns the zero Metadata for unknown ids.
func (s *MetadataStore) Get(id string) Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id]
}

func (s *MetadataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
