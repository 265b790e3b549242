package core

// artifacts.go holds generated output files between the conversion
// request and the download request. Each conversion gets its own token,
// so concurrent users cannot collide on a shared output file. Artifacts
// are single-use: taken on download, or expired by the janitor if never
// downloaded.

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultArtifactTTL is how long an undownloaded artifact is retained.
const DefaultArtifactTTL = 10 * time.Minute

// janitorInterval is how often expired artifacts are swept.
const janitorInterval = time.Minute

// Artifact is a generated output file awaiting download.
type Artifact struct {
	Name    string
	Data    []byte
	Created time.Time
}

// ArtifactStore is an in-memory, token-addressed store for conversion
// output files. Safe for concurrent use.
type ArtifactStore struct {
	mu    sync.Mutex
	items map[string]Artifact
	ttl   time.Duration
}

// NewArtifactStore creates a store whose artifacts expire after ttl
// (DefaultArtifactTTL when ttl <= 0) and starts the sweep goroutine.
func NewArtifactStore(ttl time.Duration) *ArtifactStore {
	if ttl <= 0 {
		ttl = DefaultArtifactTTL
	}
	s := &ArtifactStore{
		items: make(map[string]Artifact),
		ttl:   ttl,
	}
	go s.janitor()
	return s
}

// Put stores an artifact and returns its download token.
func (s *ArtifactStore) Put(name string, data []byte) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.items[token] = Artifact{Name: name, Data: data, Created: time.Now()}
	s.mu.Unlock()
	return token
}

// Take removes and returns the artifact for token. The second return
// value is false when the token is unknown or already consumed.
func (s *ArtifactStore) Take(token string) (Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	art, ok := s.items[token]
	if ok {
		delete(s.items, token)
	}
	return art, ok
}

// Len returns the number of artifacts currently held.
func (s *ArtifactStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// janitor periodically drops artifacts that were never downloaded.
func (s *ArtifactStore) janitor() {
	for {
		time.Sleep(janitorInterval)
		s.sweep(time.Now().Add(-s.ttl))
	}
}

// sweep removes artifacts created before cutoff.
func (s *ArtifactStore) sweep(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, art := range s.items {
		if art.Created.Before(cutoff) {
			delete(s.items, token)
		}
	}
}
