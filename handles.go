package iconsuite

import (
	"bytes"
	"net/http"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Handle is a downloadable reference to a published resource. It stays valid
// until revoked.
type Handle struct {
	ID   string
	Name string
	URL  string
}

type handleEntry struct {
	name        string
	contentType string
	data        []byte
	created     time.Time
}

// HandleStore hands out URLs for in-memory resources and serves them over
// HTTP under its prefix as <prefix><id>/<name>.
type HandleStore struct {
	prefix string
	logger hclog.Logger

	mu      sync.Mutex
	entries map[string]*handleEntry
}

func NewHandleStore(prefix string, logger hclog.Logger) *HandleStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &HandleStore{
		prefix:  prefix,
		logger:  logger,
		entries: make(map[string]*handleEntry),
	}
}

// Publish registers data and returns its handle. The store keeps a reference
// to data; callers must not modify it afterwards.
func (s *HandleStore) Publish(name, contentType string, data []byte) Handle {
	id := uuid.NewString()
	s.mu.Lock()
	s.entries[id] = &handleEntry{
		name:        name,
		contentType: contentType,
		data:        data,
		created:     time.Now(),
	}
	s.mu.Unlock()

	s.logger.Debug("Publish", "id", id, "name", name, "bytes", len(data))
	return Handle{ID: id, Name: name, URL: s.prefix + id + "/" + name}
}

// Revoke removes the handle. Revoking twice returns ErrReleased.
func (s *HandleStore) Revoke(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrReleased
	}
	delete(s.entries, id)
	s.logger.Debug("Revoke", "id", id)
	return nil
}

// Len returns the number of live handles.
func (s *HandleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *HandleStore) lookup(id, name string) (*handleEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.name != name {
		return nil, false
	}
	return e, true
}

var handleKeyRE = regexp.MustCompile(`^[a-zA-Z0-9/._-]+$`)

func (s *HandleStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Error", http.StatusBadRequest)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, s.prefix)
	if !handleKeyRE.MatchString(key) || path.Clean(key) != key || strings.Contains(key, "..") {
		s.logger.Error("Invalid key", "key", key)
		http.Error(w, "Invalid key", http.StatusBadRequest)
		return
	}
	id, name, ok := strings.Cut(key, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	e, ok := s.lookup(id, name)
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("content-type", e.contentType)
	http.ServeContent(w, r, e.name, e.created, bytes.NewReader(e.data))
}
