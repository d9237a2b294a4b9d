// Package session holds the signed-in administrator's credential, persists
// it between runs and gates commands that need one.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/logging"
)

// Credential is the bearer token plus the profile it was issued for.
type Credential struct {
	Token   string       `json:"token"`
	Admin   client.Admin `json:"admin"`
	SavedAt time.Time    `json:"savedAt"`
}

// Store persists at most one credential.
type Store interface {
	Load() (*Credential, error)
	Save(*Credential) error
	Clear() error
}

// FileStore keeps the credential as JSON in a single owner-only file.
type FileStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFileStore creates a FileStore at path. A nil logger discards.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Load returns the stored credential, or nil when there is none. A file
// that cannot be decoded is removed and treated as absent.
func (s *FileStore) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil || cred.Token == "" {
		s.logger.Warn("discarding unreadable session file", "path", s.path, "error", err)
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("removing session file: %w", rmErr)
		}
		return nil, nil
	}
	return &cred, nil
}

// Save writes cred atomically with mode 0600.
func (s *FileStore) Save(cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an absent one succeeds.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Holder is the in-memory credential shared by every request. It is the
// transport's token source.
type Holder struct {
	mu   sync.RWMutex
	cred *Credential
}

// Token implements transport.TokenSource.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.cred == nil {
		return ""
	}
	return h.cred.Token
}

// Get returns a copy of the held credential, or nil.
func (h *Holder) Get() *Credential {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.cred == nil {
		return nil
	}
	c := *h.cred
	return &c
}

func (h *Holder) set(c *Credential) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cred = c
}
