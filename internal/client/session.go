package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

// Session holds the token and the user of the logged in account. It is created by the caller
// and handed to the Client explicitly. With an empty path it lives in memory only.
type Session struct {
	mu    sync.RWMutex
	path  string
	token string
	user  apimodel.User
}

type sessionFile struct {
	Token string        `json:"token"`
	User  apimodel.User `json:"user"`
}

// NewSession creates an empty session that is persisted to path.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// DefaultSessionPath is the session file in the user's config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find config directory: %w", err)
	}
	return filepath.Join(dir, "mycontacts", "session.json"), nil
}

// Load reads the session file. A missing file leaves the session logged out.
func (s *Session) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to decode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = f.Token
	s.user = f.User
	return nil
}

// Set replaces token and user and persists them.
func (s *Session) Set(token string, user apimodel.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return s.Save()
}

// Save writes the session file, readable by the owner only.
func (s *Session) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	data, err := json.MarshalIndent(sessionFile{Token: s.token, User: s.user}, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear logs the session out and removes the session file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = apimodel.User{}
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Token returns the bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged in user.
func (s *Session) User() apimodel.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// LoggedIn reports whether the session has a token.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}
