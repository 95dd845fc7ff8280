// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fieldcheck/models"
)

var ErrNotAuthenticated = errors.New("not logged in")

// Session holds the process-wide identity: the bearer token and user profile
// obtained at login. It is set once by the login flow, read by every outgoing
// request, and cleared by the single Invalidate operation when the backend
// reports an expired credential.
type Session struct {
	mu   sync.RWMutex
	path string

	token string
	user  models.User
}

type sessionFile struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// New creates a session backed by the given file path. The file is only the
// identity token and profile; no other client state is persisted.
func New(path string) *Session {
	return &Session{path: path}
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "fieldcheck", "session.json"), nil
}

// Load reads a previously stored identity. A missing file leaves the session
// unauthenticated and is not an error.
func (s *Session) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading session file: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing session file: %w", err)
	}

	s.mu.Lock()
	s.token = f.Token
	s.user = f.User
	s.mu.Unlock()
	return nil
}

// SetIdentity stores the token and profile returned by login and persists
// them for subsequent invocations.
func (s *Session) SetIdentity(token string, user models.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	data, err := json.MarshalIndent(sessionFile{Token: token, User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Token returns the current bearer token, or empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged-in user profile.
func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Invalidate is the one authoritative way to end the session: it discards
// the in-memory identity and removes the stored token. Invoked by the
// response interceptor on any 401/403 and by explicit logout.
func (s *Session) Invalidate() error {
	s.mu.Lock()
	s.token = ""
	s.user = models.User{}
	s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
