// Package credstore owns the persisted credential lifecycle. No other
// component reads or writes the token storage directly.
package credstore

import (
	"os"
	"path/filepath"
	"strings"
)

// Storage key file names. accessTokenFile is the canonical key; legacyTokenFile
// is read-compatible and migrated into the canonical key on first read.
const (
	accessTokenFile  = "access_token"
	refreshTokenFile = "refresh_token"
	legacyTokenFile  = "token"
)

// Store persists the bearer token pair under a state directory. Storage
// failures on the read path are treated as "no credential"; the backend
// rejecting the token is the authoritative signal either way.
type Store struct {
	dir string
}

// New creates a credential store rooted at dir. The directory is created on
// first save, not here, so constructing a store never fails.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the access token (and refresh token when non-empty) under the
// canonical keys, overwriting any prior value.
func (s *Store) Save(token, refreshToken string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, accessTokenFile), []byte(token), 0o600); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := os.WriteFile(filepath.Join(s.dir, refreshTokenFile), []byte(refreshToken), 0o600); err != nil {
			return err
		}
	}
	return nil
}

// Read returns the persisted access token. If only a legacy-keyed token
// exists it is migrated: written under the canonical key, removed from the
// legacy key, then returned. The second return is false when no credential
// is present or storage is unreadable.
func (s *Store) Read() (string, bool) {
	if token, ok := s.readFile(accessTokenFile); ok {
		return token, true
	}

	token, ok := s.readFile(legacyTokenFile)
	if !ok {
		return "", false
	}

	// One-time migration of the legacy key. A failed write leaves the legacy
	// key in place so the next read retries.
	if err := os.MkdirAll(s.dir, 0o700); err == nil {
		if err := os.WriteFile(filepath.Join(s.dir, accessTokenFile), []byte(token), 0o600); err == nil {
			_ = os.Remove(filepath.Join(s.dir, legacyTokenFile))
		}
	}

	return token, true
}

// ReadRefresh returns the persisted refresh token, if any.
func (s *Store) ReadRefresh() (string, bool) {
	return s.readFile(refreshTokenFile)
}

// Clear deletes all known token keys (canonical, legacy and refresh)
// unconditionally. It never fails; a missing key is already cleared.
func (s *Store) Clear() {
	for _, name := range []string{accessTokenFile, legacyTokenFile, refreshTokenFile} {
		_ = os.Remove(filepath.Join(s.dir, name))
	}
}

// Token implements the api.TokenSource contract.
func (s *Store) Token() (string, bool) {
	return s.Read()
}

func (s *Store) readFile(name string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}
