// Package session persists the small slice of state that must survive a
// process restart: the current user, the auth credential and the
// notification preference. Everything else is rebuilt from the authority.
package session

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/chatzone/chatsync/internal/domain"
)

type Snapshot struct {
	User       *domain.User      `json:"user,omitempty"`
	Token      string            `json:"token,omitempty"`
	NotifyMode domain.NotifyMode `json:"notify_mode,omitempty"`
}

type Store struct {
	fs   afero.Fs
	path string

	mu   sync.RWMutex
	snap Snapshot
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path, snap: Snapshot{NotifyMode: domain.NotifyAll}}
}

// Load reads the snapshot from disk. A missing file is a fresh session,
// not an error.
func (s *Store) Load() error {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warn().Str("module", "session").Err(err).Msg("corrupt session snapshot, starting fresh")
		return nil
	}
	if snap.NotifyMode == "" {
		snap.NotifyMode = domain.NotifyAll
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

func (s *Store) save() {
	data, err := json.Marshal(s.snap)
	if err != nil {
		log.Error().Str("module", "session").Err(err).Msg("marshal snapshot")
		return
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		log.Error().Str("module", "session").Err(err).Msg("write snapshot")
	}
}

// SetSession records a successful login.
func (s *Store) SetSession(user *domain.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.User = user
	s.snap.Token = token
	s.save()
}

// Clear wipes user and credential on logout. The notification preference
// is kept; it belongs to the installation, not the account.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.User = nil
	s.snap.Token = ""
	s.save()
}

func (s *Store) SetNotifyMode(m domain.NotifyMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.NotifyMode = m
	s.save()
}

func (s *Store) NotifyMode() domain.NotifyMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.NotifyMode
}

func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.User
}

// Token implements the credential source used by the API client and the
// push connection. Empty means "not logged in".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token
}

func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.User != nil && s.snap.Token != ""
}
