// Package session holds the operator's login state explicitly. The API client
// reads the bearer token from a Session it is handed; nothing is global.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"

	"coinfixi/internal/logging"
)

// ErrNoSession is returned when no operator is logged in.
var ErrNoSession = errors.New("not logged in (run: fixi login)")

// User is the identity returned by the login endpoint.
type User struct {
	ID       string `yaml:"id" json:"id"`
	Email    string `yaml:"email" json:"email"`
	Name     string `yaml:"name" json:"name"`
	Role     string `yaml:"role" json:"role"`
	TenantID string `yaml:"tenant_id" json:"tenant_id"`
}

type snapshot struct {
	Token     string    `yaml:"token"`
	TokenType string    `yaml:"token_type,omitempty"`
	User      User      `yaml:"user"`
	SavedAt   time.Time `yaml:"saved_at"`
}

// Session is safe for concurrent use.
type Session struct {
	mu   sync.RWMutex
	data snapshot
}

// New returns an empty session.
func New() *Session { return &Session{} }

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// User returns the logged in user.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.User
}

// SavedAt is when the token was stored.
func (s *Session) SavedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.SavedAt
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool { return s.Token() != "" }

// Set stores a new token and user.
func (s *Session) Set(token, tokenType string, user User) {
	s.mu.Lock()
	s.data = snapshot{Token: token, TokenType: tokenType, User: user, SavedAt: time.Now().UTC()}
	s.mu.Unlock()
}

// Clear drops the token and user.
func (s *Session) Clear() {
	s.mu.Lock()
	s.data = snapshot{}
	s.mu.Unlock()
}

func (s *Session) replace(d snapshot) {
	s.mu.Lock()
	s.data = d
	s.mu.Unlock()
}

// Claims decodes the bearer token without verifying it. The console has no
// signing key; claims are only used for display and expiry hints.
func (s *Session) Claims() (jwt.MapClaims, error) {
	tok := s.Token()
	if tok == "" {
		return nil, ErrNoSession
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}
	return claims, nil
}

// ExpiresAt returns the token expiry when the token carries one.
func (s *Session) ExpiresAt() (time.Time, bool) {
	claims, err := s.Claims()
	if err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an expiry in the past.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && now.After(exp)
}

// Store persists a Session as YAML.
type Store struct {
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store { return &Store{path: path} }

// Path returns the session file path.
func (st *Store) Path() string { return st.path }

// Load reads the session file. A missing file yields an empty session.
func (st *Store) Load() (*Session, error) {
	s := New()
	if err := st.loadInto(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (st *Store) loadInto(s *Session) error {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.Clear()
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}
	s.replace(snap)
	return nil
}

// Save writes the session with owner-only permissions.
func (st *Store) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	s.mu.RLock()
	data, err := yaml.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		return fmt.Errorf("failed to replace session: %w", err)
	}
	logging.Get(logging.CategorySession).Debugw("session saved", "path", st.path)
	return nil
}

// Clear removes the session file.
func (st *Store) Clear() error {
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
