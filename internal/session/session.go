// Package session holds the identity of the signed-in user: a process-wide
// store for the CLI (optionally persisted to disk) and a cookie-backed one for
// the web front.
package session

import (
	"errors"
	"strings"
	"sync"

	"maintenanceManagement/models"
)

// ErrInvalidSession is returned when logging in without a username or with an unknown role.
var ErrInvalidSession = errors.New("session needs a username and a known role")

// Provider answers who is signed in. Both lookups report ok == false when
// there is no session or the value is unset.
type Provider interface {
	UserRole() (models.Role, bool)
	Username() (string, bool)
}

// Session is the identity created at login.
type Session struct {
	Name string      `yaml:"username" json:"username"`
	Role models.Role `yaml:"role" json:"role"`
}

// UserRole implements Provider for a fixed session value.
func (s Session) UserRole() (models.Role, bool) {
	return s.Role, s.Role != ""
}

// Username implements Provider for a fixed session value.
func (s Session) Username() (string, bool) {
	return s.Name, s.Name != ""
}

func (s Session) validate() error {
	if strings.TrimSpace(s.Name) == "" || !s.Role.Valid() {
		return ErrInvalidSession
	}
	return nil
}

// Store keeps the single active session of a process.
type Store struct {
	mu  sync.RWMutex
	cur *Session
}

// NewStore returns an empty store (nobody signed in).
func NewStore() *Store {
	return &Store{}
}

// Login replaces the active session.
func (s *Store) Login(sess Session) error {
	if err := sess.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = &sess
	s.mu.Unlock()
	return nil
}

// Logout destroys the active session. Logging out twice is harmless.
func (s *Store) Logout() {
	s.mu.Lock()
	s.cur = nil
	s.mu.Unlock()
}

// Current returns a copy of the active session.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return Session{}, false
	}
	return *s.cur, true
}

func (s *Store) UserRole() (models.Role, bool) {
	cur, ok := s.Current()
	if !ok {
		return "", false
	}
	return cur.UserRole()
}

func (s *Store) Username() (string, bool) {
	cur, ok := s.Current()
	if !ok {
		return "", false
	}
	return cur.Username()
}

var (
	_ Provider = Session{}
	_ Provider = (*Store)(nil)
)
