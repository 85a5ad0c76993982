package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// fileState is the on-disk form of a CLI session.
type fileState struct {
	Username string `yaml:"username"`
	Role     string `yaml:"role"`
	Token    string `yaml:"token,omitempty"`
	Server   string `yaml:"server,omitempty"`
}

// FileStore is a Store persisted as YAML so a CLI session survives between
// invocations. It also remembers the bearer token and the server it was issued by.
type FileStore struct {
	*Store

	path   string
	mu     sync.Mutex
	token  string
	server string
}

// DefaultPath returns ~/.otctl/session.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".otctl", "session.yaml"), nil
}

// OpenFile loads the session saved at path. A missing file yields an empty store.
func OpenFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session file path is empty")
	}
	fsStore := &FileStore{Store: NewStore(), path: path}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fsStore, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", path, err)
	}
	var st fileState
	if err := yaml.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	sess := Session{Name: st.Username, Role: roleOf(st.Role)}
	// A corrupt or half-written file counts as signed out.
	if sess.validate() == nil {
		_ = fsStore.Store.Login(sess)
		fsStore.token = st.Token
		fsStore.server = st.Server
	}
	return fsStore, nil
}

// Login stores the session with its token and writes it to disk.
func (f *FileStore) Login(sess Session, token, server string) error {
	if err := f.Store.Login(sess); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token, f.server = token, server

	b, err := yaml.Marshal(fileState{
		Username: sess.Name,
		Role:     string(sess.Role),
		Token:    token,
		Server:   server,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, b, 0o600); err != nil {
		return fmt.Errorf("write session %s: %w", f.path, err)
	}
	return nil
}

// Logout clears the session and removes the file.
func (f *FileStore) Logout() error {
	f.Store.Logout()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token, f.server = "", ""
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session %s: %w", f.path, err)
	}
	return nil
}

// Token returns the bearer token of the active session, if any.
func (f *FileStore) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// Server returns the address the token was issued by.
func (f *FileStore) Server() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.server
}

// Path is the location of the session file.
func (f *FileStore) Path() string { return f.path }
