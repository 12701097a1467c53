// Package tokenstore persists the admin bearer token between runs.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Credentials is the persisted session: the bearer token plus the admin
// email kept for display.
type Credentials struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

// Empty reports whether no token is held
func (c Credentials) Empty() bool {
	return c.Token == ""
}

// Store is durable storage for a single set of credentials. Get on an
// empty store returns zero Credentials and no error.
type Store interface {
	Get() (Credentials, error)
	Set(Credentials) error
	Clear() error
}

// Memory is an in-process Store
type Memory struct {
	mu    sync.Mutex
	creds Credentials
}

// NewMemory returns a Memory store holding creds
func NewMemory(creds Credentials) *Memory {
	return &Memory{creds: creds}
}

func (m *Memory) Get() (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, nil
}

func (m *Memory) Set(c Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = c
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = Credentials{}
	return nil
}

// File stores credentials as JSON in a single 0600 file
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File store at path
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path
func (f *File) Path() string {
	return f.path
}

func (f *File) Get() (Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read session: %w", err)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse session: %w", err)
	}
	return c, nil
}

func (f *File) Set(c Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(f.path, data, 0600)
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
