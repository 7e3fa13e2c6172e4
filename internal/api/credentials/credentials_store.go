package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// StorageKey is the fixed key the runtime override is persisted under.
const StorageKey = "concierge_api_key"

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)

// Store holds the single generation-service credential. Implementations are
// safe for concurrent use and Get is read on every generation call.
type Store interface {
	Get() string
	// Set trims raw; an empty value clears the credential.
	Set(raw string) error
	Exists() bool
}

type MemoryStore struct {
	mu    sync.RWMutex
	value string
}

func NewMemoryStore(seed string) *MemoryStore {
	return &MemoryStore{value: strings.TrimSpace(seed)}
}

func (s *MemoryStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *MemoryStore) Set(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = strings.TrimSpace(raw)
	return nil
}

func (s *MemoryStore) Exists() bool {
	return s.Get() != ""
}

// FileStore persists runtime overrides to a small YAML file. A persisted
// override wins over the configured seed at startup.
type FileStore struct {
	mu     sync.RWMutex
	value  string
	path   string
	v      *viper.Viper
	logger *slog.Logger
}

func NewFileStore(path, seed string, logger *slog.Logger) (*FileStore, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0o600)

	s := &FileStore{
		value:  strings.TrimSpace(seed),
		path:   path,
		v:      v,
		logger: logger.With(slog.String("component", "credential_store")),
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read credential file %s: %w", path, err)
		}
		return s, nil
	}
	if override := strings.TrimSpace(v.GetString(StorageKey)); override != "" {
		s.value = override
		s.logger.Info("Loaded persisted generation credential override", slog.String("path", path))
	}
	return s, nil
}

func (s *FileStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *FileStore) Exists() bool {
	return s.Get() != ""
}

func (s *FileStore) Set(raw string) error {
	value := strings.TrimSpace(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove credential file: %w", err)
		}
		s.v.Set(StorageKey, "")
		s.value = ""
		s.logger.Info("Generation credential cleared")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}
	s.v.Set(StorageKey, value)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	s.value = value
	s.logger.Info("Generation credential updated")
	return nil
}
