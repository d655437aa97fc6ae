package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vishwaskamath/sankalp-cli/internal/models"
)

type store struct {
	Version  int                 `json:"version"`
	Settings models.Settings     `json:"settings"`
	User     *models.User        `json:"user,omitempty"`
	UserID   string              `json:"userId,omitempty"`
	Markers  map[string][]string `json:"markers"` // day -> tokens
}

type JSONStore struct {
	path  string
	store *store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &store{
		Version: 1,
		Settings: models.Settings{
			Timezone: "Local",
		},
		Markers: make(map[string][]string),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'sankalp init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Markers == nil {
		s.store.Markers = make(map[string][]string)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if s.store == nil {
		return models.Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) GetUser() (models.User, error) {
	if s.store == nil {
		return models.User{}, fmt.Errorf("storage not loaded")
	}
	if s.store.User == nil {
		return models.User{}, ErrNoSession
	}
	return *s.store.User, nil
}

func (s *JSONStore) SaveUser(user models.User) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.User = &user
	s.store.UserID = user.ID
	return s.save()
}

func (s *JSONStore) ClearUser() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.User = nil
	s.store.UserID = ""
	return s.save()
}

func (s *JSONStore) Markers(day string) (MarkerSet, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return NewMarkerSet(s.store.Markers[day]...), nil
}

func (s *JSONStore) SaveMarkers(day string, set MarkerSet) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Markers[day] = set.Tokens()
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
