package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/vishwaskamath/sankalp-cli/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS session (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS markers (
	day   TEXT NOT NULL,
	token TEXT NOT NULL,
	PRIMARY KEY (day, token)
);
`

// Session row keys. The serialized user object and the scalar user id are
// stored under separate keys so either can be read on its own.
const (
	sessionKeyUser   = "user"
	sessionKeyUserID = "userId"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		defaultSettings := models.Settings{
			Timezone: "Local",
		}
		if err := s.SaveSettings(defaultSettings); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'sankalp init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Schema statements are idempotent, so reopening an older store picks up
	// any tables added since it was created.
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	if s.db == nil {
		return models.Settings{}, fmt.Errorf("storage not loaded")
	}

	row := s.db.QueryRow(`SELECT value FROM settings WHERE key = 'settings'`)
	var value string
	if err := row.Scan(&value); err != nil {
		return models.Settings{}, err
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO settings (key, value) VALUES ('settings', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, string(value))
	return err
}

func (s *SQLiteStore) GetUser() (models.User, error) {
	if s.db == nil {
		return models.User{}, fmt.Errorf("storage not loaded")
	}

	row := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, sessionKeyUser)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNoSession
		}
		return models.User{}, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		return models.User{}, fmt.Errorf("failed to parse stored user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) SaveUser(user models.User) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	value, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, sessionKeyUser, string(value)); err != nil {
		return err
	}
	if _, err := tx.Exec(upsert, sessionKeyUserID, user.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) ClearUser() error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}
	_, err := s.db.Exec(`DELETE FROM session WHERE key IN (?, ?)`, sessionKeyUser, sessionKeyUserID)
	return err
}

func (s *SQLiteStore) Markers(day string) (MarkerSet, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	rows, err := s.db.Query(`SELECT token FROM markers WHERE day = ?`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := MarkerSet{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		set.Add(token)
	}
	return set, rows.Err()
}

func (s *SQLiteStore) SaveMarkers(day string, set MarkerSet) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM markers WHERE day = ?`, day); err != nil {
		return err
	}
	for _, token := range set.Tokens() {
		if _, err := tx.Exec(`INSERT INTO markers (day, token) VALUES (?, ?)`, day, token); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
