package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/vishwaskamath/sankalp-cli/internal/constants"
)

var (
	// ErrNoSavedLogin is returned when no credentials are stored in the keyring
	ErrNoSavedLogin = errors.New("no saved login in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Credentials are a saved email/password pair for re-login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SaveCredentials stores login credentials in the OS keyring.
func SaveCredentials(creds Credentials) error {
	if creds.Email == "" || creds.Password == "" {
		return errors.New("credentials cannot be empty")
	}
	value, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if err := keyring.Set(constants.AppName, constants.KeyringAccount, string(value)); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// LoadCredentials retrieves saved login credentials from the OS keyring.
// Returns ErrNoSavedLogin if nothing is stored.
func LoadCredentials() (Credentials, error) {
	value, err := keyring.Get(constants.AppName, constants.KeyringAccount)
	if err != nil {
		if err == keyring.ErrNotFound {
			return Credentials{}, ErrNoSavedLogin
		}
		return Credentials{}, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse saved credentials: %w", err)
	}
	return creds, nil
}

// DeleteCredentials removes saved login credentials from the OS keyring.
func DeleteCredentials() error {
	err := keyring.Delete(constants.AppName, constants.KeyringAccount)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNoSavedLogin
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// KeyringAvailable checks if the OS keyring is usable on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func KeyringAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring responded but is empty, which is fine.
	return err == nil || err == keyring.ErrNotFound
}
