// Package session holds the authenticated user identity for the lifetime of
// the process and persists it across restarts through the local store. The
// session is constructed once and passed explicitly to whatever needs it;
// nothing reads the identity out of ambient state.
package session

import (
	"errors"

	errs "github.com/vishwaskamath/sankalp-cli/internal/errors"
	"github.com/vishwaskamath/sankalp-cli/internal/logger"
	"github.com/vishwaskamath/sankalp-cli/internal/models"
	"github.com/vishwaskamath/sankalp-cli/internal/storage"
)

type Session struct {
	store    storage.Provider
	user     *models.User
	onLogout []func()
}

// Load restores the session from the local store. A missing identity is not
// an error; the session simply starts signed out.
func Load(store storage.Provider) (*Session, error) {
	s := &Session{store: store}

	user, err := store.GetUser()
	switch {
	case err == nil:
		s.user = &user
	case errors.Is(err, storage.ErrNoSession):
		// signed out
	default:
		return nil, err
	}

	return s, nil
}

// User returns the signed-in user, if any.
func (s *Session) User() (models.User, bool) {
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// UserID returns the signed-in user's id, or "" when signed out.
func (s *Session) UserID() string {
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// SignIn persists the identity under the stable session keys and makes it the
// current user.
func (s *Session) SignIn(user models.User) error {
	if user.ID == "" {
		return errs.Validationf("user is missing an id")
	}
	if err := s.store.SaveUser(user); err != nil {
		return err
	}
	s.user = &user
	logger.Info("signed in", "userId", user.ID, "username", user.Username)
	return nil
}

// OnLogout registers a hook to run when the session is cleared.
func (s *Session) OnLogout(fn func()) {
	s.onLogout = append(s.onLogout, fn)
}

// Logout clears the persisted identity and runs the registered hooks.
func (s *Session) Logout() error {
	if err := s.store.ClearUser(); err != nil {
		return err
	}
	s.user = nil
	for _, fn := range s.onLogout {
		fn()
	}
	logger.Info("signed out")
	return nil
}
