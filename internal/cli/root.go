package cli

import (
	"fmt"

	"github.com/vishwaskamath/sankalp-cli/internal/config"
	"github.com/vishwaskamath/sankalp-cli/internal/gateway"
	"github.com/vishwaskamath/sankalp-cli/internal/models"
	"github.com/vishwaskamath/sankalp-cli/internal/session"
	"github.com/vishwaskamath/sankalp-cli/internal/storage"
	"github.com/vishwaskamath/sankalp-cli/internal/tracker"
)

type Context struct {
	Config  *config.Config
	Store   storage.Provider
	Gateway *gateway.Client
	Session *session.Session
	Today   string
}

// RequireUser returns the signed-in user or a friendly prompt to log in.
func (c *Context) RequireUser() (models.User, error) {
	user, ok := c.Session.User()
	if !ok {
		return models.User{}, fmt.Errorf("please register or log in first (try 'sankalp login')")
	}
	return user, nil
}

// NewTracker builds the view-model for today from the app context.
func (c *Context) NewTracker() *tracker.Tracker {
	return tracker.New(c.Gateway, c.Store, c.Session, c.Today)
}

// FormatItem renders one display item the way the today list prints it.
func FormatItem(item tracker.Item) string {
	status := "[ ]"
	if item.Done {
		status = "[x]"
	}
	if item.Kind == tracker.KindHabit {
		return fmt.Sprintf("%s %s (habit: %d%% complete, streak %d)",
			status, item.Text, item.Progress.Percent, item.Progress.Streak)
	}
	return fmt.Sprintf("%s %s", status, item.Text)
}
