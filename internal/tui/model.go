// Package tui is the interactive terminal view of today's tracker. All state
// transitions happen on bubbletea's single update loop; gateway calls run as
// commands so one pending toggle never blocks the rest of the view, and
// responses arriving after quit are simply discarded with the program.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vishwaskamath/sankalp-cli/internal/logger"
	"github.com/vishwaskamath/sankalp-cli/internal/models"
	"github.com/vishwaskamath/sankalp-cli/internal/session"
	"github.com/vishwaskamath/sankalp-cli/internal/storage"
	"github.com/vishwaskamath/sankalp-cli/internal/tracker"
)

type sessionState int

const (
	stateLogin sessionState = iota
	stateRegister
	stateLoading
	stateToday
	stateAddActivity
	stateAddHabit
)

// authenticator is the slice of the gateway the auth forms need.
type authenticator interface {
	tracker.Gateway
	LoginUser(ctx context.Context, email, password string) (models.User, error)
	RegisterUser(ctx context.Context, username, email, password string) (models.User, error)
}

type Model struct {
	gw      authenticator
	store   storage.Provider
	sess    *session.Session
	tracker *tracker.Tracker

	state sessionState
	keys  KeyMap
	help  help.Model
	list  list.Model
	spin  spinner.Model

	form         *huh.Form
	loginForm    *LoginFormModel
	registerForm *RegisterFormModel
	activityForm *ActivityFormModel
	habitForm    *HabitFormModel

	status   string
	statusOK bool
	quitting bool
	width    int
	height   int
}

func NewModel(gw authenticator, store storage.Provider, sess *session.Session, today string) Model {
	tr := tracker.New(gw, store, sess, today)

	itemList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	itemList.Title = "Today · " + today
	itemList.SetShowHelp(false)
	itemList.SetShowStatusBar(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		gw:      gw,
		store:   store,
		sess:    sess,
		tracker: tr,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		list:    itemList,
		spin:    sp,
	}

	if _, ok := sess.User(); ok {
		m.state = stateLoading
	} else {
		m.state = stateLogin
		m.loginForm = &LoginFormModel{}
		m.form = NewLoginForm(m.loginForm)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	switch m.state {
	case stateLoading:
		return tea.Batch(m.spin.Tick, m.loadTodayCmd())
	case stateLogin:
		return m.form.Init()
	}
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case stateToday:
		return []key.Binding{m.keys.Toggle, m.keys.AddActivity, m.keys.AddHabit, m.keys.Refresh, m.keys.Quit}
	case stateLogin, stateRegister:
		return []key.Binding{m.keys.Register, m.keys.Quit}
	}
	return []key.Binding{m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Toggle},
		{m.keys.AddActivity, m.keys.AddHabit, m.keys.Refresh},
		{m.keys.Logout, m.keys.Help, m.keys.Quit},
	}
}

// refreshList rebuilds the display list from the view-model snapshot.
func (m *Model) refreshList() {
	m.list.SetItems(toListItems(m.tracker.VisibleItems()))
}

// selectedItem returns the highlighted display item, if any.
func (m *Model) selectedItem() (tracker.Item, bool) {
	if it, ok := m.list.SelectedItem().(listItem); ok {
		return it.item, true
	}
	return tracker.Item{}, false
}

// saveCredentials stores the login in the OS keyring after a successful
// sign-in. Keyring trouble never fails the session.
func (m *Model) saveCredentials(fm LoginFormModel) {
	creds := session.Credentials{Email: fm.Email, Password: fm.Password}
	if err := session.SaveCredentials(creds); err != nil {
		logger.Warn("failed to save credentials to keyring", "error", err)
	}
}
