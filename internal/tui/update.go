package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	errs "github.com/vishwaskamath/sankalp-cli/internal/errors"
	"github.com/vishwaskamath/sankalp-cli/internal/models"
	"github.com/vishwaskamath/sankalp-cli/internal/tracker"
)

type todayLoadedMsg struct {
	err error
}

type itemToggledMsg struct {
	token string
	err   error
}

type itemAddedMsg struct {
	err error
}

type authMsg struct {
	user models.User
	save *LoginFormModel // non-nil when credentials should be saved on success
	err  error
}

func (m Model) loadTodayCmd() tea.Cmd {
	tr := m.tracker
	return func() tea.Msg {
		return todayLoadedMsg{err: tr.LoadToday(context.Background())}
	}
}

func (m Model) toggleCmd(item tracker.Item) tea.Cmd {
	tr := m.tracker
	return func() tea.Msg {
		var err error
		switch item.Kind {
		case tracker.KindActivity:
			_, err = tr.ToggleActivity(context.Background(), item.ID)
		case tracker.KindHabit:
			_, err = tr.ToggleHabit(context.Background(), item.ID)
		}
		return itemToggledMsg{token: item.Token(), err: err}
	}
}

func (m Model) addActivityCmd(text string) tea.Cmd {
	tr := m.tracker
	return func() tea.Msg {
		_, err := tr.AddActivity(context.Background(), text)
		return itemAddedMsg{err: err}
	}
}

func (m Model) addHabitCmd(fm HabitFormModel) tea.Cmd {
	tr := m.tracker
	return func() tea.Msg {
		goal, err := strconv.Atoi(strings.TrimSpace(fm.Goal))
		if err != nil {
			return itemAddedMsg{err: errs.Validationf("goal must be a number")}
		}
		_, err = tr.AddHabit(context.Background(), fm.Text, fm.Recurrence, goal)
		return itemAddedMsg{err: err}
	}
}

func (m Model) loginCmd(fm LoginFormModel) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		user, err := gw.LoginUser(context.Background(), fm.Email, fm.Password)
		msg := authMsg{user: user, err: err}
		if fm.Save {
			msg.save = &fm
		}
		return msg
	}
}

func (m Model) registerCmd(fm RegisterFormModel) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		user, err := gw.RegisterUser(context.Background(), fm.Username, fm.Email, fm.Password)
		return authMsg{user: user, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		frameW, frameH := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-frameW, msg.Height-frameH-4)
		return m, nil

	case todayLoadedMsg:
		if msg.err != nil {
			m.state = stateToday
			m.setStatus(errs.Format(msg.err), false)
			return m, nil
		}
		m.state = stateToday
		m.refreshList()
		m.clearStatus()
		return m, nil

	case itemToggledMsg:
		switch {
		case errors.Is(msg.err, errs.ErrAlreadyCompleted):
			m.setStatus("Already completed today ✓", false)
		case errors.Is(msg.err, errs.ErrToggleInFlight):
			// still waiting on the first toggle; nothing to do
		case msg.err != nil:
			m.setStatus(errs.Format(msg.err), false)
		default:
			m.setStatus("Nice, one more done!", true)
		}
		m.refreshList()
		return m, nil

	case itemAddedMsg:
		m.state = stateToday
		if msg.err != nil {
			m.setStatus(errs.Format(msg.err), false)
		} else {
			m.clearStatus()
		}
		m.refreshList()
		return m, nil

	case authMsg:
		if msg.err != nil {
			// Stay on the form so the user can retry.
			m.setStatus(errs.Format(msg.err), false)
			if m.form != nil {
				m.form.State = huh.StateNormal
			}
			return m, nil
		}
		if err := m.sess.SignIn(msg.user); err != nil {
			m.setStatus(errs.Format(err), false)
			return m, nil
		}
		if msg.save != nil {
			m.saveCredentials(*msg.save)
		}
		m.state = stateLoading
		m.clearStatus()
		return m, tea.Batch(m.spin.Tick, m.loadTodayCmd())
	}

	switch m.state {
	case stateLogin, stateRegister:
		return m.updateAuth(msg)
	case stateAddActivity, stateAddHabit:
		return m.updateAddForm(msg)
	case stateLoading:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	default:
		return m.updateToday(msg)
	}
}

func (m Model) updateToday(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(keyMsg, m.keys.Refresh):
			m.state = stateLoading
			return m, tea.Batch(m.spin.Tick, m.loadTodayCmd())
		case key.Matches(keyMsg, m.keys.Toggle):
			if item, ok := m.selectedItem(); ok {
				return m, m.toggleCmd(item)
			}
			return m, nil
		case key.Matches(keyMsg, m.keys.AddActivity):
			m.state = stateAddActivity
			m.activityForm = &ActivityFormModel{}
			m.form = NewActivityForm(m.activityForm)
			return m, m.form.Init()
		case key.Matches(keyMsg, m.keys.AddHabit):
			m.state = stateAddHabit
			m.habitForm = &HabitFormModel{Recurrence: models.RecurrenceDaily, Goal: "1"}
			m.form = NewHabitForm(m.habitForm)
			return m, m.form.Init()
		case key.Matches(keyMsg, m.keys.Logout):
			if err := m.sess.Logout(); err != nil {
				m.setStatus(errs.Format(err), false)
				return m, nil
			}
			m.state = stateLogin
			m.loginForm = &LoginFormModel{}
			m.form = NewLoginForm(m.loginForm)
			m.clearStatus()
			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = stateToday
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == stateAddActivity {
			return m, m.addActivityCmd(m.activityForm.Text)
		}
		return m, m.addHabitCmd(*m.habitForm)
	case huh.StateAborted:
		m.state = stateToday
		return m, nil
	}

	return m, cmd
}

func (m Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.Type == tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Register):
			// Flip between the login and register forms.
			if m.state == stateLogin {
				m.state = stateRegister
				m.registerForm = &RegisterFormModel{}
				m.form = NewRegisterForm(m.registerForm)
			} else {
				m.state = stateLogin
				m.loginForm = &LoginFormModel{}
				m.form = NewLoginForm(m.loginForm)
			}
			m.clearStatus()
			return m, m.form.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.state == stateLogin {
			return m, m.loginCmd(*m.loginForm)
		}
		return m, m.registerCmd(*m.registerForm)
	}

	return m, cmd
}

func (m *Model) setStatus(text string, ok bool) {
	m.status = text
	m.statusOK = ok
}

func (m *Model) clearStatus() {
	m.status = ""
}
