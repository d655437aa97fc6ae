package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case stateLogin:
		content = lipgloss.JoinVertical(
			lipgloss.Left,
			headerStyle.Render("Sankalp · start your sankalp today!"),
			greetingStyle.Render("Sign in to your account (tab to register)"),
			m.form.View(),
		)
	case stateRegister:
		content = lipgloss.JoinVertical(
			lipgloss.Left,
			headerStyle.Render("Sankalp · start your sankalp today!"),
			greetingStyle.Render("Create an account (tab to sign in)"),
			m.form.View(),
		)
	case stateLoading:
		content = fmt.Sprintf("%s Loading today's items...", m.spin.View())
	case stateAddActivity, stateAddHabit:
		content = m.form.View()
	default:
		content = m.viewToday()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.viewStatus(),
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewToday() string {
	header := headerStyle.Render("Sankalp · Daily Activities")

	var welcome string
	if user, ok := m.sess.User(); ok {
		welcome = greetingStyle.Render(fmt.Sprintf("%s, %s! Ready to make progress on your goals today?",
			greetingForHour(time.Now().Hour()), user.Username))
	}

	var body string
	if len(m.list.Items()) == 0 {
		body = greetingStyle.Render("No activities or habits for today.\nPress 'a' to add an activity or 'h' to add a habit.")
	} else {
		body = m.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, welcome, body)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusOK {
		return statusStyle.Render(m.status)
	}
	return warningStyle.Render(m.status)
}

func greetingForHour(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
