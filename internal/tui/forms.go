package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/vishwaskamath/sankalp-cli/internal/models"
)

type LoginFormModel struct {
	Email    string
	Password string
	Save     bool
}

type RegisterFormModel struct {
	Username string
	Email    string
	Password string
}

type ActivityFormModel struct {
	Text string
}

type HabitFormModel struct {
	Text       string
	Recurrence models.RecurrenceType
	Goal       string
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// NewLoginForm creates the sign-in form
func NewLoginForm(fm *LoginFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(notEmpty("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(notEmpty("password")),
			huh.NewConfirm().
				Title("Save login to OS keyring?").
				Value(&fm.Save),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewRegisterForm creates the new-account form
func NewRegisterForm(fm *RegisterFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&fm.Username).
				Validate(notEmpty("username")),
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(notEmpty("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(notEmpty("password")),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewActivityForm creates the add-activity form
func NewActivityForm(fm *ActivityFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What do you want to do today?").
				Value(&fm.Text).
				Validate(notEmpty("activity text")),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewHabitForm creates the add-habit form
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit description").
				Value(&fm.Text).
				Validate(notEmpty("habit text")),
			huh.NewSelect[models.RecurrenceType]().
				Title("Recurrence").
				Description("How often do you want to repeat this habit?").
				Options(
					huh.NewOption("Daily", models.RecurrenceDaily),
					huh.NewOption("Weekly", models.RecurrenceWeekly),
					huh.NewOption("Monthly", models.RecurrenceMonthly),
				).
				Value(&fm.Recurrence),
			huh.NewInput().
				Title("Goal").
				Description("How many times do you want to complete this habit?").
				Value(&fm.Goal).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if n < 1 {
						return fmt.Errorf("goal must be a positive number")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
