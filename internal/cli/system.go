package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vishwaskamath/sankalp-cli/internal/session"
	"github.com/vishwaskamath/sankalp-cli/internal/tui"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized local store at %s\n", ctx.Store.GetConfigPath())
	return nil
}

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	model := tui.NewModel(ctx.Gateway, ctx.Store, ctx.Session, ctx.Today)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("sankalp doctor")
	fmt.Println()

	fmt.Printf("store:    %s\n", ctx.Store.GetConfigPath())
	fmt.Printf("endpoint: %s\n", ctx.Config.Endpoint)
	fmt.Printf("today:    %s (timezone %s)\n", ctx.Today, ctx.Config.Timezone)

	if user, ok := ctx.Session.User(); ok {
		fmt.Printf("session:  signed in as %s <%s>\n", user.Username, user.Email)
	} else {
		fmt.Println("session:  signed out")
	}

	if session.KeyringAvailable() {
		fmt.Println("keyring:  available")
	} else {
		fmt.Println("keyring:  unavailable (saved logins will not work)")
	}

	return nil
}
