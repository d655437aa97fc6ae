package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/vishwaskamath/sankalp-cli/internal/logger"
	"github.com/vishwaskamath/sankalp-cli/internal/session"
)

type RegisterCmd struct {
	Username string `arg:"" help:"Username for the new account."`
	Email    string `arg:"" help:"Email address."`
	Password string `help:"Password. Prompted for when omitted."`
}

func (c *RegisterCmd) Run(ctx *Context) error {
	password := c.Password
	if password == "" {
		var err error
		password, err = promptPassword("Choose a password")
		if err != nil {
			return err
		}
	}

	user, err := ctx.Gateway.RegisterUser(context.Background(), c.Username, c.Email, password)
	if err != nil {
		return err
	}
	if err := ctx.Session.SignIn(user); err != nil {
		return err
	}

	fmt.Printf("Welcome, %s! You are registered and signed in.\n", user.Username)
	return nil
}

type LoginCmd struct {
	Email    string `arg:"" optional:"" help:"Email address. Omit to use saved credentials."`
	Password string `help:"Password. Prompted for when omitted."`
	Save     bool   `help:"Save credentials to the OS keyring for future logins."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	email, password := c.Email, c.Password

	if email == "" {
		creds, err := session.LoadCredentials()
		if err != nil {
			if errors.Is(err, session.ErrNoSavedLogin) {
				return fmt.Errorf("no saved login; run 'sankalp login <email>'")
			}
			return err
		}
		email, password = creds.Email, creds.Password
	}

	if password == "" {
		var err error
		password, err = promptPassword("Password")
		if err != nil {
			return err
		}
	}

	user, err := ctx.Gateway.LoginUser(context.Background(), email, password)
	if err != nil {
		return err
	}
	if err := ctx.Session.SignIn(user); err != nil {
		return err
	}

	if c.Save {
		creds := session.Credentials{Email: email, Password: password}
		if err := session.SaveCredentials(creds); err != nil {
			// Sign-in already succeeded; keyring trouble is not fatal.
			logger.Warn("failed to save credentials to keyring", "error", err)
			fmt.Println("Signed in, but saving credentials to the keyring failed.")
		} else {
			fmt.Println("Credentials saved to the OS keyring.")
		}
	}

	fmt.Printf("Welcome back, %s!\n", user.Username)
	return nil
}

type LogoutCmd struct {
	Forget bool `help:"Also remove saved credentials from the OS keyring."`
}

func (c *LogoutCmd) Run(ctx *Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	if err := ctx.Session.Logout(); err != nil {
		return err
	}

	if c.Forget {
		if err := session.DeleteCredentials(); err != nil && !errors.Is(err, session.ErrNoSavedLogin) {
			logger.Warn("failed to remove saved credentials", "error", err)
		}
	}

	fmt.Println("Signed out.")
	return nil
}

// promptPassword asks for a password on the terminal without echoing it.
func promptPassword(title string) (string, error) {
	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password cannot be empty")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return password, nil
}
