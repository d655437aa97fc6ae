package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vishwaskamath/sankalp-cli/internal/cli"
	"github.com/vishwaskamath/sankalp-cli/internal/config"
	"github.com/vishwaskamath/sankalp-cli/internal/constants"
	errs "github.com/vishwaskamath/sankalp-cli/internal/errors"
	"github.com/vishwaskamath/sankalp-cli/internal/gateway"
	"github.com/vishwaskamath/sankalp-cli/internal/logger"
	"github.com/vishwaskamath/sankalp-cli/internal/session"
	"github.com/vishwaskamath/sankalp-cli/internal/storage"
	"github.com/vishwaskamath/sankalp-cli/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Debug   bool `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize the local store."`
	Register cli.RegisterCmd `cmd:"" help:"Create an account and sign in."`
	Login    cli.LoginCmd    `cmd:"" help:"Sign in."`
	Logout   cli.LogoutCmd   `cmd:"" help:"Sign out and clear the session."`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's activities and habits."`
	Done     cli.DoneCmd     `cmd:"" help:"Mark an activity or habit done for today."`
	Activity struct {
		Add cli.ActivityAddCmd `cmd:"" help:"Add a one-off activity for today."`
	} `cmd:"" help:"Manage activities."`
	Habit struct {
		Add cli.HabitAddCmd `cmd:"" help:"Create a recurring habit."`
	} `cmd:"" help:"Manage habits."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage client settings."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive tracker." default:"1"`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal habit and activity tracker for the sankalp backend"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	store := storage.NewStore(cfg.StorePath)
	appCtx := &cli.Context{
		Config: cfg,
		Store:  store,
	}

	// Load the store before running the command (init handles its own setup)
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			errs.Fatal(err)
		}
		defer store.Close()

		// Persisted settings override compiled defaults; the environment
		// overrides both.
		if settings, err := store.GetSettings(); err == nil {
			if os.Getenv("SANKALP_ENDPOINT") == "" && settings.Endpoint != "" {
				cfg.Endpoint = settings.Endpoint
			}
			if os.Getenv("SANKALP_TIMEZONE") == "" && settings.Timezone != "" {
				cfg.Timezone = settings.Timezone
			}
		}

		sess, err := session.Load(store)
		if err != nil {
			errs.Fatal(err)
		}
		appCtx.Session = sess

		today, err := utils.TodayInTimezone(cfg.Timezone)
		if err != nil {
			logger.Warn("invalid timezone, falling back to local time", "timezone", cfg.Timezone, "error", err)
			today = utils.Today()
		}
		appCtx.Today = today
	}

	appCtx.Gateway = gateway.New(cfg.Endpoint)

	errs.Fatal(ctx.Run(appCtx))
}
