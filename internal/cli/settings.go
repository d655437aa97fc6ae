package cli

import (
	"fmt"

	"github.com/vishwaskamath/sankalp-cli/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Set a setting."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	endpoint := settings.Endpoint
	if endpoint == "" {
		endpoint = ctx.Config.Endpoint + " (from environment)"
	}
	timezone := settings.Timezone
	if timezone == "" {
		timezone = "Local"
	}

	fmt.Printf("endpoint: %s\n", endpoint)
	fmt.Printf("timezone: %s\n", timezone)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name: endpoint or timezone." enum:"endpoint,timezone"`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	switch c.Key {
	case "endpoint":
		settings.Endpoint = c.Value
	case "timezone":
		if _, err := utils.LoadLocation(c.Value); err != nil {
			return fmt.Errorf("invalid timezone %q", c.Value)
		}
		settings.Timezone = c.Value
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}

	fmt.Printf("Set %s = %s\n", c.Key, c.Value)
	return nil
}
