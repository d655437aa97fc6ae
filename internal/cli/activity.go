package cli

import (
	"context"
	"fmt"
)

type ActivityAddCmd struct {
	Text string `arg:"" help:"What do you want to do today?"`
}

func (c *ActivityAddCmd) Run(ctx *Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}

	tr := ctx.NewTracker()
	activity, err := tr.AddActivity(context.Background(), c.Text)
	if err != nil {
		return err
	}

	fmt.Printf("Added activity for %s: %s\n", tr.Today(), activity.Text)
	return nil
}
