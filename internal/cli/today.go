package cli

import (
	"context"
	"fmt"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}

	tr := ctx.NewTracker()
	if err := tr.LoadToday(context.Background()); err != nil {
		return err
	}

	items := tr.VisibleItems()
	fmt.Printf("Today (%s):\n\n", tr.Today())

	if len(items) == 0 {
		fmt.Println("No activities or habits for today.")
		fmt.Println("Use 'sankalp activity add' or 'sankalp habit add' to start tracking your day.")
		return nil
	}

	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
		fmt.Println(FormatItem(item))
	}

	fmt.Printf("\nCompleted: %d/%d\n", done, len(items))
	return nil
}
