package cli

import (
	"context"
	"fmt"

	"github.com/vishwaskamath/sankalp-cli/internal/models"
)

type HabitAddCmd struct {
	Text       string `arg:"" help:"Habit description."`
	Recurrence string `help:"How often to repeat: daily, weekly, or monthly." default:"daily" enum:"daily,weekly,monthly"`
	Goal       int    `help:"How many times you want to complete this habit." default:"1"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}

	tr := ctx.NewTracker()
	habit, err := tr.AddHabit(context.Background(), c.Text, models.RecurrenceType(c.Recurrence), c.Goal)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s habit: %s (goal: %d)\n", habit.Recurrence, habit.Text, habit.Goal)
	return nil
}
