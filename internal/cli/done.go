package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errs "github.com/vishwaskamath/sankalp-cli/internal/errors"
	"github.com/vishwaskamath/sankalp-cli/internal/tracker"
)

type DoneCmd struct {
	ID string `arg:"" help:"Item id, or a token like activity-<id> / habit-<id>."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}

	tr := ctx.NewTracker()
	if err := tr.LoadToday(context.Background()); err != nil {
		return err
	}

	kind, id := resolveItem(tr, c.ID)
	if kind == "" {
		return fmt.Errorf("no activity or habit %q in today's list", c.ID)
	}

	var text string
	var err error
	switch kind {
	case tracker.KindActivity:
		a, toggleErr := tr.ToggleActivity(context.Background(), id)
		text, err = a.Text, toggleErr
	case tracker.KindHabit:
		h, toggleErr := tr.ToggleHabit(context.Background(), id)
		text, err = h.Text, toggleErr
	}

	if errors.Is(err, errs.ErrAlreadyCompleted) {
		fmt.Printf("Already completed today: %s\n", text)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Done: %s\n", text)
	return nil
}

// resolveItem accepts either a marker token (activity-<id> / habit-<id>) or a
// bare id looked up across today's items.
func resolveItem(tr *tracker.Tracker, ref string) (tracker.ItemKind, string) {
	if id, ok := strings.CutPrefix(ref, string(tracker.KindActivity)+"-"); ok {
		return tracker.KindActivity, id
	}
	if id, ok := strings.CutPrefix(ref, string(tracker.KindHabit)+"-"); ok {
		return tracker.KindHabit, id
	}
	for _, item := range tr.VisibleItems() {
		if item.ID == ref {
			return item.Kind, item.ID
		}
	}
	return "", ""
}
