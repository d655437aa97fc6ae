package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/vishwaskamath/sankalp-cli/internal/tracker"
)

type listItem struct {
	item tracker.Item
}

func (i listItem) Title() string {
	if i.item.Done {
		return "✓ " + i.item.Text
	}
	return "○ " + i.item.Text
}

func (i listItem) Description() string {
	if i.item.Kind == tracker.KindHabit {
		return fmt.Sprintf("habit • %d%% complete • streak %d",
			i.item.Progress.Percent, i.item.Progress.Streak)
	}
	if i.item.Done {
		return "done for today"
	}
	return "one-off activity"
}

func (i listItem) FilterValue() string { return i.item.Text }

func toListItems(items []tracker.Item) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, item := range items {
		out = append(out, listItem{item: item})
	}
	return out
}
