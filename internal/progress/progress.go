// Package progress derives completion percentage and streaks from a habit's
// completion history.
package progress

import (
	"math"
	"sort"

	"github.com/vishwaskamath/sankalp-cli/internal/models"
	"github.com/vishwaskamath/sankalp-cli/internal/utils"
)

// Compute derives goal progress from the habit's completion history.
//
// Percent is round(total/goal*100) and is deliberately not clamped to 100.
// Streak counts consecutive calendar days with completions, walking backward
// from the most recent completion and stopping at the first gap that is not
// exactly one day. Duplicate same-day completions are not de-duplicated here;
// the toggle contract keeps completions one-per-day.
func Compute(habit models.Habit) models.Progress {
	total := len(habit.Completions)
	if total == 0 {
		return models.Progress{}
	}

	percent := 0
	if habit.Goal > 0 {
		percent = int(math.Round(float64(total) / float64(habit.Goal) * 100))
	}

	// Day keys are YYYY-MM-DD, so lexical order is chronological order.
	dates := make([]string, 0, total)
	for _, c := range habit.Completions {
		dates = append(dates, c.Date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	streak := 1
	for i := 1; i < len(dates); i++ {
		prev, errPrev := utils.ParseDay(dates[i-1])
		curr, errCurr := utils.ParseDay(dates[i])
		if errPrev != nil || errCurr != nil {
			break
		}
		if utils.DaysBetween(curr, prev) != 1 {
			break
		}
		streak++
	}

	return models.Progress{Percent: percent, Streak: streak, Total: total}
}
