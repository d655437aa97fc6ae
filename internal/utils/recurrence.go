package utils

import (
	"github.com/vishwaskamath/sankalp-cli/internal/models"
)

// ShouldShowHabit determines if a habit instance belongs on the given day
// based on its recurrence pattern and creation date. This logic is shared
// between the tracker view-model and the CLI list commands to ensure
// consistency.
func ShouldShowHabit(habit models.Habit, today string) bool {
	created, err := ParseDay(habit.CreatedDate)
	if err != nil {
		return false
	}
	day, err := ParseDay(today)
	if err != nil {
		return false
	}

	// Habits never surface before their creation date.
	if day.Before(created) {
		return false
	}

	switch habit.Recurrence {
	case models.RecurrenceDaily:
		return true
	case models.RecurrenceWeekly:
		// A weekly habit surfaces every day once created: the elapsed week
		// count is only ever checked against zero, so it gates future-dated
		// habits and nothing else.
		// TODO: confirm with product whether weekly should instead surface
		// only on the weekly anniversary of the creation date.
		weeks := DaysBetween(created, day) / 7
		return weeks >= 0
	case models.RecurrenceMonthly:
		// Surface on the same day-of-month the habit was created on. Months
		// without that day (e.g. the 31st in February) skip the habit.
		return created.Day() == day.Day()
	default:
		// Unknown recurrence values fail closed.
		return false
	}
}
