package progress

import (
	"testing"

	"github.com/vishwaskamath/sankalp-cli/internal/models"
)

func habitWith(goal int, dates ...string) models.Habit {
	completions := make([]models.Completion, 0, len(dates))
	for i, d := range dates {
		completions = append(completions, models.Completion{ID: string(rune('a' + i)), Date: d})
	}
	return models.Habit{
		ID:          "h1",
		Text:        "read",
		Recurrence:  models.RecurrenceDaily,
		Goal:        goal,
		CreatedDate: "2026-08-01",
		Completions: completions,
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		habit       models.Habit
		wantPercent int
		wantStreak  int
		wantTotal   int
	}{
		{
			name:  "no completions",
			habit: habitWith(10),
		},
		{
			name:        "single completion",
			habit:       habitWith(4, "2026-08-30"),
			wantPercent: 25,
			wantStreak:  1,
			wantTotal:   1,
		},
		{
			name:        "three consecutive days",
			habit:       habitWith(10, "2026-08-28", "2026-08-29", "2026-08-30"),
			wantPercent: 30,
			wantStreak:  3,
			wantTotal:   3,
		},
		{
			name:        "gap resets streak",
			habit:       habitWith(10, "2026-08-25", "2026-08-26", "2026-08-30"),
			wantPercent: 30,
			wantStreak:  1,
			wantTotal:   3,
		},
		{
			name:        "streak counts run before gap",
			habit:       habitWith(10, "2026-08-20", "2026-08-28", "2026-08-29", "2026-08-30"),
			wantPercent: 40,
			wantStreak:  3,
			wantTotal:   4,
		},
		{
			name:        "unsorted completions",
			habit:       habitWith(10, "2026-08-30", "2026-08-28", "2026-08-29"),
			wantPercent: 30,
			wantStreak:  3,
			wantTotal:   3,
		},
		{
			name:        "percent past goal is not clamped",
			habit:       habitWith(2, "2026-08-28", "2026-08-29", "2026-08-30"),
			wantPercent: 150,
			wantStreak:  3,
			wantTotal:   3,
		},
		{
			name:        "percent rounds to nearest",
			habit:       habitWith(3, "2026-08-30"),
			wantPercent: 33,
			wantStreak:  1,
			wantTotal:   1,
		},
		{
			name:        "zero goal skips percent",
			habit:       habitWith(0, "2026-08-30"),
			wantPercent: 0,
			wantStreak:  1,
			wantTotal:   1,
		},
		{
			name:        "unparseable date ends the streak walk",
			habit:       habitWith(10, "someday", "2026-08-29", "2026-08-30"),
			wantPercent: 30,
			wantStreak:  1,
			wantTotal:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.habit)
			if got.Percent != tt.wantPercent {
				t.Errorf("Percent = %d, want %d", got.Percent, tt.wantPercent)
			}
			if got.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", got.Streak, tt.wantStreak)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", got.Total, tt.wantTotal)
			}
		})
	}
}
