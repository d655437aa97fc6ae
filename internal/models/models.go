package models

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// KnownRecurrence reports whether r is one of the supported recurrence types.
func KnownRecurrence(r RecurrenceType) bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// User is the authenticated identity returned by the backend.
type User struct {
	ID       string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Activity is a one-off item scoped to a single calendar day.
type Activity struct {
	ID   string `json:"activityId"`
	Text string `json:"text"`
	Done bool   `json:"done"`
	Date string `json:"date"` // YYYY-MM-DD format
}

// Completion records one fulfillment of a habit on a specific calendar day.
type Completion struct {
	ID   string `json:"completionId"`
	Date string `json:"date"` // YYYY-MM-DD format
}

// Habit is a recurring practice with a goal count and completion history.
// The completions set only ever grows; the rest of the habit is immutable
// after creation.
type Habit struct {
	ID          string         `json:"habitId"`
	Text        string         `json:"text"`
	Recurrence  RecurrenceType `json:"recurrence"`
	Goal        int            `json:"goal"`
	CreatedDate string         `json:"createdDate"` // YYYY-MM-DD format
	Completions []Completion   `json:"completions"`
}

// CompletedOn reports whether the habit has a completion recorded for the
// given day key.
func (h Habit) CompletedOn(day string) bool {
	for _, c := range h.Completions {
		if c.Date == day {
			return true
		}
	}
	return false
}

// Progress is the derived goal progress of a habit. Percent is not clamped
// to 100; completions may outpace the goal.
type Progress struct {
	Percent int `json:"percent"`
	Streak  int `json:"streak"`
	Total   int `json:"total"`
}

// Settings are the persisted client preferences.
type Settings struct {
	Endpoint string `json:"endpoint"`
	Timezone string `json:"timezone"`
}
