// Package tracker is the view-model for today's items. It owns the in-memory
// activity and habit lists, mediates toggles through the gateway, and derives
// the display list. Local state is only ever updated from gateway-returned
// objects, so it cannot drift from server truth.
package tracker

import (
	"context"
	"strings"
	"sync"

	errs "github.com/vishwaskamath/sankalp-cli/internal/errors"
	"github.com/vishwaskamath/sankalp-cli/internal/logger"
	"github.com/vishwaskamath/sankalp-cli/internal/models"
	"github.com/vishwaskamath/sankalp-cli/internal/progress"
	"github.com/vishwaskamath/sankalp-cli/internal/session"
	"github.com/vishwaskamath/sankalp-cli/internal/storage"
	"github.com/vishwaskamath/sankalp-cli/internal/utils"
)

// Gateway is the slice of the remote backend the tracker needs.
type Gateway interface {
	TodaysActivities(ctx context.Context, userID string) ([]models.Activity, error)
	TodaysHabits(ctx context.Context, userID string) ([]models.Habit, error)
	AddActivity(ctx context.Context, text, userID string) (models.Activity, error)
	AddHabit(ctx context.Context, text string, recurrence models.RecurrenceType, goal int, userID string) (models.Habit, error)
	ToggleActivityDone(ctx context.Context, activityID string) (models.Activity, error)
	ToggleHabitDone(ctx context.Context, habitID string) (models.Habit, error)
}

type ItemKind string

const (
	KindActivity ItemKind = "activity"
	KindHabit    ItemKind = "habit"
)

// Item is one display entry: an activity, or a habit instance projected onto
// today and annotated with its progress.
type Item struct {
	Kind     ItemKind
	ID       string
	Text     string
	Done     bool
	Progress models.Progress // zero value for activities
}

// Token returns the item's marker token ("activity-<id>" / "habit-<id>").
func (i Item) Token() string {
	return string(i.Kind) + "-" + i.ID
}

// Tracker composes the gateway, the day-scoped marker store, and the session
// into today's item list. The mutex makes it safe to drive from overlapping
// UI event handlers; the inFlight set guarantees at most one outstanding
// toggle per item.
type Tracker struct {
	gw    Gateway
	store storage.Provider
	sess  *session.Session

	// today is captured once at construction so the day key stays stable for
	// the whole interaction session.
	today string

	mu         sync.Mutex
	activities []models.Activity
	habits     []models.Habit
	completed  storage.MarkerSet
	inFlight   map[string]bool
}

// New builds a tracker for the given day key. The completed-today marker set
// is restored from the store; a read failure starts with an empty set rather
// than failing the whole view.
func New(gw Gateway, store storage.Provider, sess *session.Session, today string) *Tracker {
	completed, err := store.Markers(today)
	if err != nil {
		logger.Warn("failed to load completed-today markers", "day", today, "error", err)
		completed = storage.MarkerSet{}
	}

	return &Tracker{
		gw:        gw,
		store:     store,
		sess:      sess,
		today:     today,
		completed: completed,
		inFlight:  make(map[string]bool),
	}
}

// Today returns the day key the tracker was constructed for.
func (t *Tracker) Today() string {
	return t.today
}

// LoadToday fetches today's activities and habit set and replaces the local
// lists wholesale. On any failure the previous state is left unchanged.
func (t *Tracker) LoadToday(ctx context.Context) error {
	userID := t.sess.UserID()
	if userID == "" {
		return errs.Validationf("not signed in")
	}

	activities, err := t.gw.TodaysActivities(ctx, userID)
	if err != nil {
		logger.Error("failed to load today's activities", "error", err)
		return err
	}
	habits, err := t.gw.TodaysHabits(ctx, userID)
	if err != nil {
		logger.Error("failed to load today's habits", "error", err)
		return err
	}

	t.mu.Lock()
	t.activities = activities
	t.habits = habits
	t.mu.Unlock()
	return nil
}

// AddActivity creates a one-off activity for today and appends the gateway's
// returned version to the list. Empty text is rejected before any network
// call.
func (t *Tracker) AddActivity(ctx context.Context, text string) (models.Activity, error) {
	userID := t.sess.UserID()
	if userID == "" {
		return models.Activity{}, errs.Validationf("not signed in")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Activity{}, errs.Validationf("activity text cannot be empty")
	}

	activity, err := t.gw.AddActivity(ctx, text, userID)
	if err != nil {
		logger.Error("failed to add activity", "error", err)
		return models.Activity{}, err
	}

	t.mu.Lock()
	t.activities = append(t.activities, activity)
	t.mu.Unlock()
	return activity, nil
}

// AddHabit creates a recurring habit and appends the gateway's returned
// version. Empty text, unknown recurrence, and non-positive goals are
// rejected before any network call.
func (t *Tracker) AddHabit(ctx context.Context, text string, recurrence models.RecurrenceType, goal int) (models.Habit, error) {
	userID := t.sess.UserID()
	if userID == "" {
		return models.Habit{}, errs.Validationf("not signed in")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Habit{}, errs.Validationf("habit text cannot be empty")
	}
	if !models.KnownRecurrence(recurrence) {
		return models.Habit{}, errs.Validationf("unknown recurrence %q", recurrence)
	}
	if goal < 1 {
		return models.Habit{}, errs.Validationf("goal must be a positive number")
	}

	habit, err := t.gw.AddHabit(ctx, text, recurrence, goal, userID)
	if err != nil {
		logger.Error("failed to add habit", "error", err)
		return models.Habit{}, err
	}

	t.mu.Lock()
	t.habits = append(t.habits, habit)
	t.mu.Unlock()
	return habit, nil
}

// ToggleActivity marks an activity done through the gateway and replaces the
// local copy with the returned version. An activity already done and already
// marked completed-today short-circuits with ErrAlreadyCompleted and no
// network call.
func (t *Tracker) ToggleActivity(ctx context.Context, activityID string) (models.Activity, error) {
	token := string(KindActivity) + "-" + activityID

	t.mu.Lock()
	idx := t.findActivity(activityID)
	if idx < 0 {
		t.mu.Unlock()
		return models.Activity{}, errs.Validationf("unknown activity %q", activityID)
	}
	if t.activities[idx].Done && t.completed.Has(token) {
		current := t.activities[idx]
		t.mu.Unlock()
		return current, errs.ErrAlreadyCompleted
	}
	if t.inFlight[token] {
		t.mu.Unlock()
		return models.Activity{}, errs.ErrToggleInFlight
	}
	t.inFlight[token] = true
	t.mu.Unlock()

	updated, err := t.gw.ToggleActivityDone(ctx, activityID)

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, token)

	if err != nil {
		logger.Error("failed to toggle activity", "activityId", activityID, "error", err)
		return models.Activity{}, err
	}

	if idx = t.findActivity(activityID); idx >= 0 {
		t.activities[idx] = updated
	}
	if updated.Done {
		t.markCompleted(token)
	}
	return updated, nil
}

// ToggleHabit records a habit completion through the gateway and replaces the
// local copy with the returned version, including its updated completions. A
// habit already completed today and already marked locally short-circuits
// with ErrAlreadyCompleted and no network call.
func (t *Tracker) ToggleHabit(ctx context.Context, habitID string) (models.Habit, error) {
	token := string(KindHabit) + "-" + habitID

	t.mu.Lock()
	idx := t.findHabit(habitID)
	if idx < 0 {
		t.mu.Unlock()
		return models.Habit{}, errs.Validationf("unknown habit %q", habitID)
	}
	if t.habits[idx].CompletedOn(t.today) && t.completed.Has(token) {
		current := t.habits[idx]
		t.mu.Unlock()
		return current, errs.ErrAlreadyCompleted
	}
	if t.inFlight[token] {
		t.mu.Unlock()
		return models.Habit{}, errs.ErrToggleInFlight
	}
	t.inFlight[token] = true
	t.mu.Unlock()

	updated, err := t.gw.ToggleHabitDone(ctx, habitID)

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, token)

	if err != nil {
		logger.Error("failed to toggle habit", "habitId", habitID, "error", err)
		return models.Habit{}, err
	}

	if idx = t.findHabit(habitID); idx >= 0 {
		t.habits[idx] = updated
	}
	if updated.CompletedOn(t.today) {
		t.markCompleted(token)
	}
	return updated, nil
}

// VisibleItems derives the display list: all activities in insertion order,
// then the habits that surface today, each annotated with its progress. The
// result is a plain snapshot, recomputed on every call.
func (t *Tracker) VisibleItems() []Item {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := make([]Item, 0, len(t.activities)+len(t.habits))
	for _, a := range t.activities {
		items = append(items, Item{
			Kind: KindActivity,
			ID:   a.ID,
			Text: a.Text,
			Done: a.Done,
		})
	}
	for _, h := range t.habits {
		if !utils.ShouldShowHabit(h, t.today) {
			continue
		}
		items = append(items, Item{
			Kind:     KindHabit,
			ID:       h.ID,
			Text:     h.Text,
			Done:     h.CompletedOn(t.today),
			Progress: progress.Compute(h),
		})
	}
	return items
}

// CompletedToday reports whether the item token is in the local marker set.
func (t *Tracker) CompletedToday(token string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed.Has(token)
}

// markCompleted adds the token to the completed-today set and persists it.
// Persist failures are logged; the in-memory set is still authoritative for
// this process.
func (t *Tracker) markCompleted(token string) {
	t.completed.Add(token)
	if err := t.store.SaveMarkers(t.today, t.completed); err != nil {
		logger.Warn("failed to persist completed-today markers", "day", t.today, "error", err)
	}
}

func (t *Tracker) findActivity(id string) int {
	for i, a := range t.activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) findHabit(id string) int {
	for i, h := range t.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}
