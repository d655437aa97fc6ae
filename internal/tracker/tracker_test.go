package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	errs "github.com/vishwaskamath/sankalp-cli/internal/errors"
	"github.com/vishwaskamath/sankalp-cli/internal/models"
	"github.com/vishwaskamath/sankalp-cli/internal/session"
	"github.com/vishwaskamath/sankalp-cli/internal/storage"
)

const testDay = "2026-08-30"

// fakeGateway serves canned data and counts calls so tests can assert which
// operations actually went out.
type fakeGateway struct {
	mu sync.Mutex

	activities []models.Activity
	habits     []models.Habit
	err        error

	listCalls   int
	addCalls    int
	toggleCalls int

	// toggleStarted/toggleRelease make a toggle block until the test says so.
	toggleStarted chan struct{}
	toggleRelease chan struct{}
}

func (f *fakeGateway) TodaysActivities(ctx context.Context, userID string) ([]models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Activity(nil), f.activities...), nil
}

func (f *fakeGateway) TodaysHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Habit(nil), f.habits...), nil
}

func (f *fakeGateway) AddActivity(ctx context.Context, text, userID string) (models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.err != nil {
		return models.Activity{}, f.err
	}
	return models.Activity{ID: "a-new", Text: text, Done: false, Date: testDay}, nil
}

func (f *fakeGateway) AddHabit(ctx context.Context, text string, recurrence models.RecurrenceType, goal int, userID string) (models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.err != nil {
		return models.Habit{}, f.err
	}
	return models.Habit{ID: "h-new", Text: text, Recurrence: recurrence, Goal: goal, CreatedDate: testDay}, nil
}

func (f *fakeGateway) ToggleActivityDone(ctx context.Context, activityID string) (models.Activity, error) {
	f.mu.Lock()
	f.toggleCalls++
	started, release := f.toggleStarted, f.toggleRelease
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Activity{}, f.err
	}
	for _, a := range f.activities {
		if a.ID == activityID {
			a.Done = !a.Done
			return a, nil
		}
	}
	return models.Activity{}, errors.New("no such activity")
}

func (f *fakeGateway) ToggleHabitDone(ctx context.Context, habitID string) (models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggleCalls++
	if f.err != nil {
		return models.Habit{}, f.err
	}
	for _, h := range f.habits {
		if h.ID == habitID {
			h.Completions = append(append([]models.Completion(nil), h.Completions...),
				models.Completion{ID: "c-new", Date: testDay})
			return h, nil
		}
	}
	return models.Habit{}, errors.New("no such habit")
}

func newTracker(t *testing.T, gw *fakeGateway) (*Tracker, storage.Provider) {
	t.Helper()
	store := storage.NewStore(filepath.Join(t.TempDir(), "sankalp.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sess, err := session.Load(store)
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	if err := sess.SignIn(models.User{ID: "u1", Username: "vishwas"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	return New(gw, store, sess, testDay), store
}

func TestLoadTodayReplacesState(t *testing.T) {
	gw := &fakeGateway{
		activities: []models.Activity{{ID: "a1", Text: "buy milk", Date: testDay}},
		habits: []models.Habit{
			{ID: "h1", Text: "meditate", Recurrence: models.RecurrenceDaily, Goal: 10, CreatedDate: "2026-08-01"},
		},
	}
	tr, _ := newTracker(t, gw)

	if err := tr.LoadToday(context.Background()); err != nil {
		t.Fatalf("LoadToday: %v", err)
	}

	items := tr.VisibleItems()
	if len(items) != 2 {
		t.Fatalf("VisibleItems = %d items, want 2", len(items))
	}
	if items[0].Kind != KindActivity || items[0].ID != "a1" {
		t.Errorf("first item = %+v, want activity a1", items[0])
	}
	if items[1].Kind != KindHabit || items[1].ID != "h1" {
		t.Errorf("second item = %+v, want habit h1", items[1])
	}
}

func TestLoadTodayFailurePreservesState(t *testing.T) {
	gw := &fakeGateway{
		activities: []models.Activity{{ID: "a1", Text: "buy milk", Date: testDay}},
	}
	tr, _ := newTracker(t, gw)
	if err := tr.LoadToday(context.Background()); err != nil {
		t.Fatalf("LoadToday: %v", err)
	}

	gw.mu.Lock()
	gw.err = errors.New("backend down")
	gw.mu.Unlock()

	if err := tr.LoadToday(context.Background()); err == nil {
		t.Fatal("LoadToday expected error")
	}
	if got := len(tr.VisibleItems()); got != 1 {
		t.Errorf("items after failed reload = %d, want previous state of 1", got)
	}
}

func TestLoadTodayRequiresSignIn(t *testing.T) {
	gw := &fakeGateway{}
	tr, store := newTracker(t, gw)

	sess, err := session.Load(store)
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	if err := sess.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	signedOut, err := session.Load(store)
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	tr = New(gw, store, signedOut, testDay)

	err = tr.LoadToday(context.Background())
	if !errs.IsValidation(err) {
		t.Errorf("LoadToday while signed out = %v, want validation error", err)
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	if gw.listCalls != 0 {
		t.Errorf("gateway hit %d times while signed out, want 0", gw.listCalls)
	}
}

func TestAddActivityValidatesBeforeNetwork(t *testing.T) {
	gw := &fakeGateway{}
	tr, _ := newTracker(t, gw)

	if _, err := tr.AddActivity(context.Background(), "   "); !errs.IsValidation(err) {
		t.Errorf("AddActivity(blank) = %v, want validation error", err)
	}
	if gw.addCalls != 0 {
		t.Errorf("gateway hit %d times for invalid add, want 0", gw.addCalls)
	}

	activity, err := tr.AddActivity(context.Background(), "  water plants  ")
	if err != nil {
		t.Fatalf("AddActivity: %v", err)
	}
	if activity.Text != "water plants" {
		t.Errorf("activity text = %q, want trimmed", activity.Text)
	}

	items := tr.VisibleItems()
	if len(items) != 1 || items[0].ID != "a-new" {
		t.Errorf("items after add = %+v, want the returned activity", items)
	}
}

func TestAddHabitValidation(t *testing.T) {
	gw := &fakeGateway{}
	tr, _ := newTracker(t, gw)

	tests := []struct {
		name       string
		text       string
		recurrence models.RecurrenceType
		goal       int
	}{
		{"empty text", "", models.RecurrenceDaily, 5},
		{"unknown recurrence", "read", models.RecurrenceType("yearly"), 5},
		{"zero goal", "read", models.RecurrenceDaily, 0},
		{"negative goal", "read", models.RecurrenceDaily, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.AddHabit(context.Background(), tt.text, tt.recurrence, tt.goal)
			if !errs.IsValidation(err) {
				t.Errorf("AddHabit = %v, want validation error", err)
			}
		})
	}
	if gw.addCalls != 0 {
		t.Errorf("gateway hit %d times for invalid habits, want 0", gw.addCalls)
	}

	if _, err := tr.AddHabit(context.Background(), "read", models.RecurrenceWeekly, 4); err != nil {
		t.Fatalf("AddHabit valid: %v", err)
	}
	if gw.addCalls != 1 {
		t.Errorf("gateway add calls = %d, want 1", gw.addCalls)
	}
}

func TestToggleActivityIsIdempotentPerDay(t *testing.T) {
	gw := &fakeGateway{
		activities: []models.Activity{{ID: "a1", Text: "buy milk", Date: testDay}},
	}
	tr, store := newTracker(t, gw)
	if err := tr.LoadToday(context.Background()); err != nil {
		t.Fatalf("LoadToday: %v", err)
	}

	updated, err := tr.ToggleActivity(context.Background(), "a1")
	if err != nil {
		t.Fatalf("ToggleActivity: %v", err)
	}
	if !updated.Done {
		t.Error("toggled activity not done")
	}
	if !tr.CompletedToday("activity-a1") {
		t.Error("activity not in the completed-today set")
	}

	// Second toggle short-circuits without another call.
	_, err = tr.ToggleActivity(context.Background(), "a1")
	if !errors.Is(err, errs.ErrAlreadyCompleted) {
		t.Errorf("second toggle = %v, want ErrAlreadyCompleted", err)
	}
	if gw.toggleCalls != 1 {
		t.Errorf("gateway toggle calls = %d, want 1", gw.toggleCalls)
	}

	// The marker survives a store round trip.
	markers, err := store.Markers(testDay)
	if err != nil {
		t.Fatalf("Markers: %v", err)
	}
	if !markers.Has("activity-a1") {
		t.Error("marker not persisted")
	}
}

func TestToggleHabitRecordsCompletion(t *testing.T) {
	gw := &fakeGateway{
		habits: []models.Habit{
			{ID: "h1", Text: "meditate", Recurrence: models.RecurrenceDaily, Goal: 10,
				CreatedDate: "2026-08-01",
				Completions: []models.Completion{{ID: "c1", Date: "2026-08-29"}}},
		},
	}
	tr, _ := newTracker(t, gw)
	if err := tr.LoadToday(context.Background()); err != nil {
		t.Fatalf("LoadToday: %v", err)
	}

	updated, err := tr.ToggleHabit(context.Background(), "h1")
	if err != nil {
		t.Fatalf("ToggleHabit: %v", err)
	}
	if !updated.CompletedOn(testDay) {
		t.Error("habit missing today's completion")
	}

	items := tr.VisibleItems()
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if !items[0].Done {
		t.Error("habit item not marked done")
	}
	if items[0].Progress.Streak != 2 {
		t.Errorf("streak = %d, want 2", items[0].Progress.Streak)
	}
	if items[0].Progress.Percent != 20 {
		t.Errorf("percent = %d, want 20", items[0].Progress.Percent)
	}

	_, err = tr.ToggleHabit(context.Background(), "h1")
	if !errors.Is(err, errs.ErrAlreadyCompleted) {
		t.Errorf("second toggle = %v, want ErrAlreadyCompleted", err)
	}
	if gw.toggleCalls != 1 {
		t.Errorf("gateway toggle calls = %d, want 1", gw.toggleCalls)
	}
}

func TestToggleUnknownItem(t *testing.T) {
	tr, _ := newTracker(t, &fakeGateway{})
	if _, err := tr.ToggleActivity(context.Background(), "ghost"); !errs.IsValidation(err) {
		t.Errorf("ToggleActivity(ghost) = %v, want validation error", err)
	}
	if _, err := tr.ToggleHabit(context.Background(), "ghost"); !errs.IsValidation(err) {
		t.Errorf("ToggleHabit(ghost) = %v, want validation error", err)
	}
}

func TestToggleInFlightGuard(t *testing.T) {
	gw := &fakeGateway{
		activities:    []models.Activity{{ID: "a1", Text: "buy milk", Date: testDay}},
		toggleStarted: make(chan struct{}),
		toggleRelease: make(chan struct{}),
	}
	tr, _ := newTracker(t, gw)
	if err := tr.LoadToday(context.Background()); err != nil {
		t.Fatalf("LoadToday: %v", err)
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := tr.ToggleActivity(context.Background(), "a1")
		firstDone <- err
	}()

	// Wait until the first toggle is blocked inside the gateway, then fire a
	// second one at the same item.
	<-gw.toggleStarted
	_, err := tr.ToggleActivity(context.Background(), "a1")
	if !errors.Is(err, errs.ErrToggleInFlight) {
		t.Errorf("overlapping toggle = %v, want ErrToggleInFlight", err)
	}

	close(gw.toggleRelease)
	if err := <-firstDone; err != nil {
		t.Fatalf("first toggle: %v", err)
	}

	gw.mu.Lock()
	calls := gw.toggleCalls
	gw.mu.Unlock()
	if calls != 1 {
		t.Errorf("gateway toggle calls = %d, want 1", calls)
	}
}

func TestToggleFailureLeavesStateUnchanged(t *testing.T) {
	gw := &fakeGateway{
		activities: []models.Activity{{ID: "a1", Text: "buy milk", Date: testDay}},
	}
	tr, _ := newTracker(t, gw)
	if err := tr.LoadToday(context.Background()); err != nil {
		t.Fatalf("LoadToday: %v", err)
	}

	gw.mu.Lock()
	gw.err = errors.New("backend down")
	gw.mu.Unlock()

	if _, err := tr.ToggleActivity(context.Background(), "a1"); err == nil {
		t.Fatal("ToggleActivity expected error")
	}
	items := tr.VisibleItems()
	if items[0].Done {
		t.Error("failed toggle flipped local state")
	}
	if tr.CompletedToday("activity-a1") {
		t.Error("failed toggle added a marker")
	}

	// The item is retryable once the backend recovers.
	gw.mu.Lock()
	gw.err = nil
	gw.mu.Unlock()
	if _, err := tr.ToggleActivity(context.Background(), "a1"); err != nil {
		t.Errorf("retry after failure: %v", err)
	}
}

func TestVisibleItemsFiltersHabitsByRecurrence(t *testing.T) {
	gw := &fakeGateway{
		habits: []models.Habit{
			{ID: "h1", Text: "daily", Recurrence: models.RecurrenceDaily, Goal: 1, CreatedDate: "2026-08-01"},
			{ID: "h2", Text: "monthly off-day", Recurrence: models.RecurrenceMonthly, Goal: 1, CreatedDate: "2026-08-15"},
			{ID: "h3", Text: "future", Recurrence: models.RecurrenceDaily, Goal: 1, CreatedDate: "2026-09-10"},
		},
	}
	tr, _ := newTracker(t, gw)
	if err := tr.LoadToday(context.Background()); err != nil {
		t.Fatalf("LoadToday: %v", err)
	}

	items := tr.VisibleItems()
	if len(items) != 1 {
		t.Fatalf("items = %d, want only the daily habit", len(items))
	}
	if items[0].ID != "h1" {
		t.Errorf("visible habit = %s, want h1", items[0].ID)
	}
}

func TestMarkersRestoredAcrossTrackers(t *testing.T) {
	gw := &fakeGateway{
		activities: []models.Activity{{ID: "a1", Text: "buy milk", Done: true, Date: testDay}},
	}
	tr, store := newTracker(t, gw)
	if err := store.SaveMarkers(testDay, storage.NewMarkerSet("activity-a1")); err != nil {
		t.Fatalf("SaveMarkers: %v", err)
	}

	sess, err := session.Load(store)
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	tr = New(gw, store, sess, testDay)
	if err := tr.LoadToday(context.Background()); err != nil {
		t.Fatalf("LoadToday: %v", err)
	}

	// Done on the backend and marked locally: the restart still short-circuits.
	_, err = tr.ToggleActivity(context.Background(), "a1")
	if !errors.Is(err, errs.ErrAlreadyCompleted) {
		t.Errorf("toggle after restart = %v, want ErrAlreadyCompleted", err)
	}
	if gw.toggleCalls != 0 {
		t.Errorf("gateway toggle calls = %d, want 0", gw.toggleCalls)
	}
}

func TestItemToken(t *testing.T) {
	a := Item{Kind: KindActivity, ID: "a1"}
	if got := a.Token(); got != "activity-a1" {
		t.Errorf("Token = %q, want activity-a1", got)
	}
	h := Item{Kind: KindHabit, ID: "h1"}
	if got := h.Token(); got != "habit-h1" {
		t.Errorf("Token = %q, want habit-h1", got)
	}
}
