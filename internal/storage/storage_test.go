package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/vishwaskamath/sankalp-cli/internal/models"
)

func newStores(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()
	stores := map[string]Provider{
		"json":   NewStore(filepath.Join(dir, "sankalp.json")),
		"sqlite": NewStore(filepath.Join(dir, "sankalp.db")),
	}
	for name, s := range stores {
		if err := s.Init(); err != nil {
			t.Fatalf("%s Init: %v", name, err)
		}
		if err := s.Load(); err != nil {
			t.Fatalf("%s Load: %v", name, err)
		}
		t.Cleanup(func() { s.Close() })
	}
	return stores
}

func TestNewStoreSelectsBackend(t *testing.T) {
	if _, ok := NewStore("/tmp/x.json").(*JSONStore); !ok {
		t.Error("expected JSON backend for .json path")
	}
	if _, ok := NewStore("/tmp/x.db").(*SQLiteStore); !ok {
		t.Error("expected SQLite backend for .db path")
	}
}

func TestUserRoundTrip(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.GetUser(); !errors.Is(err, ErrNoSession) {
				t.Fatalf("GetUser on fresh store = %v, want ErrNoSession", err)
			}

			want := models.User{ID: "u1", Username: "vishwas", Email: "v@example.com"}
			if err := s.SaveUser(want); err != nil {
				t.Fatalf("SaveUser: %v", err)
			}
			got, err := s.GetUser()
			if err != nil {
				t.Fatalf("GetUser: %v", err)
			}
			if got != want {
				t.Errorf("GetUser = %+v, want %+v", got, want)
			}

			if err := s.ClearUser(); err != nil {
				t.Fatalf("ClearUser: %v", err)
			}
			if _, err := s.GetUser(); !errors.Is(err, ErrNoSession) {
				t.Errorf("GetUser after ClearUser = %v, want ErrNoSession", err)
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			want := models.Settings{Endpoint: "http://example.com/graphql", Timezone: "Asia/Kolkata"}
			if err := s.SaveSettings(want); err != nil {
				t.Fatalf("SaveSettings: %v", err)
			}
			got, err := s.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings: %v", err)
			}
			if got != want {
				t.Errorf("GetSettings = %+v, want %+v", got, want)
			}
		})
	}
}

func TestMarkersAreScopedPerDay(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			set, err := s.Markers("2026-08-30")
			if err != nil {
				t.Fatalf("Markers on fresh store: %v", err)
			}
			if len(set) != 0 {
				t.Fatalf("fresh store markers = %v, want empty", set.Tokens())
			}

			set.Add("activity-a1")
			set.Add("habit-h1")
			if err := s.SaveMarkers("2026-08-30", set); err != nil {
				t.Fatalf("SaveMarkers: %v", err)
			}

			got, err := s.Markers("2026-08-30")
			if err != nil {
				t.Fatalf("Markers: %v", err)
			}
			if !got.Has("activity-a1") || !got.Has("habit-h1") {
				t.Errorf("markers for day = %v, missing tokens", got.Tokens())
			}

			// Day rollover: a different day key sees none of them.
			next, err := s.Markers("2026-08-31")
			if err != nil {
				t.Fatalf("Markers next day: %v", err)
			}
			if len(next) != 0 {
				t.Errorf("next day markers = %v, want empty", next.Tokens())
			}
		})
	}
}

func TestSaveMarkersReplacesDay(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.SaveMarkers("2026-08-30", NewMarkerSet("activity-a1", "activity-a2")); err != nil {
				t.Fatalf("SaveMarkers: %v", err)
			}
			if err := s.SaveMarkers("2026-08-30", NewMarkerSet("habit-h1")); err != nil {
				t.Fatalf("SaveMarkers replace: %v", err)
			}
			got, err := s.Markers("2026-08-30")
			if err != nil {
				t.Fatalf("Markers: %v", err)
			}
			tokens := got.Tokens()
			if len(tokens) != 1 || tokens[0] != "habit-h1" {
				t.Errorf("markers after replace = %v, want [habit-h1]", tokens)
			}
		})
	}
}

func TestMarkerSetTokensSorted(t *testing.T) {
	set := NewMarkerSet("habit-h2", "activity-a1", "habit-h1")
	got := set.Tokens()
	want := []string{"activity-a1", "habit-h1", "habit-h2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokens() = %v, want %v", got, want)
		}
	}
}

func TestJSONStoreRequiresInit(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "sankalp.json"))
	if err := s.Load(); err == nil {
		t.Error("Load on uninitialized store expected error, got nil")
	}
}
