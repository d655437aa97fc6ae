// Package storage is the durable client-side store: session identity,
// settings, and the day-scoped completed-today marker sets. The canonical
// activity and habit data lives behind the gateway; this store only remembers
// local state across process restarts.
package storage

import (
	"errors"
	"sort"
	"strings"

	"github.com/vishwaskamath/sankalp-cli/internal/models"
)

// ErrNoSession is returned when no user identity is stored.
var ErrNoSession = errors.New("no session stored")

// MarkerSet is the set of item tokens confirmed done for one calendar day.
type MarkerSet map[string]struct{}

// NewMarkerSet builds a set from tokens.
func NewMarkerSet(tokens ...string) MarkerSet {
	set := make(MarkerSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether the token is in the set.
func (m MarkerSet) Has(token string) bool {
	_, ok := m[token]
	return ok
}

// Add inserts the token into the set.
func (m MarkerSet) Add(token string) {
	m[token] = struct{}{}
}

// Tokens returns the tokens in sorted order.
func (m MarkerSet) Tokens() []string {
	tokens := make([]string, 0, len(m))
	for t := range m {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Session identity. GetUser returns ErrNoSession when nothing is stored.
	GetUser() (models.User, error)
	SaveUser(models.User) error
	ClearUser() error

	// Markers returns the completed-today marker set recorded for the given
	// day key. Marker sets are scoped per day and never mix, so the set
	// effectively resets when the calendar day rolls over.
	Markers(day string) (MarkerSet, error)
	SaveMarkers(day string, set MarkerSet) error

	// Utils
	GetConfigPath() string
}

// NewStore selects a backend by path: a .json suffix gets the JSON store,
// everything else SQLite.
func NewStore(path string) Provider {
	if strings.HasSuffix(path, ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}
