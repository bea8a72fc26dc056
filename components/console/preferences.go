package console

import (
	"context"
	"fmt"
	"sync"
)

// Preferences captures per-admin UI defaults.
type Preferences struct {
	PageSize      int
	OverviewRange RangePreset
}

// PreferenceStore persists per-admin preferences.
type PreferenceStore interface {
	Preferences(ctx context.Context, email string) (Preferences, error)
	SavePreferences(ctx context.Context, email string, prefs Preferences) error
}

// InMemoryPreferenceStore provides a concurrency-safe default store.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]Preferences
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{data: make(map[string]Preferences)}
}

// Preferences returns stored preferences or defaults.
func (s *InMemoryPreferenceStore) Preferences(_ context.Context, email string) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if prefs, ok := s.data[email]; ok {
		return normalizePreferences(prefs), nil
	}
	return normalizePreferences(Preferences{}), nil
}

// SavePreferences persists preferences for an admin.
func (s *InMemoryPreferenceStore) SavePreferences(_ context.Context, email string, prefs Preferences) error {
	if email == "" {
		return fmt.Errorf("console: preference store requires an email")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[email] = normalizePreferences(prefs)
	return nil
}

func normalizePreferences(prefs Preferences) Preferences {
	prefs.PageSize = normalizePageSize(prefs.PageSize)
	if prefs.OverviewRange == "" {
		prefs.OverviewRange = RangeThisMonth
	}
	return prefs
}
