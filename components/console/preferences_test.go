package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceStoreDefaults(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	prefs, err := store.Preferences(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, prefs.PageSize)
	assert.Equal(t, RangeThisMonth, prefs.OverviewRange)
}

func TestPreferenceStoreRoundTrip(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	saved := Preferences{PageSize: 50, OverviewRange: RangeLastYear}
	require.NoError(t, store.SavePreferences(context.Background(), "a@b.com", saved))

	prefs, err := store.Preferences(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, saved, prefs)

	// Preferences are per admin.
	other, err := store.Preferences(context.Background(), "c@d.com")
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, other.PageSize)
}

func TestPreferenceStoreNormalizesPageSize(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	require.NoError(t, store.SavePreferences(context.Background(), "a@b.com", Preferences{PageSize: 37}))

	prefs, err := store.Preferences(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, prefs.PageSize)
}

func TestPreferenceStoreRequiresEmail(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	assert.Error(t, store.SavePreferences(context.Background(), "", Preferences{}))
}
