package console

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() OverviewReport {
	return BuildOverviewReport(RangeThisMonth, mustUTC(2024, time.June, 15, 0),
		[]Parent{{ID: "u1", CreatedAt: mustUTC(2024, time.June, 1, 0)}},
		[]Feedback{{Rating: 5, Timestamp: mustUTC(2024, time.June, 2, 0)}},
		[]Log{{ParentID: "u1", Timestamp: mustUTC(2024, time.June, 3, 0)}},
	)
}

func TestChartCacheStoresAndExpires(t *testing.T) {
	cache := NewChartCache(50 * time.Millisecond)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<div>chart</div>", nil
	}

	html, err := cache.GetOrRender("k", render)
	require.NoError(t, err)
	assert.Equal(t, "<div>chart</div>", html)

	_, err = cache.GetOrRender("k", render)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	time.Sleep(60 * time.Millisecond)
	_, err = cache.GetOrRender("k", render)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestChartCacheDoesNotStoreFailures(t *testing.T) {
	cache := NewChartCache(time.Minute)
	boom := errors.New("render failed")
	_, err := cache.GetOrRender("k", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	html, err := cache.GetOrRender("k", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", html)
}

func TestChartCacheZeroTTLDisablesCaching(t *testing.T) {
	cache := NewChartCache(0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "x", nil
	}
	_, _ = cache.GetOrRender("k", render)
	_, _ = cache.GetOrRender("k", render)
	assert.Equal(t, 2, calls)
}

func TestChartRendererProducesMarkup(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(NewChartCache(0)))
	report := sampleReport()

	html, err := renderer.RatingDistribution(report)
	require.NoError(t, err)
	assert.Contains(t, html, "Feedback Distribution by Star")
	assert.Contains(t, html, "5★")

	html, err = renderer.UserGrowth(report)
	require.NoError(t, err)
	assert.Contains(t, html, "User Growth (Last 6 Months)")
	assert.Contains(t, html, "2024-6")

	html, err = renderer.ActiveUsers(report)
	require.NoError(t, err)
	assert.Contains(t, html, "Monthly Active Users (Last 6 Months)")
}

func TestChartKeyChangesWithData(t *testing.T) {
	a := sampleReport()
	b := sampleReport()
	b.FeedbackCount++
	assert.NotEqual(t, chartKey("ratings", a), chartKey("ratings", b))
	assert.NotEqual(t, chartKey("ratings", a), chartKey("growth", a))
}
