package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-dashboard/internal/clock"
)

func TestChartCacheStoresEntry(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestChartCacheExpires(t *testing.T) {
	fake := clock.Fake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	cache := NewChartCacheWithClock(time.Minute, fake)
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	fake.Advance(2 * time.Minute)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestChartCacheDisabledWithZeroTTL(t *testing.T) {
	cache := NewChartCache(0)
	calls := 0
	for range 3 {
		_, err := cache.GetOrRender("key", func() (string, error) {
			calls++
			return "x", nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestSpecKeyDependsOnContent(t *testing.T) {
	a := ChartSpec{Kind: ChartBar, Title: "A", Series: []ChartSeries{{Name: "s", Values: []float64{1}}}}
	b := a
	b.Series = []ChartSeries{{Name: "s", Values: []float64{2}}}

	assert.Equal(t, specKey(a), specKey(a))
	assert.NotEqual(t, specKey(a), specKey(b))
}
