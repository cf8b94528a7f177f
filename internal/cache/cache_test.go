package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prenota/internal/models"
)

func testCache(t *testing.T) (*DayCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, time.Minute), mr
}

func TestDayCacheRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "2026-03-11")
	assert.False(t, ok)

	bookings := []models.Booking{
		{ID: "b1", Date: "2026-03-11", StartTime: "10:00", EndTime: "11:00", Room: "Sala A", Status: models.StatusPending},
	}
	c.Set(ctx, "2026-03-11", bookings)

	got, ok := c.Get(ctx, "2026-03-11")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].ID)

	// Other dates are independent keys.
	_, ok = c.Get(ctx, "2026-03-12")
	assert.False(t, ok)
}

func TestDayCacheInvalidate(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	c.Set(ctx, "2026-03-11", []models.Booking{{ID: "b1"}})
	c.Invalidate(ctx, "2026-03-11")

	_, ok := c.Get(ctx, "2026-03-11")
	assert.False(t, ok)
}

func TestDayCacheExpiry(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	c.Set(ctx, "2026-03-11", []models.Booking{{ID: "b1"}})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "2026-03-11")
	assert.False(t, ok)
}

func TestDayCacheDisabled(t *testing.T) {
	c := New(nil, 0)
	ctx := context.Background()

	c.Set(ctx, "2026-03-11", []models.Booking{{ID: "b1"}})
	_, ok := c.Get(ctx, "2026-03-11")
	assert.False(t, ok)
	c.Invalidate(ctx, "2026-03-11")
}
