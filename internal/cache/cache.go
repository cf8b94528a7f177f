// Package cache keeps day timeline snapshots in redis so repeated calendar
// reads skip the database. A nil client degrades to pass-through.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"prenota/internal/models"
)

// DayCache caches the booking list of a single date.
type DayCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// New constructs a day cache. client may be nil and ttl may be zero; both
// disable caching.
func New(client *redis.Client, ttl time.Duration) *DayCache {
	return &DayCache{redis: client, ttl: ttl}
}

func dayKey(date string) string {
	return fmt.Sprintf("timeline:%s", date)
}

// Get returns the cached bookings for a date, or false on a miss.
func (c *DayCache) Get(ctx context.Context, date string) ([]models.Booking, bool) {
	if c.redis == nil || c.ttl <= 0 {
		return nil, false
	}
	val, err := c.redis.Get(ctx, dayKey(date)).Result()
	if err != nil {
		return nil, false
	}
	var bookings []models.Booking
	if err := json.Unmarshal([]byte(val), &bookings); err != nil {
		return nil, false
	}
	return bookings, true
}

// Set stores the bookings for a date.
func (c *DayCache) Set(ctx context.Context, date string, bookings []models.Booking) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, dayKey(date), data, c.ttl).Err()
}

// Invalidate drops the cached snapshot for a date. Called after any booking
// mutation on that date.
func (c *DayCache) Invalidate(ctx context.Context, date string) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, dayKey(date)).Err()
}
