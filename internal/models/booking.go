package models

import (
	"time"

	"prenota/internal/timeslot"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending  BookingStatus = "pending"
	StatusApproved BookingStatus = "approved"
	StatusRejected BookingStatus = "rejected"
)

// DateFormat is the wire and storage format for booking dates.
const DateFormat = "2006-01-02"

// Booking is a reservation of a room for a time range on a single day.
// Times are wall-clock "HH:MM" strings; the date is "YYYY-MM-DD".
// The model itself permits overlapping bookings; the validator is the sole
// guard against conflicts at create/update time.
type Booking struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	UserName   string        `json:"user_name"`
	Date       string        `json:"date"`
	StartTime  string        `json:"start_time"`
	EndTime    string        `json:"end_time"`
	Room       string        `json:"room"`
	Platform   string        `json:"platform"`
	Status     BookingStatus `json:"status"`
	Technician string        `json:"technician,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// StartMinutes returns the start time as minutes since midnight.
func (b *Booking) StartMinutes() (int, error) {
	return timeslot.ParseClock(b.StartTime)
}

// EndMinutes returns the end time as minutes since midnight.
func (b *Booking) EndMinutes() (int, error) {
	return timeslot.ParseClock(b.EndTime)
}

// Duration returns the booking length. Zero for malformed or inverted times.
func (b *Booking) Duration() time.Duration {
	start, err := b.StartMinutes()
	if err != nil {
		return 0
	}
	end, err := b.EndMinutes()
	if err != nil {
		return 0
	}
	if end <= start {
		return 0
	}
	return time.Duration(end-start) * time.Minute
}

// StartInstant combines date and start time into a point in time in loc.
func (b *Booking) StartInstant(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateFormat, b.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	start, err := b.StartMinutes()
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(start) * time.Minute), nil
}

// OverlapsWith reports whether two bookings share a room, a date and any time
// (half-open: a booking ending exactly when another starts is not an overlap).
func (b *Booking) OverlapsWith(other *Booking) bool {
	if b.Room != other.Room || b.Date != other.Date {
		return false
	}
	aStart, err := b.StartMinutes()
	if err != nil {
		return false
	}
	aEnd, err := b.EndMinutes()
	if err != nil {
		return false
	}
	bStart, err := other.StartMinutes()
	if err != nil {
		return false
	}
	bEnd, err := other.EndMinutes()
	if err != nil {
		return false
	}
	return timeslot.Overlaps(aStart, aEnd, bStart, bEnd)
}

// IsActive reports whether the booking still occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status != StatusRejected
}

// Room is a bookable shared resource.
type Room struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity,omitempty"`
	IsActive bool   `json:"is_active"`
}

// Technician can be assigned to an approved booking.
type Technician struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	IsActive       bool   `json:"is_active"`
}

// Platform is a conferencing platform selectable for a booking.
type Platform struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}
