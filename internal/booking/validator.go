// Package booking decides whether a proposed reservation may be committed.
package booking

import (
	"fmt"
	"time"

	"prenota/internal/config"
	"prenota/internal/models"
)

// Reason discriminates why a candidate booking was rejected.
type Reason string

const (
	ReasonIncompleteData      Reason = "incomplete_data"
	ReasonInvertedRange       Reason = "inverted_range"
	ReasonInPast              Reason = "in_past"
	ReasonInsufficientAdvance Reason = "insufficient_advance"
	ReasonTooShort            Reason = "too_short"
	ReasonTooLong             Reason = "too_long"
	ReasonOutsideWorkingHours Reason = "outside_working_hours"
	ReasonRoomConflict        Reason = "room_conflict"
	ReasonTechnicianRequired  Reason = "technician_required"
)

// Result is the outcome of validating a candidate booking. Rejections are
// values, not errors: the caller surfaces Message to the end user verbatim.
type Result struct {
	Valid   bool   `json:"valid"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

func reject(reason Reason, format string, args ...any) Result {
	return Result{Valid: false, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Validator applies the configured business rules to candidate bookings.
// It is a pure decision engine: the caller supplies the booking snapshot.
type Validator struct {
	now func() time.Time
	loc *time.Location
}

// NewValidator creates a validator. now may be nil for time.Now; loc may be
// nil for the local time zone.
func NewValidator(now func() time.Time, loc *time.Location) *Validator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Validator{now: now, loc: loc}
}

// Validate runs the rule chain over the candidate. Checks run in a fixed
// order and the first failure wins. existing is a read-only snapshot of all
// bookings; excludeID skips one booking in conflict detection (self, when
// re-validating an edit).
func (v *Validator) Validate(
	candidate *models.Booking,
	existing []models.Booking,
	settings config.ValidationSettings,
	excludeID string,
) Result {
	// 1. Completeness.
	if candidate.Date == "" || candidate.StartTime == "" || candidate.EndTime == "" || candidate.Room == "" {
		return reject(ReasonIncompleteData, "booking data is incomplete: date, start time, end time and room are required")
	}

	startMin, err := candidate.StartMinutes()
	if err != nil {
		return reject(ReasonIncompleteData, "booking start time is malformed: %v", err)
	}
	endMin, err := candidate.EndMinutes()
	if err != nil {
		return reject(ReasonIncompleteData, "booking end time is malformed: %v", err)
	}

	// 2. Range sanity.
	if endMin <= startMin {
		return reject(ReasonInvertedRange, "end time must be after start time")
	}

	// 3. No past bookings; always enforced, independent of settings.
	now := v.now()
	start, err := candidate.StartInstant(v.loc)
	if err != nil {
		return reject(ReasonIncompleteData, "booking date is malformed: %v", err)
	}
	if start.Before(now) {
		return reject(ReasonInPast, "bookings cannot be created or moved into the past")
	}

	// 4. Minimum advance notice.
	if settings.MinAdvanceEnabled {
		minAdvance := time.Duration(settings.MinAdvanceMinutes) * time.Minute
		if start.Sub(now) < minAdvance {
			return reject(ReasonInsufficientAdvance,
				"bookings must be made at least %d minutes in advance", settings.MinAdvanceMinutes)
		}
	}

	duration := endMin - startMin

	// 5. Minimum duration.
	if settings.MinDurationEnabled && duration < settings.MinDurationMinutes {
		return reject(ReasonTooShort,
			"minimum booking duration is %d minutes", settings.MinDurationMinutes)
	}

	// 6. Maximum duration.
	if settings.MaxDurationEnabled && duration > settings.MaxDurationMinutes {
		return reject(ReasonTooLong,
			"maximum booking duration is %d minutes", settings.MaxDurationMinutes)
	}

	// 7. Working-hours containment: the booking must fit entirely inside at
	// least one configured shift. A range crossing a break fails even when it
	// fits the outer bounds.
	if settings.WorkingHoursEnabled {
		inside := false
		for _, shift := range settings.WorkingHours {
			if shift.Contains(startMin, endMin) {
				inside = true
				break
			}
		}
		if !inside {
			return reject(ReasonOutsideWorkingHours,
				"bookings must fall within the configured working hours and cannot span a break")
		}
	}

	// 8. Conflict detection, always on. Rejected bookings free their slot;
	// pending ones still hold it.
	for i := range existing {
		other := &existing[i]
		if other.ID == excludeID || other.Room != candidate.Room || other.Date != candidate.Date {
			continue
		}
		if other.Status == models.StatusRejected {
			continue
		}
		oStart, err := other.StartMinutes()
		if err != nil {
			continue
		}
		oEnd, err := other.EndMinutes()
		if err != nil {
			continue
		}
		if startMin < oEnd && endMin > oStart {
			return reject(ReasonRoomConflict,
				"the room is already booked (or awaiting approval) from %s to %s",
				other.StartTime, other.EndTime)
		}
	}

	return Result{Valid: true}
}
