// Package timeslot provides minute-precision wall-clock interval arithmetic
// for "HH:MM" times as used in schedules and bookings.
package timeslot

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatError reports a malformed "HH:MM" string.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time format: %q (expected HH:MM)", e.Input)
}

// ParseClock parses "HH:MM" into minutes since midnight (0..1439).
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, &FormatError{Input: s}
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &FormatError{Input: s}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &FormatError{Input: s}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, &FormatError{Input: s}
	}
	return hour*60 + minute, nil
}

// MustClock is ParseClock for inputs known to be well-formed (config defaults,
// tests). It panics on malformed input.
func MustClock(s string) int {
	m, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Half-open semantics: touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// WorkShift is a configured work interval during which bookings are allowed.
type WorkShift struct {
	Start string `yaml:"start" json:"start"` // "HH:MM"
	End   string `yaml:"end" json:"end"`     // "HH:MM"
}

// StartMinutes returns the shift start as minutes since midnight,
// or an error for a malformed value.
func (s WorkShift) StartMinutes() (int, error) {
	return ParseClock(s.Start)
}

// EndMinutes returns the shift end as minutes since midnight.
func (s WorkShift) EndMinutes() (int, error) {
	return ParseClock(s.End)
}

// Valid reports whether the shift parses and its start precedes its end.
// Shifts with start >= end are flagged as invalid by config warnings,
// never silently corrected.
func (s WorkShift) Valid() bool {
	start, err := ParseClock(s.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(s.End)
	if err != nil {
		return false
	}
	return start < end
}

// Contains reports whether [start, end) fits entirely inside the shift,
// including an end that touches the shift end exactly. Closed containment on
// both endpoints is intentional and differs from the half-open conflict test:
// a booking ending at shift close is still inside working hours.
func (s WorkShift) Contains(start, end int) bool {
	shiftStart, err := ParseClock(s.Start)
	if err != nil {
		return false
	}
	shiftEnd, err := ParseClock(s.End)
	if err != nil {
		return false
	}
	return start >= shiftStart && end <= shiftEnd
}
