// Package schedule derives timeline grid bounds and non-working overlay zones
// from the configured work shifts.
package schedule

import (
	"sort"

	"prenota/internal/timeslot"
)

// Default grid bounds used when working hours are disabled or unconfigured.
const (
	DefaultStartHour = 7
	DefaultEndHour   = 20
)

// GridBounds is the visible hour range of a day timeline.
type GridBounds struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// Zone is a closed (non-bookable) region on the timeline. Offsets are minutes
// relative to GridBounds.StartHour * 60.
type Zone struct {
	StartOffset int `json:"start_offset"` // minutes from grid start
	Duration    int `json:"duration"`     // minutes
}

// ComputeGridBounds returns the visible hour bounds for the given shifts.
// Disabled or empty shifts fall back to the fixed default. Otherwise the grid
// opens one hour before the earliest shift (clamped to 0) and closes at the
// latest shift end rounded up to a whole hour (clamped to 24).
func ComputeGridBounds(shifts []timeslot.WorkShift, enabled bool) GridBounds {
	if !enabled || len(shifts) == 0 {
		return GridBounds{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
	}

	minStartHour := -1
	maxEndHour := -1
	for _, s := range shifts {
		start, err := s.StartMinutes()
		if err != nil {
			continue
		}
		end, err := s.EndMinutes()
		if err != nil {
			continue
		}

		startHour := start / 60
		endHour := end / 60
		if end%60 > 0 {
			endHour++
		}

		if minStartHour < 0 || startHour < minStartHour {
			minStartHour = startHour
		}
		if endHour > maxEndHour {
			maxEndHour = endHour
		}
	}

	if minStartHour < 0 {
		// No shift parsed.
		return GridBounds{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
	}

	startHour := minStartHour - 1
	if startHour < 0 {
		startHour = 0
	}
	if maxEndHour > 24 {
		maxEndHour = 24
	}
	return GridBounds{StartHour: startHour, EndHour: maxEndHour}
}

// ComputeClosedZones returns the closed regions of the grid: the gap before the
// earliest shift, the gaps between consecutive shifts (lunch breaks), and the
// gap after the latest shift. Zones with non-positive duration are omitted.
func ComputeClosedZones(shifts []timeslot.WorkShift, startHour, endHour int) []Zone {
	type span struct{ start, end int }

	spans := make([]span, 0, len(shifts))
	for _, s := range shifts {
		start, err := s.StartMinutes()
		if err != nil {
			continue
		}
		end, err := s.EndMinutes()
		if err != nil {
			continue
		}
		spans = append(spans, span{start: start, end: end})
	}
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	gridStart := startHour * 60
	gridEnd := endHour * 60

	var zones []Zone
	if gap := spans[0].start - gridStart; gap > 0 {
		zones = append(zones, Zone{StartOffset: 0, Duration: gap})
	}

	for i := 0; i < len(spans)-1; i++ {
		if gap := spans[i+1].start - spans[i].end; gap > 0 {
			zones = append(zones, Zone{
				StartOffset: spans[i].end - gridStart,
				Duration:    gap,
			})
		}
	}

	last := spans[len(spans)-1]
	if gap := gridEnd - last.end; gap > 0 {
		zones = append(zones, Zone{
			StartOffset: last.end - gridStart,
			Duration:    gap,
		})
	}

	return zones
}

// SlotBookable reports whether a slot of slotMinutes starting at startMinutes
// (since midnight) is entirely inside at least one shift. With working hours
// disabled every slot is bookable.
func SlotBookable(shifts []timeslot.WorkShift, enabled bool, startMinutes, slotMinutes int) bool {
	if !enabled {
		return true
	}
	for _, s := range shifts {
		if s.Contains(startMinutes, startMinutes+slotMinutes) {
			return true
		}
	}
	return false
}
