package api

import (
	"net/http"

	"prenota/internal/layout"
	"prenota/internal/metrics"
	"prenota/internal/models"
	"prenota/internal/schedule"
	"prenota/internal/timeslot"
)

// TimelineResponse is everything the calendar view needs to render one day:
// the visible hour range, the greyed-out closed zones and the positioned
// bookings.
type TimelineResponse struct {
	Date          string              `json:"date"`
	Bounds        schedule.GridBounds `json:"bounds"`
	ClosedZones   []schedule.Zone     `json:"closed_zones"`
	Bookings      []models.Booking    `json:"bookings"`
	Placements    []layout.Placement  `json:"placements"`
	RequiredWidth int                 `json:"required_width"`
	Slots         []Slot              `json:"slots"`
}

// Slot is one 30-minute cell of the booking grid.
type Slot struct {
	Start    string `json:"start"`
	Bookable bool   `json:"bookable"`
}

const slotMinutes = 30

func slotGrid(bounds schedule.GridBounds, shifts []timeslot.WorkShift, enabled bool) []Slot {
	var slots []Slot
	for m := bounds.StartHour * 60; m < bounds.EndHour*60; m += slotMinutes {
		slots = append(slots, Slot{
			Start:    timeslot.FormatClock(m),
			Bookable: schedule.SlotBookable(shifts, enabled, m, slotMinutes),
		})
	}
	return slots
}

// handleTimeline renders the day view.
// GET /api/timeline?date=YYYY-MM-DD&width=800
func (s *HTTPServer) handleTimeline(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTPRequest("timeline")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	cfg := s.cfg()
	width := queryInt(r, "width", 800)

	// An optional room filter narrows the view to a single room's column.
	var (
		bookings []models.Booking
		err      error
	)
	if room := r.URL.Query().Get("room"); room != "" {
		bookings, err = s.svc.RoomDayBookings(r.Context(), room, date)
	} else {
		bookings, err = s.svc.DayBookings(r.Context(), date)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("load timeline")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Every booking of the day is laid out, rejected ones included; status
	// only matters to the validator, the calendar shows the full history.
	intervals := make([]layout.Interval, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		start, err := b.StartMinutes()
		if err != nil {
			continue
		}
		end, err := b.EndMinutes()
		if err != nil {
			continue
		}
		intervals = append(intervals, layout.Interval{ID: b.ID, Start: start, End: end})
	}

	engine := layout.NewEngine(layout.Geometry{
		MinEventWidth: cfg.Layout.MinEventWidth,
		MaxEventWidth: cfg.Layout.MaxEventWidth,
		Gap:           cfg.Layout.Gap,
	})
	laid := engine.Layout(intervals, width)

	shifts := cfg.Validation.WorkingHours
	enabled := cfg.Validation.WorkingHoursEnabled
	bounds := schedule.ComputeGridBounds(shifts, enabled)

	var zones []schedule.Zone
	if enabled {
		zones = schedule.ComputeClosedZones(shifts, bounds.StartHour, bounds.EndHour)
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, TimelineResponse{
		Date:          date,
		Bounds:        bounds,
		ClosedZones:   zones,
		Bookings:      bookings,
		Placements:    laid.Placements,
		RequiredWidth: laid.RequiredWidth,
		Slots:         slotGrid(bounds, shifts, enabled),
	})
}

// handleSlotCheck reports whether a slot fits the working hours.
// GET /api/slots/check?start=HH:MM&duration=60
func (s *HTTPServer) handleSlotCheck(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTPRequest("slot_check")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, err := timeslot.ParseClock(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start; expected HH:MM")
		return
	}
	duration := queryInt(r, "duration", 60)
	if duration <= 0 {
		writeError(w, http.StatusBadRequest, "duration must be positive")
		return
	}

	cfg := s.cfg()
	bookable := schedule.SlotBookable(
		cfg.Validation.WorkingHours, cfg.Validation.WorkingHoursEnabled, start, duration)
	writeJSON(w, http.StatusOK, map[string]bool{"bookable": bookable})
}
