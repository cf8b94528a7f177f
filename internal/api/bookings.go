package api

import (
	"net/http"
	"strconv"

	"prenota/internal/metrics"
	"prenota/internal/models"
)

// BookingRequest is the body for creating or editing a booking.
type BookingRequest struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room"`
	Platform  string `json:"platform,omitempty"`
}

func (req *BookingRequest) toBooking() *models.Booking {
	return &models.Booking{
		UserID:    req.UserID,
		UserName:  req.UserName,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
		Platform:  req.Platform,
	}
}

// handleBookings creates a booking or lists a day's bookings.
// POST /api/bookings, GET /api/bookings?date=YYYY-MM-DD
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createBooking(w, r)
	case http.MethodGet:
		s.listBookings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTPRequest("create_booking")

	var req BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b, err := s.svc.Create(r.Context(), req.toBooking())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// listBookings lists a day's bookings, or a lifecycle queue via ?status=
// (the approval queue is ?status=pending).
func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTPRequest("list_bookings")

	date := r.URL.Query().Get("date")
	status := models.BookingStatus(r.URL.Query().Get("status"))

	var (
		bookings []models.Booking
		err      error
	)
	switch {
	case status != "":
		switch status {
		case models.StatusPending, models.StatusApproved, models.StatusRejected:
		default:
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
		bookings, err = s.svc.BookingsByStatus(r.Context(), status)
	case date != "":
		bookings, err = s.svc.DayBookings(r.Context(), date)
	default:
		writeError(w, http.StatusBadRequest, "date or status query parameter is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// handleBookingByID routes /api/bookings/{id} and /api/bookings/{id}/{action}.
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	id, action := bookingPath(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodPut:
		s.updateBooking(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		s.deleteBooking(w, r, id)
	case action == "approve" && r.Method == http.MethodPost:
		s.approveBooking(w, r, id)
	case action == "reject" && r.Method == http.MethodPost:
		s.rejectBooking(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) updateBooking(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTPRequest("update_booking")

	var req BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b := req.toBooking()
	b.ID = id
	updated, err := s.svc.Update(r.Context(), b)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *HTTPServer) deleteBooking(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTPRequest("delete_booking")

	if err := s.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ApproveRequest carries the mandatory technician assignment.
type ApproveRequest struct {
	Technician string `json:"technician"`
}

func (s *HTTPServer) approveBooking(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTPRequest("approve_booking")

	var req ApproveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.svc.Approve(r.Context(), id, req.Technician)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) rejectBooking(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTPRequest("reject_booking")

	b, err := s.svc.Reject(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
