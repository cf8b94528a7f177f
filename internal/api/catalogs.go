package api

import (
	"net/http"
	"time"

	"prenota/internal/export"
	"prenota/internal/metrics"
	"prenota/internal/models"
)

// handleRooms lists bookable rooms. GET /api/rooms
func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTPRequest("rooms")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rooms, err := s.catalog.ListRooms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// handleTechnicians lists assignable technicians. GET /api/technicians
func (s *HTTPServer) handleTechnicians(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTPRequest("technicians")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	techs, err := s.catalog.ListTechnicians(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if techs == nil {
		techs = []models.Technician{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"technicians": techs})
}

// handlePlatforms lists conferencing platforms. GET /api/platforms
func (s *HTTPServer) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTPRequest("platforms")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	platforms, err := s.catalog.ListPlatforms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if platforms == nil {
		platforms = []models.Platform{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"platforms": platforms})
}

// handleExport streams an Excel workbook with one sheet per day.
// GET /api/export?from=YYYY-MM-DD&to=YYYY-MM-DD
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTPRequest("export")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, err := time.Parse(models.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date; expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse(models.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date; expected YYYY-MM-DD")
		return
	}
	if from.After(to) || to.Sub(from) > 31*24*time.Hour {
		writeError(w, http.StatusBadRequest, "range must be ascending and at most 31 days")
		return
	}

	byDate := make(map[string][]models.Booking)
	var dates []string
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day.Format(models.DateFormat)
		bookings, err := s.svc.DayBookings(r.Context(), date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		byDate[date] = bookings
		dates = append(dates, date)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=bookings.xlsx")
	if err := export.WriteBookings(w, byDate, dates); err != nil {
		s.logger.Error().Err(err).Msg("export failed")
	}
}
