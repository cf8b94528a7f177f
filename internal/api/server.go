// Package api exposes the booking service over HTTP JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"prenota/internal/config"
	"prenota/internal/models"
	"prenota/internal/service"
)

// Catalog lists the bookable resources.
type Catalog interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListTechnicians(ctx context.Context) ([]models.Technician, error)
	ListPlatforms(ctx context.Context) ([]models.Platform, error)
}

// HTTPServer serves the booking API.
type HTTPServer struct {
	svc     *service.BookingService
	catalog Catalog
	cfg     func() *config.Config
	logger  *zerolog.Logger
	server  *http.Server
}

// NewHTTPServer builds the server. cfg is read per request so config reloads
// apply without a restart.
func NewHTTPServer(port int, svc *service.BookingService, catalog Catalog, cfg func() *config.Config, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		svc:     svc,
		catalog: catalog,
		cfg:     cfg,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/bookings", s.handleBookings)
	mux.HandleFunc("/api/bookings/", s.handleBookingByID)
	mux.HandleFunc("/api/timeline", s.handleTimeline)
	mux.HandleFunc("/api/slots/check", s.handleSlotCheck)
	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/technicians", s.handleTechnicians)
	mux.HandleFunc("/api/platforms", s.handlePlatforms)
	mux.HandleFunc("/api/export", s.handleExport)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler returns the route table, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("booking API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps workflow errors to HTTP statuses. Validation
// rejections carry the full result so clients can show the reason.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, verr.Result)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotPending), errors.Is(err, service.ErrTechnicianRequired):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// bookingPath splits /api/bookings/{id}[/{action}].
func bookingPath(r *http.Request) (id, action string) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/bookings/")
	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action
}
