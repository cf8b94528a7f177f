// Package service implements the booking workflow: creation, editing and the
// administrator approval queue.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"prenota/internal/booking"
	"prenota/internal/cache"
	"prenota/internal/config"
	"prenota/internal/events"
	"prenota/internal/metrics"
	"prenota/internal/models"
)

var (
	// ErrNotFound is returned when the booking id is unknown.
	ErrNotFound = errors.New("booking not found")
	// ErrNotPending is returned for decisions over already-decided bookings.
	ErrNotPending = errors.New("booking is not pending")
	// ErrTechnicianRequired is returned when approving without assigning a
	// technician.
	ErrTechnicianRequired = errors.New("a technician must be assigned before approval")
)

// ValidationError wraps a validator rejection so transport layers can
// distinguish business rejections from infrastructure failures.
type ValidationError struct {
	Result booking.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Result.Reason, e.Result.Message)
}

// Store is the persistence surface the service needs.
type Store interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, technician string) error
	DeleteBooking(ctx context.Context, id string) error
	ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error)
	ListBookingsByRoomDate(ctx context.Context, room, date string) ([]models.Booking, error)
	ListBookingsByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	ListBookingsByTechnicianDate(ctx context.Context, technician, date string) ([]models.Booking, error)
}

// Publisher publishes domain events.
type Publisher interface {
	Publish(event events.Event)
}

// BookingService coordinates validation, persistence, caching and events.
type BookingService struct {
	store    Store
	validate *booking.Validator
	bus      Publisher
	cache    *cache.DayCache
	settings func() config.ValidationSettings
	logger   *zerolog.Logger
}

// NewBookingService wires the service. settings is read per call so config
// reloads apply immediately; cache may be built over a nil client.
func NewBookingService(
	store Store,
	validator *booking.Validator,
	bus Publisher,
	dayCache *cache.DayCache,
	settings func() config.ValidationSettings,
	logger *zerolog.Logger,
) *BookingService {
	if dayCache == nil {
		dayCache = cache.New(nil, 0)
	}
	return &BookingService{
		store:    store,
		validate: validator,
		bus:      bus,
		cache:    dayCache,
		settings: settings,
		logger:   logger,
	}
}

// DayBookings returns every booking on a date, cache first.
func (s *BookingService) DayBookings(ctx context.Context, date string) ([]models.Booking, error) {
	if bookings, ok := s.cache.Get(ctx, date); ok {
		return bookings, nil
	}
	bookings, err := s.store.ListBookingsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, date, bookings)
	return bookings, nil
}

// RoomDayBookings returns one room's bookings on a date.
func (s *BookingService) RoomDayBookings(ctx context.Context, room, date string) ([]models.Booking, error) {
	return s.store.ListBookingsByRoomDate(ctx, room, date)
}

// BookingsByStatus returns all bookings in a lifecycle state, newest first.
// The administrator approval queue is BookingsByStatus(pending).
func (s *BookingService) BookingsByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return s.store.ListBookingsByStatus(ctx, status)
}

// Create validates a new booking against the day's snapshot and persists it
// as pending.
func (s *BookingService) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	b.ID = uuid.NewString()
	b.Status = models.StatusPending
	b.Technician = ""

	if err := s.runValidation(ctx, b, ""); err != nil {
		return nil, err
	}

	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.cache.Invalidate(ctx, b.Date)
	metrics.IncBookingCreated()
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("room", b.Room).
		Str("date", b.Date).
		Str("range", b.StartTime+"-"+b.EndTime).
		Msg("booking created")

	s.bus.Publish(events.Event{Type: events.BookingCreated, Booking: *b})
	return b, nil
}

// Update edits a booking's time, room or platform. The edit is revalidated
// with the booking itself excluded from conflict detection, so keeping the
// original slot never conflicts with itself. An approved booking drops back
// to pending after an edit.
func (s *BookingService) Update(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	current, err := s.store.GetBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if current.Status == models.StatusRejected {
		return nil, ErrNotPending
	}

	if err := s.runValidation(ctx, b, b.ID); err != nil {
		return nil, err
	}

	b.UserID = current.UserID
	b.Status = models.StatusPending
	b.Technician = ""
	b.CreatedAt = current.CreatedAt
	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	s.cache.Invalidate(ctx, b.Date)
	if current.Date != b.Date {
		s.cache.Invalidate(ctx, current.Date)
	}
	s.logger.Info().Str("booking_id", b.ID).Msg("booking updated")

	s.bus.Publish(events.Event{Type: events.BookingUpdated, Booking: *b})
	return b, nil
}

// DecisionResult is the outcome of an approval, including non-blocking
// warnings such as the assigned technician already being busy.
type DecisionResult struct {
	Booking  *models.Booking `json:"booking"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Approve approves a pending booking. A technician assignment is mandatory
// and checked before anything else; the booking is then revalidated so stale
// queue entries cannot slip past rules that changed since creation. A busy
// technician is reported as a warning, not a rejection.
func (s *BookingService) Approve(ctx context.Context, id, technician string) (*DecisionResult, error) {
	if technician == "" {
		metrics.IncValidationRejected(string(booking.ReasonTechnicianRequired))
		return nil, ErrTechnicianRequired
	}

	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if b.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	if err := s.runValidation(ctx, b, b.ID); err != nil {
		return nil, err
	}

	result := &DecisionResult{}
	if warning, err := s.technicianBusy(ctx, technician, b); err != nil {
		return nil, err
	} else if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	if err := s.store.UpdateBookingStatus(ctx, id, models.StatusApproved, technician); err != nil {
		return nil, fmt.Errorf("approve booking: %w", err)
	}
	s.cache.Invalidate(ctx, b.Date)
	metrics.IncBookingDecision("approved")
	s.logger.Info().
		Str("booking_id", id).
		Str("technician", technician).
		Msg("booking approved")

	b.Status = models.StatusApproved
	b.Technician = technician
	result.Booking = b
	s.bus.Publish(events.Event{Type: events.BookingApproved, Booking: *b})
	return result, nil
}

// Reject rejects a pending booking, freeing its slot immediately.
func (s *BookingService) Reject(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if b.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	if err := s.store.UpdateBookingStatus(ctx, id, models.StatusRejected, b.Technician); err != nil {
		return nil, fmt.Errorf("reject booking: %w", err)
	}
	s.cache.Invalidate(ctx, b.Date)
	metrics.IncBookingDecision("rejected")
	s.logger.Info().Str("booking_id", id).Msg("booking rejected")

	b.Status = models.StatusRejected
	s.bus.Publish(events.Event{Type: events.BookingRejected, Booking: *b})
	return b, nil
}

// Delete removes a booking outright.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNotFound
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, b.Date)
	return nil
}

func (s *BookingService) runValidation(ctx context.Context, b *models.Booking, excludeID string) error {
	existing, err := s.store.ListBookingsByDate(ctx, b.Date)
	if err != nil {
		return fmt.Errorf("load day snapshot: %w", err)
	}
	result := s.validate.Validate(b, existing, s.settings(), excludeID)
	if !result.Valid {
		metrics.IncValidationRejected(string(result.Reason))
		s.logger.Debug().
			Str("reason", string(result.Reason)).
			Str("room", b.Room).
			Str("date", b.Date).
			Msg("booking rejected by validation")
		return &ValidationError{Result: result}
	}
	return nil
}

func (s *BookingService) technicianBusy(ctx context.Context, technician string, b *models.Booking) (string, error) {
	assigned, err := s.store.ListBookingsByTechnicianDate(ctx, technician, b.Date)
	if err != nil {
		return "", fmt.Errorf("load technician assignments: %w", err)
	}
	for i := range assigned {
		other := &assigned[i]
		if other.ID == b.ID || other.Room == b.Room {
			continue
		}
		if sameWindow(b, other) {
			return fmt.Sprintf("%s is already assigned to %s from %s to %s",
				technician, other.Room, other.StartTime, other.EndTime), nil
		}
	}
	return "", nil
}

func sameWindow(a, b *models.Booking) bool {
	aStart, err := a.StartMinutes()
	if err != nil {
		return false
	}
	aEnd, err := a.EndMinutes()
	if err != nil {
		return false
	}
	bStart, err := b.StartMinutes()
	if err != nil {
		return false
	}
	bEnd, err := b.EndMinutes()
	if err != nil {
		return false
	}
	return aStart < bEnd && aEnd > bStart
}
