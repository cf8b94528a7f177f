package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prenota/internal/booking"
	"prenota/internal/config"
	"prenota/internal/events"
	"prenota/internal/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockStore) UpdateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, technician string) error {
	return m.Called(ctx, id, status, technician).Error(0)
}

func (m *mockStore) DeleteBooking(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockStore) ListBookingsByRoomDate(ctx context.Context, room, date string) ([]models.Booking, error) {
	args := m.Called(ctx, room, date)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockStore) ListBookingsByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockStore) ListBookingsByTechnicianDate(ctx context.Context, technician, date string) ([]models.Booking, error) {
	args := m.Called(ctx, technician, date)
	return args.Get(0).([]models.Booking), args.Error(1)
}

type mockBus struct {
	mock.Mock
}

func (m *mockBus) Publish(event events.Event) {
	m.Called(event)
}

var serviceNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestService(store *mockStore, bus *mockBus, settings config.ValidationSettings) *BookingService {
	logger := zerolog.New(io.Discard)
	validator := booking.NewValidator(func() time.Time { return serviceNow }, time.UTC)
	return NewBookingService(store, validator, bus, nil,
		func() config.ValidationSettings { return settings }, &logger)
}

func pendingBooking(id string) *models.Booking {
	return &models.Booking{
		ID:        id,
		UserID:    "u1",
		UserName:  "Mario Rossi",
		Date:      "2026-03-11",
		StartTime: "10:00",
		EndTime:   "11:00",
		Room:      "Sala A",
		Platform:  "Zoom",
		Status:    models.StatusPending,
	}
}

func TestCreate(t *testing.T) {
	store := new(mockStore)
	bus := new(mockBus)
	svc := newTestService(store, bus, config.ValidationSettings{})
	ctx := context.Background()

	store.On("ListBookingsByDate", ctx, "2026-03-11").Return([]models.Booking{}, nil).Once()
	store.On("CreateBooking", ctx, mock.Anything).Return(nil).Once()
	bus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.BookingCreated
	})).Once()

	b := pendingBooking("")
	created, err := svc.Create(ctx, b)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	store.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestCreateRejectedByValidation(t *testing.T) {
	store := new(mockStore)
	bus := new(mockBus)
	svc := newTestService(store, bus, config.ValidationSettings{})
	ctx := context.Background()

	existing := []models.Booking{*pendingBooking("other")}
	store.On("ListBookingsByDate", ctx, "2026-03-11").Return(existing, nil).Once()

	_, err := svc.Create(ctx, pendingBooking(""))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, booking.ReasonRoomConflict, verr.Result.Reason)

	// Nothing persisted, nothing published.
	store.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	bus.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestUpdateKeepsOwnSlot(t *testing.T) {
	store := new(mockStore)
	bus := new(mockBus)
	svc := newTestService(store, bus, config.ValidationSettings{})
	ctx := context.Background()

	current := pendingBooking("b1")
	store.On("GetBooking", ctx, "b1").Return(current, nil).Once()
	// The snapshot contains the booking being edited; exclusion makes the
	// overlap with itself a non-conflict.
	store.On("ListBookingsByDate", ctx, "2026-03-11").Return([]models.Booking{*current}, nil).Once()
	store.On("UpdateBooking", ctx, mock.Anything).Return(nil).Once()
	bus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.BookingUpdated
	})).Once()

	edited := pendingBooking("b1")
	edited.EndTime = "11:30"
	updated, err := svc.Update(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, "11:30", updated.EndTime)
	store.AssertExpectations(t)
}

func TestUpdateApprovedDropsToPending(t *testing.T) {
	store := new(mockStore)
	bus := new(mockBus)
	svc := newTestService(store, bus, config.ValidationSettings{})
	ctx := context.Background()

	current := pendingBooking("b1")
	current.Status = models.StatusApproved
	current.Technician = "Luca Bianchi"
	store.On("GetBooking", ctx, "b1").Return(current, nil).Once()
	store.On("ListBookingsByDate", ctx, "2026-03-11").Return([]models.Booking{*current}, nil).Once()
	store.On("UpdateBooking", ctx, mock.MatchedBy(func(b *models.Booking) bool {
		return b.Status == models.StatusPending && b.Technician == ""
	})).Return(nil).Once()
	bus.On("Publish", mock.Anything).Once()

	edited := pendingBooking("b1")
	edited.StartTime = "12:00"
	edited.EndTime = "13:00"
	_, err := svc.Update(ctx, edited)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestApprove(t *testing.T) {
	store := new(mockStore)
	bus := new(mockBus)
	svc := newTestService(store, bus, config.ValidationSettings{})
	ctx := context.Background()

	b := pendingBooking("b1")
	store.On("GetBooking", ctx, "b1").Return(b, nil).Once()
	store.On("ListBookingsByDate", ctx, "2026-03-11").Return([]models.Booking{*b}, nil).Once()
	store.On("ListBookingsByTechnicianDate", ctx, "Luca Bianchi", "2026-03-11").
		Return([]models.Booking{}, nil).Once()
	store.On("UpdateBookingStatus", ctx, "b1", models.StatusApproved, "Luca Bianchi").Return(nil).Once()
	bus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.BookingApproved && e.Booking.Technician == "Luca Bianchi"
	})).Once()

	result, err := svc.Approve(ctx, "b1", "Luca Bianchi")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, result.Booking.Status)
	assert.Empty(t, result.Warnings)
	store.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestApproveRequiresTechnician(t *testing.T) {
	store := new(mockStore)
	bus := new(mockBus)
	svc := newTestService(store, bus, config.ValidationSettings{})

	_, err := svc.Approve(context.Background(), "b1", "")
	assert.ErrorIs(t, err, ErrTechnicianRequired)
	// The check runs before any lookup.
	store.AssertNotCalled(t, "GetBooking", mock.Anything, mock.Anything)
}

func TestApproveBusyTechnicianWarns(t *testing.T) {
	store := new(mockStore)
	bus := new(mockBus)
	svc := newTestService(store, bus, config.ValidationSettings{})
	ctx := context.Background()

	b := pendingBooking("b1")
	other := pendingBooking("b2")
	other.Room = "Sala B"
	other.Status = models.StatusApproved
	other.Technician = "Luca Bianchi"

	store.On("GetBooking", ctx, "b1").Return(b, nil).Once()
	store.On("ListBookingsByDate", ctx, "2026-03-11").Return([]models.Booking{*b}, nil).Once()
	store.On("ListBookingsByTechnicianDate", ctx, "Luca Bianchi", "2026-03-11").
		Return([]models.Booking{*other}, nil).Once()
	store.On("UpdateBookingStatus", ctx, "b1", models.StatusApproved, "Luca Bianchi").Return(nil).Once()
	bus.On("Publish", mock.Anything).Once()

	result, err := svc.Approve(ctx, "b1", "Luca Bianchi")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Sala B")
}

func TestApproveGuards(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockBus), config.ValidationSettings{})
		store.On("GetBooking", mock.Anything, "missing").Return(nil, nil).Once()

		_, err := svc.Approve(context.Background(), "missing", "Luca Bianchi")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already decided", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockBus), config.ValidationSettings{})
		b := pendingBooking("b1")
		b.Status = models.StatusApproved
		store.On("GetBooking", mock.Anything, "b1").Return(b, nil).Once()

		_, err := svc.Approve(context.Background(), "b1", "Luca Bianchi")
		assert.ErrorIs(t, err, ErrNotPending)
	})
}

func TestApproveRevalidates(t *testing.T) {
	// A rule tightened after creation rejects the stale queue entry.
	store := new(mockStore)
	bus := new(mockBus)
	settings := config.ValidationSettings{MinDurationEnabled: true, MinDurationMinutes: 120}
	svc := newTestService(store, bus, settings)
	ctx := context.Background()

	b := pendingBooking("b1")
	store.On("GetBooking", ctx, "b1").Return(b, nil).Once()
	store.On("ListBookingsByDate", ctx, "2026-03-11").Return([]models.Booking{*b}, nil).Once()

	_, err := svc.Approve(ctx, "b1", "Luca Bianchi")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, booking.ReasonTooShort, verr.Result.Reason)
	store.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReject(t *testing.T) {
	store := new(mockStore)
	bus := new(mockBus)
	svc := newTestService(store, bus, config.ValidationSettings{})
	ctx := context.Background()

	b := pendingBooking("b1")
	store.On("GetBooking", ctx, "b1").Return(b, nil).Once()
	store.On("UpdateBookingStatus", ctx, "b1", models.StatusRejected, "").Return(nil).Once()
	bus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.BookingRejected
	})).Once()

	rejected, err := svc.Reject(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	store.AssertExpectations(t)
}
