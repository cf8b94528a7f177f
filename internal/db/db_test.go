package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prenota/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func newBooking(date, start, end, room string) *models.Booking {
	return &models.Booking{
		ID:        uuid.NewString(),
		UserID:    "u1",
		UserName:  "Mario Rossi",
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Room:      room,
		Platform:  "Zoom",
		Status:    models.StatusPending,
	}
}

func TestBookingCRUD(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	b := newBooking("2026-03-11", "10:00", "11:00", "Sala A")
	require.NoError(t, database.CreateBooking(ctx, b))

	got, err := database.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.Room, got.Room)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	got.EndTime = "12:00"
	require.NoError(t, database.UpdateBooking(ctx, got))
	got, err = database.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "12:00", got.EndTime)

	require.NoError(t, database.UpdateBookingStatus(ctx, b.ID, models.StatusApproved, "Luca Bianchi"))
	got, err = database.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "Luca Bianchi", got.Technician)

	require.NoError(t, database.DeleteBooking(ctx, b.ID))
	got, err = database.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListBookings(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	late := newBooking("2026-03-11", "14:00", "15:00", "Sala A")
	early := newBooking("2026-03-11", "09:00", "10:00", "Sala A")
	otherRoom := newBooking("2026-03-11", "09:30", "10:30", "Sala B")
	otherDay := newBooking("2026-03-12", "09:00", "10:00", "Sala A")
	for _, b := range []*models.Booking{late, early, otherRoom, otherDay} {
		require.NoError(t, database.CreateBooking(ctx, b))
	}

	day, err := database.ListBookingsByDate(ctx, "2026-03-11")
	require.NoError(t, err)
	require.Len(t, day, 3)
	assert.Equal(t, early.ID, day[0].ID)

	roomDay, err := database.ListBookingsByRoomDate(ctx, "Sala A", "2026-03-11")
	require.NoError(t, err)
	require.Len(t, roomDay, 2)

	require.NoError(t, database.UpdateBookingStatus(ctx, early.ID, models.StatusApproved, "Luca Bianchi"))
	pending, err := database.ListBookingsByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	assigned, err := database.ListBookingsByTechnicianDate(ctx, "Luca Bianchi", "2026-03-11")
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, early.ID, assigned[0].ID)
}

func TestCatalogs(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.AddRoom(ctx, "Sala A", 8))
	require.NoError(t, database.AddRoom(ctx, "Sala B", 4))
	require.NoError(t, database.RemoveRoom(ctx, "Sala B"))

	rooms, err := database.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Sala A", rooms[0].Name)
	assert.Equal(t, 8, rooms[0].Capacity)

	room, err := database.GetRoomByName(ctx, "Sala C")
	require.NoError(t, err)
	assert.Nil(t, room)

	require.NoError(t, database.AddTechnician(ctx, models.Technician{
		Name: "Luca Bianchi", Email: "luca@example.com", Specialization: "audio",
	}))
	techs, err := database.ListTechnicians(ctx)
	require.NoError(t, err)
	require.Len(t, techs, 1)
	assert.Equal(t, "audio", techs[0].Specialization)

	require.NoError(t, database.AddPlatform(ctx, "Zoom", "zoom.svg"))
	require.NoError(t, database.AddPlatform(ctx, "Meet", ""))
	platforms, err := database.ListPlatforms(ctx)
	require.NoError(t, err)
	require.Len(t, platforms, 2)
	assert.Equal(t, "Meet", platforms[0].Name)
}
