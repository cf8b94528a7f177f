package db

import (
	"context"
	"database/sql"
	"time"

	"prenota/internal/models"
)

const bookingColumns = `id, user_id, user_name, date, start_time, end_time,
	room, platform, status, technician, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.UserName, &b.Date, &b.StartTime, &b.EndTime,
		&b.Room, &b.Platform, &b.Status, &b.Technician, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBooking inserts a new booking.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := db.ExecContext(ctx,
		`INSERT INTO bookings (id, user_id, user_name, date, start_time, end_time,
			room, platform, status, technician, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.UserName, b.Date, b.StartTime, b.EndTime,
		b.Room, b.Platform, b.Status, b.Technician, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// GetBooking returns a booking by id, nil when not found.
func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := scanBooking(db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBooking rewrites a booking's mutable fields.
func (db *DB) UpdateBooking(ctx context.Context, b *models.Booking) error {
	b.UpdatedAt = time.Now()
	_, err := db.ExecContext(ctx,
		`UPDATE bookings SET user_name = ?, date = ?, start_time = ?, end_time = ?,
			room = ?, platform = ?, status = ?, technician = ?, updated_at = ?
		WHERE id = ?`,
		b.UserName, b.Date, b.StartTime, b.EndTime,
		b.Room, b.Platform, b.Status, b.Technician, b.UpdatedAt, b.ID,
	)
	return err
}

// UpdateBookingStatus changes only the status and technician assignment.
func (db *DB) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, technician string) error {
	_, err := db.ExecContext(ctx,
		"UPDATE bookings SET status = ?, technician = ?, updated_at = ? WHERE id = ?",
		status, technician, time.Now(), id,
	)
	return err
}

// DeleteBooking removes a booking.
func (db *DB) DeleteBooking(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	return err
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// ListBookingsByDate returns all bookings on a date, any status, ordered by
// start time.
func (db *DB) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE date = ? ORDER BY start_time, end_time DESC",
		date)
}

// ListBookingsByRoomDate returns a room's bookings on a date.
func (db *DB) ListBookingsByRoomDate(ctx context.Context, room, date string) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE room = ? AND date = ? ORDER BY start_time",
		room, date)
}

// ListBookingsByStatus returns bookings in a given status, newest first.
func (db *DB) ListBookingsByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE status = ? ORDER BY created_at DESC",
		status)
}

// ListBookingsByTechnicianDate returns a technician's active assignments on a
// date.
func (db *DB) ListBookingsByTechnicianDate(ctx context.Context, technician, date string) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		WHERE technician = ? AND date = ? AND status != ? ORDER BY start_time`,
		technician, date, models.StatusRejected)
}
