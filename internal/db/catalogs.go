package db

import (
	"context"
	"database/sql"

	"prenota/internal/models"
)

// ListRooms returns active rooms, alphabetically.
func (db *DB) ListRooms(ctx context.Context) ([]models.Room, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, capacity, is_active FROM rooms WHERE is_active = 1 ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var r models.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Capacity, &r.IsActive); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// GetRoomByName returns a room, nil when unknown.
func (db *DB) GetRoomByName(ctx context.Context, name string) (*models.Room, error) {
	var r models.Room
	err := db.QueryRowContext(ctx,
		"SELECT id, name, capacity, is_active FROM rooms WHERE name = ?", name,
	).Scan(&r.ID, &r.Name, &r.Capacity, &r.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// AddRoom inserts or reactivates a room.
func (db *DB) AddRoom(ctx context.Context, name string, capacity int) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO rooms (name, capacity, is_active) VALUES (?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET capacity = excluded.capacity, is_active = 1`,
		name, capacity)
	return err
}

// RemoveRoom deactivates a room; its bookings stay.
func (db *DB) RemoveRoom(ctx context.Context, name string) error {
	_, err := db.ExecContext(ctx, "UPDATE rooms SET is_active = 0 WHERE name = ?", name)
	return err
}

// ListTechnicians returns active technicians, alphabetically.
func (db *DB) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(specialization, ''), is_active
		FROM technicians WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var techs []models.Technician
	for rows.Next() {
		var t models.Technician
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.Specialization, &t.IsActive); err != nil {
			return nil, err
		}
		techs = append(techs, t)
	}
	return techs, rows.Err()
}

// GetTechnicianByName returns a technician, nil when unknown.
func (db *DB) GetTechnicianByName(ctx context.Context, name string) (*models.Technician, error) {
	var t models.Technician
	err := db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(specialization, ''), is_active
		FROM technicians WHERE name = ?`, name,
	).Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.Specialization, &t.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// AddTechnician inserts or reactivates a technician.
func (db *DB) AddTechnician(ctx context.Context, t models.Technician) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO technicians (name, email, phone, specialization, is_active) VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET
			email = excluded.email, phone = excluded.phone,
			specialization = excluded.specialization, is_active = 1`,
		t.Name, t.Email, t.Phone, t.Specialization)
	return err
}

// RemoveTechnician deactivates a technician.
func (db *DB) RemoveTechnician(ctx context.Context, name string) error {
	_, err := db.ExecContext(ctx, "UPDATE technicians SET is_active = 0 WHERE name = ?", name)
	return err
}

// ListPlatforms returns the conferencing platforms, alphabetically.
func (db *DB) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, COALESCE(icon, '') FROM platforms ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var platforms []models.Platform
	for rows.Next() {
		var p models.Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.Icon); err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

// AddPlatform inserts a platform if missing.
func (db *DB) AddPlatform(ctx context.Context, name, icon string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO platforms (name, icon) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET icon = excluded.icon`,
		name, icon)
	return err
}
