package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"medclinic/internal/models"

	"github.com/google/uuid"
)

type AppointmentSQLite struct {
	db *sql.DB
}

func NewAppointmentSQLite(db *sql.DB) *AppointmentSQLite { return &AppointmentSQLite{db: db} }

var _ Appointments = (*AppointmentSQLite)(nil)

const (
	insertAppointmentSQL = `
		INSERT INTO appointments (id, patient_id, doctor_id, scheduled_at, reason, status, cancel_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	selectAppointmentSQL = `
		SELECT id, patient_id, doctor_id, scheduled_at, reason, status, cancel_reason, created_at, updated_at
		FROM appointments`
	updateAppointmentStatusSQL = `
		UPDATE appointments SET status = ?, cancel_reason = ?, updated_at = ? WHERE id = ?`
	selectTakenSlotsSQL = `
		SELECT scheduled_at FROM appointments
		WHERE doctor_id = ? AND scheduled_at >= ? AND scheduled_at < ? AND status IN (?, ?)`
)

// Create inserts a new appointment. If ID or timestamps are empty, they're set.
func (r *AppointmentSQLite) Create(ctx context.Context, a models.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	} else {
		a.CreatedAt = a.CreatedAt.UTC()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	} else {
		a.UpdatedAt = a.UpdatedAt.UTC()
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}

	_, err := r.db.ExecContext(ctx, insertAppointmentSQL,
		a.ID, a.PatientID, a.DoctorID, a.ScheduledAt.UTC(), a.Reason,
		a.Status, a.CancelReason, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment %s: %w", a.ID, err)
	}
	return nil
}

// GetByID fetches an appointment by its identifier. Returns (nil, nil) if not found.
func (r *AppointmentSQLite) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	row := r.db.QueryRowContext(ctx, selectAppointmentSQL+` WHERE id = ?`, id)
	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select appointment %s: %w", id, err)
	}
	return a, nil
}

// List returns appointments matching the filter, ordered by scheduled time ASC.
func (r *AppointmentSQLite) List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	var (
		conds []string
		args  []any
	)

	if f.PatientID > 0 {
		conds = append(conds, "patient_id = ?")
		args = append(args, f.PatientID)
	}
	if f.DoctorID > 0 {
		conds = append(conds, "doctor_id = ?")
		args = append(args, f.DoctorID)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if !f.From.IsZero() {
		conds = append(conds, "scheduled_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "scheduled_at <= ?")
		args = append(args, f.To.UTC())
	}

	q := selectAppointmentSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY scheduled_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	out := make([]models.Appointment, 0, 16)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets a new status (and optional cancel reason) on an appointment.
func (r *AppointmentSQLite) UpdateStatus(ctx context.Context, id, status, cancelReason string, updatedAt time.Time) error {
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	} else {
		updatedAt = updatedAt.UTC()
	}
	res, err := r.db.ExecContext(ctx, updateAppointmentStatusSQL, status, cancelReason, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update status of appointment %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("appointment %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// TakenSlots returns the scheduled times of Pending/Confirmed appointments for
// a doctor within [from, to).
func (r *AppointmentSQLite) TakenSlots(ctx context.Context, doctorID int, from, to time.Time) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, selectTakenSlotsSQL,
		doctorID, from.UTC(), to.UTC(), models.StatusPending, models.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("taken slots for doctor %d: %w", doctorID, err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAppointment(s scanner) (*models.Appointment, error) {
	var (
		a                    models.Appointment
		reason, cancelReason sql.NullString
	)
	if err := s.Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.ScheduledAt,
		&reason, &a.Status, &cancelReason, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Reason = reason.String
	a.CancelReason = cancelReason.String
	a.ScheduledAt = a.ScheduledAt.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}
