package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"

	"github.com/google/uuid"
)

// Domain errors for the booking lifecycle.
var (
	ErrMissingDateTime     = errors.New("appointment date and time are required")
	ErrBadDateTime         = errors.New("invalid date/time: use YYYY-MM-DD and HH:MM")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrSlotTaken           = errors.New("the requested slot is already booked")
	ErrSlotInPast          = errors.New("the requested slot is in the past")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrCancelCompleted     = errors.New("completed appointments cannot be cancelled")
	ErrNotPending          = errors.New("only pending appointments can be confirmed")
	ErrNotAuthorized       = errors.New("not allowed to modify this appointment")
)

const (
	layoutDate = "2006-01-02"
	layoutTime = "15:04"
)

type AppointmentService struct {
	appts repository.Appointments
	users repository.Users
}

func NewAppointmentService(appts repository.Appointments, users repository.Users) *AppointmentService {
	return &AppointmentService{appts: appts, users: users}
}

// Book validates date/time presence and format, checks the doctor and slot,
// and creates a Pending appointment.
func (s *AppointmentService) Book(ctx context.Context, p BookParams) (*models.Appointment, error) {
	if p.Date == "" || p.Time == "" {
		return nil, ErrMissingDateTime
	}
	scheduledAt, err := time.Parse(layoutDate+" "+layoutTime, p.Date+" "+p.Time)
	if err != nil {
		return nil, ErrBadDateTime
	}
	scheduledAt = scheduledAt.UTC()

	now := time.Now().UTC()
	if scheduledAt.Before(now) {
		return nil, ErrSlotInPast
	}

	doctor, err := s.users.GetByID(ctx, p.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || doctor.Role != models.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	// A slot is taken when any Pending/Confirmed appointment overlaps the
	// requested hour (half-open interval).
	taken, err := s.appts.TakenSlots(ctx, p.DoctorID, scheduledAt, scheduledAt.Add(SlotLength))
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, ErrSlotTaken
	}

	a := models.Appointment{
		ID:          uuid.NewString(),
		PatientID:   p.PatientID,
		DoctorID:    p.DoctorID,
		ScheduledAt: scheduledAt,
		Reason:      p.Reason,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns appointments matching the filter.
func (s *AppointmentService) List(ctx context.Context, f repository.AppointmentFilter) ([]models.Appointment, error) {
	if f.Status != "" && !models.IsKnownStatus(f.Status) {
		return nil, fmt.Errorf("unknown status %q", f.Status)
	}
	return s.appts.List(ctx, f)
}

// Get returns the appointment by ID, or ErrAppointmentNotFound.
func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

// Confirm moves a Pending appointment to Confirmed. Only the assigned doctor
// may confirm.
func (s *AppointmentService) Confirm(ctx context.Context, id string, doctorUserID int) (*models.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != doctorUserID {
		return nil, ErrNotAuthorized
	}
	if a.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	now := time.Now().UTC()
	if err := s.appts.UpdateStatus(ctx, id, models.StatusConfirmed, "", now); err != nil {
		return nil, err
	}
	a.Status = models.StatusConfirmed
	a.UpdatedAt = now
	return a, nil
}

// Cancel cancels an appointment. Completed appointments are refused;
// cancelling an already-cancelled appointment is a no-op. The caller must be
// the appointment's patient, its doctor, or an admin.
func (s *AppointmentService) Cancel(ctx context.Context, p CancelParams) (*models.Appointment, error) {
	a, err := s.Get(ctx, p.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !mayModify(a, p.UserID, p.Role) {
		return nil, ErrNotAuthorized
	}
	if a.Status == models.StatusCompleted {
		return nil, ErrCancelCompleted
	}
	if a.Status == models.StatusCancelled {
		return a, nil
	}

	now := time.Now().UTC()
	if err := s.appts.UpdateStatus(ctx, a.ID, models.StatusCancelled, p.Reason, now); err != nil {
		return nil, err
	}
	a.Status = models.StatusCancelled
	a.CancelReason = p.Reason
	a.UpdatedAt = now
	return a, nil
}

func mayModify(a *models.Appointment, userID int, role string) bool {
	if role == models.RoleAdmin {
		return true
	}
	return a.PatientID == userID || a.DoctorID == userID
}
