package service

import (
	"context"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"
)

type DoctorService struct {
	doctors repository.Doctors
	appts   repository.Appointments
}

func NewDoctorService(doctors repository.Doctors, appts repository.Appointments) *DoctorService {
	return &DoctorService{doctors: doctors, appts: appts}
}

// List returns a filtered page of doctor profiles and the total match count.
func (s *DoctorService) List(ctx context.Context, f repository.DoctorFilter) ([]models.DoctorProfile, int, error) {
	return s.doctors.List(ctx, f)
}

// Get returns the profile for a doctor user, or ErrDoctorNotFound.
func (s *DoctorService) Get(ctx context.Context, userID int) (*models.DoctorProfile, error) {
	p, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrDoctorNotFound
	}
	return p, nil
}

// AvailableSlots returns the free hourly slots on the given day, i.e. the
// clinic grid minus the doctor's Pending/Confirmed appointments.
func (s *DoctorService) AvailableSlots(ctx context.Context, doctorUserID int, day time.Time) ([]time.Time, error) {
	if _, err := s.Get(ctx, doctorUserID); err != nil {
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	busy, err := s.appts.TakenSlots(ctx, doctorUserID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	return DaySlots(dayStart, busy, time.Now().UTC()), nil
}
