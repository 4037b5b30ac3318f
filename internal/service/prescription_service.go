package service

import (
	"context"
	"errors"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"
)

var (
	ErrNoConfirmedAppointment = errors.New("no confirmed appointment found for this patient and doctor; schedule or confirm an appointment first")
	ErrEmptyMedicationName    = errors.New("medication name is required")
)

type PrescriptionService struct {
	prescriptions repository.Prescriptions
	appts         repository.Appointments
	users         repository.Users
}

func NewPrescriptionService(prescriptions repository.Prescriptions, appts repository.Appointments, users repository.Users) *PrescriptionService {
	return &PrescriptionService{prescriptions: prescriptions, appts: appts, users: users}
}

// Create authors a prescription against the latest Confirmed appointment
// between the doctor and the patient. Medications are stored atomically with
// the prescription.
func (s *PrescriptionService) Create(ctx context.Context, p PrescriptionParams) (*models.Prescription, error) {
	confirmed, err := s.appts.List(ctx, repository.AppointmentFilter{
		DoctorID:  p.DoctorUserID,
		PatientID: p.PatientUserID,
		Status:    models.StatusConfirmed,
	})
	if err != nil {
		return nil, err
	}
	if len(confirmed) == 0 {
		return nil, ErrNoConfirmedAppointment
	}
	appt := confirmed[len(confirmed)-1] // newest by scheduled time

	meds := make([]models.Medication, 0, len(p.Medications))
	for _, m := range p.Medications {
		if m.Name == "" {
			return nil, ErrEmptyMedicationName
		}
		meds = append(meds, models.Medication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}

	pres := models.Prescription{
		AppointmentID: appt.ID,
		Notes:         p.Notes,
		CreatedAt:     time.Now().UTC(),
		Medications:   meds,
	}
	id, err := s.prescriptions.Create(ctx, pres)
	if err != nil {
		return nil, err
	}
	pres.ID = id
	for i := range pres.Medications {
		pres.Medications[i].PrescriptionID = id
	}
	return &pres, nil
}

// ListFor returns the prescriptions visible to a user: patients see those on
// their appointments, doctors those they authored.
func (s *PrescriptionService) ListFor(ctx context.Context, userID int, role string) ([]models.Prescription, error) {
	if role == models.RoleDoctor {
		return s.prescriptions.ListByDoctor(ctx, userID)
	}
	return s.prescriptions.ListByPatient(ctx, userID)
}
