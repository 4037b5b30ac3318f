package models

import "time"

// Prescription is authored by a doctor against a confirmed appointment.
type Prescription struct {
	ID            int          `json:"id"`
	AppointmentID string       `json:"appointment_id"`
	Notes         string       `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Medications   []Medication `json:"medications,omitempty"`
}

type Medication struct {
	ID             int    `json:"id"`
	PrescriptionID int    `json:"-"`
	Name           string `json:"name"`
	Dosage         string `json:"dosage,omitempty"`
	Frequency      string `json:"frequency,omitempty"`
	Duration       string `json:"duration,omitempty"`
}
