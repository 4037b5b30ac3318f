package models

import "time"

// Appointment statuses. The literals are part of the API contract:
// cancellation is refused exactly when status == StatusCompleted.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Appointment is a scheduled clinical encounter between a patient and a doctor.
type Appointment struct {
	ID           string    `json:"id"` // uuid
	PatientID    int       `json:"patient_id"`
	DoctorID     int       `json:"doctor_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Reason       string    `json:"reason,omitempty"`
	Status       string    `json:"status"` // Pending | Confirmed | Completed | Cancelled
	CancelReason string    `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsKnownStatus reports whether s is one of the defined statuses.
func IsKnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
