package service

// SignUpParams is the input for account creation.
type SignUpParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      string // patient | doctor | admin

	// Doctor-only profile fields, ignored for other roles.
	Specialization  string
	Qualification   string
	City            string
	ExperienceYears int
}

// UpdateProfileParams is the input for profile edits.
type UpdateProfileParams struct {
	UserID    int
	FirstName string
	LastName  string
	Phone     string
}

// BookParams is the input for booking an appointment. Date and Time arrive as
// the raw form values ("2006-01-02" and "15:04") and are validated here.
type BookParams struct {
	PatientID int
	DoctorID  int
	Date      string
	Time      string
	Reason    string
}

// CancelParams identifies the appointment to cancel and who asked.
type CancelParams struct {
	AppointmentID string
	UserID        int
	Role          string
	Reason        string
}

// PrescriptionParams is the input for authoring a prescription.
type PrescriptionParams struct {
	DoctorUserID  int
	PatientUserID int
	Notes         string
	Medications   []MedicationParams
}

type MedicationParams struct {
	Name      string
	Dosage    string
	Frequency string
	Duration  string
}
