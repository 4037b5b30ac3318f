package models

// DoctorProfile extends a doctor user with clinical credentials.
type DoctorProfile struct {
	ID              int     `json:"id"`
	UserID          int     `json:"user_id"`
	Specialization  string  `json:"specialization"`
	Qualification   string  `json:"qualification,omitempty"`
	Bio             string  `json:"bio,omitempty"`
	City            string  `json:"city,omitempty"`
	ExperienceYears int     `json:"experience_years"`
	Rating          float64 `json:"rating"`

	// Joined user fields for list/detail rendering.
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// PatientProfile extends a patient user with medical baseline data.
type PatientProfile struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id"`
	DateOfBirth string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	BloodGroup  string `json:"blood_group,omitempty"`
	Allergies   string `json:"allergies,omitempty"`
}
