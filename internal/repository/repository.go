package repository

import (
	"context"
	"database/sql"
	"time"

	"medclinic/internal/models"
)

// DoctorFilter narrows doctor listings. Zero values mean "no constraint".
type DoctorFilter struct {
	Query          string // matches name, bio, qualification
	Specialization string
	City           string
	MinExperience  int
	MinRating      float64
	Page           int
	PageSize       int
}

// AppointmentFilter narrows appointment listings. Zero values mean "no
// constraint". From/To bound scheduled_at inclusively.
type AppointmentFilter struct {
	PatientID int
	DoctorID  int
	Status    string
	From      time.Time
	To        time.Time
}

type Users interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, u models.User) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id int) error
}

type Doctors interface {
	Create(ctx context.Context, p models.DoctorProfile) (int, error)
	GetByUserID(ctx context.Context, userID int) (*models.DoctorProfile, error)
	List(ctx context.Context, f DoctorFilter) ([]models.DoctorProfile, int, error)
}

type Patients interface {
	Create(ctx context.Context, p models.PatientProfile) (int, error)
	GetByUserID(ctx context.Context, userID int) (*models.PatientProfile, error)
}

type Appointments interface {
	Create(ctx context.Context, a models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id, status, cancelReason string, updatedAt time.Time) error
	TakenSlots(ctx context.Context, doctorID int, from, to time.Time) ([]time.Time, error)
}

type Prescriptions interface {
	Create(ctx context.Context, p models.Prescription) (int, error)
	ListByPatient(ctx context.Context, patientUserID int) ([]models.Prescription, error)
	ListByDoctor(ctx context.Context, doctorUserID int) ([]models.Prescription, error)
}

type Activities interface {
	Append(ctx context.Context, a models.UserActivity) error
	ListRecent(ctx context.Context, userID, limit int) ([]models.UserActivity, error)
}

type Tokens interface {
	Create(ctx context.Context, t models.VerificationToken) error
	Get(ctx context.Context, token, tokenType string) (*models.VerificationToken, error)
	MarkUsed(ctx context.Context, token string) error
}

type Repository struct {
	Users         Users
	Doctors       Doctors
	Patients      Patients
	Appointments  Appointments
	Prescriptions Prescriptions
	Activities    Activities
	Tokens        Tokens
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:         NewUserSQLite(db),
		Doctors:       NewDoctorSQLite(db),
		Patients:      NewPatientSQLite(db),
		Appointments:  NewAppointmentSQLite(db),
		Prescriptions: NewPrescriptionSQLite(db),
		Activities:    NewActivitySQLite(db),
		Tokens:        NewTokenSQLite(db),
	}
}
