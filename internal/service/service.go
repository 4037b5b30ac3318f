package service

import (
	"context"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, p SignUpParams) (int, error)
	GenerateToken(ctx context.Context, identifier, password string) (string, error)
	ParseToken(accessToken string) (int, string, error) // userID, role
}

// Accounts covers profile and credential maintenance for signed-in users.
type Accounts interface {
	Profile(ctx context.Context, userID int) (*models.User, error)
	UpdateProfile(ctx context.Context, p UpdateProfileParams) error
	ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	RequestEmailVerification(ctx context.Context, userID int) (string, error)
	ConfirmEmail(ctx context.Context, token string) error
}

// Appointments exposes the booking lifecycle.
type Appointments interface {
	Book(ctx context.Context, p BookParams) (*models.Appointment, error)
	List(ctx context.Context, f repository.AppointmentFilter) ([]models.Appointment, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
	Confirm(ctx context.Context, id string, doctorUserID int) (*models.Appointment, error)
	Cancel(ctx context.Context, p CancelParams) (*models.Appointment, error)
}

// Doctors exposes the patient-facing directory and slot availability.
type Doctors interface {
	List(ctx context.Context, f repository.DoctorFilter) ([]models.DoctorProfile, int, error)
	Get(ctx context.Context, userID int) (*models.DoctorProfile, error)
	AvailableSlots(ctx context.Context, doctorUserID int, day time.Time) ([]time.Time, error)
}

type Prescriptions interface {
	Create(ctx context.Context, p PrescriptionParams) (*models.Prescription, error)
	ListFor(ctx context.Context, userID int, role string) ([]models.Prescription, error)
}

// Activity is the best-effort audit trail. Record never reports failure;
// auditing must not break the request that produced it.
type Activity interface {
	Record(ctx context.Context, a models.UserActivity)
	Recent(ctx context.Context, userID int) ([]models.UserActivity, error)
}

// Sweeper runs the background loop that ages appointments (Confirmed past due
// → Completed, Pending past due → Cancelled). Stop via context cancellation
// in main() for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

// AuthConfig carries token signing parameters from configuration.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Accounts
	Appointments
	Doctors
	Prescriptions
	Activity
	Sweeper
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, auth AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Doctors, repos.Patients, auth),
		Accounts:      NewAccountService(repos.Users, repos.Tokens),
		Appointments:  NewAppointmentService(repos.Appointments, repos.Users),
		Doctors:       NewDoctorService(repos.Doctors, repos.Appointments),
		Prescriptions: NewPrescriptionService(repos.Prescriptions, repos.Appointments, repos.Users),
		Activity:      NewActivityService(repos.Activities),
		Sweeper:       NewSweeperService(repos.Appointments),
	}
}
