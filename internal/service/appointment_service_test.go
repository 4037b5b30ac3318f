package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"medclinic/internal/models"
	"medclinic/internal/repository"
)

// fakeApptRepo is a minimal stub satisfying repository.Appointments.
type fakeApptRepo struct {
	CreateFn       func(a models.Appointment) error
	GetByIDFn      func(id string) (*models.Appointment, error)
	ListFn         func(f repository.AppointmentFilter) ([]models.Appointment, error)
	UpdateStatusFn func(id, status, cancelReason string, updatedAt time.Time) error
	TakenSlotsFn   func(doctorID int, from, to time.Time) ([]time.Time, error)

	created []models.Appointment
	updates []struct {
		id, status, reason string
	}
}

func (f *fakeApptRepo) Create(ctx context.Context, a models.Appointment) error {
	f.created = append(f.created, a)
	if f.CreateFn != nil {
		return f.CreateFn(a)
	}
	return nil
}
func (f *fakeApptRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return f.GetByIDFn(id)
}
func (f *fakeApptRepo) List(ctx context.Context, flt repository.AppointmentFilter) ([]models.Appointment, error) {
	if f.ListFn != nil {
		return f.ListFn(flt)
	}
	return nil, nil
}
func (f *fakeApptRepo) UpdateStatus(ctx context.Context, id, status, cancelReason string, updatedAt time.Time) error {
	f.updates = append(f.updates, struct {
		id, status, reason string
	}{id, status, cancelReason})
	if f.UpdateStatusFn != nil {
		return f.UpdateStatusFn(id, status, cancelReason, updatedAt)
	}
	return nil
}
func (f *fakeApptRepo) TakenSlots(ctx context.Context, doctorID int, from, to time.Time) ([]time.Time, error) {
	if f.TakenSlotsFn != nil {
		return f.TakenSlotsFn(doctorID, from, to)
	}
	return nil, nil
}

// fakeUserRepo satisfies repository.Users; only GetByID matters here.
type fakeUserRepo struct {
	GetByIDFn       func(id int) (*models.User, error)
	GetByEmailFn    func(email string) (*models.User, error)
	GetByUsernameFn func(username string) (*models.User, error)
	CreateFn        func(u models.User) (int, error)
	UpdateProfileFn func(u models.User) error
	UpdatePassFn    func(id int, hash string) error
	MarkVerifiedFn  func(id int) error
}

func (f *fakeUserRepo) Create(ctx context.Context, u models.User) (int, error) {
	if f.CreateFn != nil {
		return f.CreateFn(u)
	}
	return 1, nil
}
func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.GetByUsernameFn != nil {
		return f.GetByUsernameFn(username)
	}
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.GetByEmailFn != nil {
		return f.GetByEmailFn(email)
	}
	return nil, nil
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(id)
	}
	return nil, nil
}
func (f *fakeUserRepo) UpdateProfile(ctx context.Context, u models.User) error {
	if f.UpdateProfileFn != nil {
		return f.UpdateProfileFn(u)
	}
	return nil
}
func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int, hash string) error {
	if f.UpdatePassFn != nil {
		return f.UpdatePassFn(id, hash)
	}
	return nil
}
func (f *fakeUserRepo) MarkEmailVerified(ctx context.Context, id int) error {
	if f.MarkVerifiedFn != nil {
		return f.MarkVerifiedFn(id)
	}
	return nil
}

func doctorUser(id int) *models.User {
	return &models.User{ID: id, Username: "doc", Role: models.RoleDoctor}
}

// --- Book ---

func TestBook_MissingDateTime(t *testing.T) {
	svc := NewAppointmentService(&fakeApptRepo{}, &fakeUserRepo{})

	for _, p := range []BookParams{
		{PatientID: 5, DoctorID: 3, Date: "", Time: "10:00"},
		{PatientID: 5, DoctorID: 3, Date: "2026-09-01", Time: ""},
		{PatientID: 5, DoctorID: 3},
	} {
		if _, err := svc.Book(context.Background(), p); !errors.Is(err, ErrMissingDateTime) {
			t.Fatalf("params %+v: expected ErrMissingDateTime, got %v", p, err)
		}
	}
}

func TestBook_BadFormat(t *testing.T) {
	svc := NewAppointmentService(&fakeApptRepo{}, &fakeUserRepo{})

	_, err := svc.Book(context.Background(), BookParams{
		PatientID: 5, DoctorID: 3, Date: "01/09/2026", Time: "ten",
	})
	if !errors.Is(err, ErrBadDateTime) {
		t.Fatalf("expected ErrBadDateTime, got %v", err)
	}
}

func TestBook_PastSlot(t *testing.T) {
	svc := NewAppointmentService(&fakeApptRepo{}, &fakeUserRepo{})

	_, err := svc.Book(context.Background(), BookParams{
		PatientID: 5, DoctorID: 3, Date: "2001-01-01", Time: "10:00",
	})
	if !errors.Is(err, ErrSlotInPast) {
		t.Fatalf("expected ErrSlotInPast, got %v", err)
	}
}

func TestBook_DoctorChecks(t *testing.T) {
	future := time.Now().UTC().Add(48 * time.Hour)
	date := future.Format(layoutDate)

	// Unknown user.
	users := &fakeUserRepo{GetByIDFn: func(id int) (*models.User, error) { return nil, nil }}
	svc := NewAppointmentService(&fakeApptRepo{}, users)
	if _, err := svc.Book(context.Background(), BookParams{PatientID: 5, DoctorID: 3, Date: date, Time: "10:00"}); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("unknown user: expected ErrDoctorNotFound, got %v", err)
	}

	// A patient user is not a doctor.
	users.GetByIDFn = func(id int) (*models.User, error) {
		return &models.User{ID: id, Role: models.RolePatient}, nil
	}
	if _, err := svc.Book(context.Background(), BookParams{PatientID: 5, DoctorID: 3, Date: date, Time: "10:00"}); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("patient target: expected ErrDoctorNotFound, got %v", err)
	}
}

func TestBook_SlotTaken(t *testing.T) {
	future := time.Now().UTC().Add(48 * time.Hour)
	appts := &fakeApptRepo{
		TakenSlotsFn: func(doctorID int, from, to time.Time) ([]time.Time, error) {
			return []time.Time{from}, nil
		},
	}
	users := &fakeUserRepo{GetByIDFn: func(id int) (*models.User, error) { return doctorUser(id), nil }}
	svc := NewAppointmentService(appts, users)

	_, err := svc.Book(context.Background(), BookParams{
		PatientID: 5, DoctorID: 3,
		Date: future.Format(layoutDate), Time: "10:00",
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if len(appts.created) != 0 {
		t.Fatalf("must not create on conflict: %+v", appts.created)
	}
}

func TestBook_Success(t *testing.T) {
	future := time.Now().UTC().Add(48 * time.Hour)
	appts := &fakeApptRepo{}
	users := &fakeUserRepo{GetByIDFn: func(id int) (*models.User, error) { return doctorUser(id), nil }}
	svc := NewAppointmentService(appts, users)

	a, err := svc.Book(context.Background(), BookParams{
		PatientID: 5, DoctorID: 3,
		Date: future.Format(layoutDate), Time: "10:00",
		Reason: "checkup",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if a.ID == "" || a.Status != models.StatusPending {
		t.Fatalf("unexpected appointment: %+v", a)
	}
	if a.ScheduledAt.Hour() != 10 || a.ScheduledAt.Minute() != 0 {
		t.Fatalf("scheduled at %v, want 10:00", a.ScheduledAt)
	}
	if len(appts.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(appts.created))
	}
}

// --- List ---

func TestList_UnknownStatusRejected(t *testing.T) {
	svc := NewAppointmentService(&fakeApptRepo{}, &fakeUserRepo{})

	if _, err := svc.List(context.Background(), repository.AppointmentFilter{Status: "Bogus"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

// --- Confirm ---

func TestConfirm(t *testing.T) {
	pending := &models.Appointment{ID: "a1", PatientID: 5, DoctorID: 3, Status: models.StatusPending}
	appts := &fakeApptRepo{GetByIDFn: func(id string) (*models.Appointment, error) {
		cp := *pending
		return &cp, nil
	}}
	svc := NewAppointmentService(appts, &fakeUserRepo{})

	// Wrong doctor.
	if _, err := svc.Confirm(context.Background(), "a1", 99); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("wrong doctor: expected ErrNotAuthorized, got %v", err)
	}

	// Assigned doctor succeeds.
	a, err := svc.Confirm(context.Background(), "a1", 3)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if a.Status != models.StatusConfirmed {
		t.Fatalf("status=%q", a.Status)
	}

	// Non-pending is refused.
	pending.Status = models.StatusCancelled
	if _, err := svc.Confirm(context.Background(), "a1", 3); !errors.Is(err, ErrNotPending) {
		t.Fatalf("cancelled: expected ErrNotPending, got %v", err)
	}
}

// --- Cancel ---

func TestCancel(t *testing.T) {
	stored := &models.Appointment{ID: "a1", PatientID: 5, DoctorID: 3, Status: models.StatusPending}
	appts := &fakeApptRepo{GetByIDFn: func(id string) (*models.Appointment, error) {
		cp := *stored
		return &cp, nil
	}}
	svc := NewAppointmentService(appts, &fakeUserRepo{})

	// A stranger may not cancel.
	_, err := svc.Cancel(context.Background(), CancelParams{AppointmentID: "a1", UserID: 99, Role: models.RolePatient})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("stranger: expected ErrNotAuthorized, got %v", err)
	}

	// The patient can.
	a, err := svc.Cancel(context.Background(), CancelParams{
		AppointmentID: "a1", UserID: 5, Role: models.RolePatient, Reason: "sick",
	})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if a.Status != models.StatusCancelled || a.CancelReason != "sick" {
		t.Fatalf("unexpected result: %+v", a)
	}
	if len(appts.updates) != 1 || appts.updates[0].status != models.StatusCancelled {
		t.Fatalf("unexpected updates: %+v", appts.updates)
	}

	// An admin can cancel anything.
	if _, err := svc.Cancel(context.Background(), CancelParams{AppointmentID: "a1", UserID: 99, Role: models.RoleAdmin}); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestCancel_CompletedRefused(t *testing.T) {
	appts := &fakeApptRepo{GetByIDFn: func(id string) (*models.Appointment, error) {
		return &models.Appointment{ID: id, PatientID: 5, Status: models.StatusCompleted}, nil
	}}
	svc := NewAppointmentService(appts, &fakeUserRepo{})

	_, err := svc.Cancel(context.Background(), CancelParams{AppointmentID: "a1", UserID: 5, Role: models.RolePatient})
	if !errors.Is(err, ErrCancelCompleted) {
		t.Fatalf("expected ErrCancelCompleted, got %v", err)
	}
	if len(appts.updates) != 0 {
		t.Fatalf("completed appointment must not be touched: %+v", appts.updates)
	}
}

func TestCancel_AlreadyCancelledIsNoOp(t *testing.T) {
	appts := &fakeApptRepo{GetByIDFn: func(id string) (*models.Appointment, error) {
		return &models.Appointment{ID: id, PatientID: 5, Status: models.StatusCancelled}, nil
	}}
	svc := NewAppointmentService(appts, &fakeUserRepo{})

	a, err := svc.Cancel(context.Background(), CancelParams{AppointmentID: "a1", UserID: 5, Role: models.RolePatient})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if a.Status != models.StatusCancelled {
		t.Fatalf("status=%q", a.Status)
	}
	if len(appts.updates) != 0 {
		t.Fatalf("second cancel must not write: %+v", appts.updates)
	}
}

func TestGet_NotFound(t *testing.T) {
	appts := &fakeApptRepo{GetByIDFn: func(id string) (*models.Appointment, error) { return nil, nil }}
	svc := NewAppointmentService(appts, &fakeUserRepo{})

	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}
