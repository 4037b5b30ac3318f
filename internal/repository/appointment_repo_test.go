package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"medclinic/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var apptCols = []string{
	"id", "patient_id", "doctor_id", "scheduled_at",
	"reason", "status", "cancel_reason", "created_at", "updated_at",
}

func TestAppointmentCreate_Defaults(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAppointmentSQLite(db)

	// ID, timestamps and status are generated when empty; match args loosely.
	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(sqlmock.AnyArg(), 5, 3, sqlmock.AnyArg(), "checkup",
			models.StatusPending, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(ctx(t), models.Appointment{
		PatientID:   5,
		DoctorID:    3,
		ScheduledAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Reason:      "checkup",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppointmentGetByID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAppointmentSQLite(db)

	mock.ExpectQuery("SELECT .+ FROM appointments").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	a, err := repo.GetByID(ctx(t), "nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a != nil {
		t.Fatalf("expected nil for missing row, got %+v", a)
	}
}

func TestAppointmentList_FilterBuildsWhere(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAppointmentSQLite(db)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(apptCols).
		AddRow("a1", 5, 3, from.Add(10*time.Hour), "checkup", models.StatusPending, "", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE patient_id = ? AND status = ? AND scheduled_at >= ? AND scheduled_at <= ? ORDER BY scheduled_at ASC")).
		WithArgs(5, models.StatusPending, from, to).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), AppointmentFilter{
		PatientID: 5,
		Status:    models.StatusPending,
		From:      from,
		To:        to,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppointmentList_NoFilter(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAppointmentSQLite(db)

	mock.ExpectQuery("FROM appointments ORDER BY scheduled_at ASC").
		WillReturnRows(sqlmock.NewRows(apptCols))

	got, err := repo.List(ctx(t), AppointmentFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestAppointmentUpdateStatus(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAppointmentSQLite(db)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs(models.StatusCancelled, "changed plans", now, "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(ctx(t), "a1", models.StatusCancelled, "changed plans", now); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
}

func TestAppointmentUpdateStatus_MissingRow(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAppointmentSQLite(db)

	mock.ExpectExec("UPDATE appointments SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(ctx(t), "ghost", models.StatusCancelled, "", time.Time{})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows wrap, got %v", err)
	}
}

func TestTakenSlots(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAppointmentSQLite(db)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	slot := from.Add(10 * time.Hour)

	rows := sqlmock.NewRows([]string{"scheduled_at"}).AddRow(slot)

	mock.ExpectQuery("SELECT scheduled_at FROM appointments").
		WithArgs(3, from, to, models.StatusPending, models.StatusConfirmed).
		WillReturnRows(rows)

	got, err := repo.TakenSlots(ctx(t), 3, from, to)
	if err != nil {
		t.Fatalf("TakenSlots: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(slot) {
		t.Fatalf("unexpected slots: %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
