package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var doctorCols = []string{
	"id", "user_id", "specialization", "qualification", "bio", "city",
	"experience_years", "rating", "first_name", "last_name",
}

func TestDoctorList_FreeTextSearch(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewDoctorSQLite(db)

	like := "%kim%"
	// q matches first/last name, bio and qualification.
	qCond := regexp.QuoteMeta("(u.first_name LIKE ? OR u.last_name LIKE ? OR d.bio LIKE ? OR d.qualification LIKE ?)")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)") + ".*" + qCond).
		WithArgs(like, like, like, like).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(qCond + ".*ORDER BY d.rating DESC").
		WithArgs(like, like, like, like, defaultPageSize, 0).
		WillReturnRows(sqlmock.NewRows(doctorCols).
			AddRow(1, 3, "dermatology", nil, "skin specialist", nil, 5, 4.5, "Kim", "Lee"))

	got, total, err := repo.List(ctx(t), DoctorFilter{Query: "kim"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Fatalf("total=%d len=%d", total, len(got))
	}
	if got[0].FirstName != "Kim" || got[0].Bio != "skin specialist" {
		t.Fatalf("unexpected doctor: %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestDoctorList_PageSizeClamped(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewDoctorSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("FROM doctor_profiles").
		WithArgs(maxPageSize, maxPageSize).
		WillReturnRows(sqlmock.NewRows(doctorCols))

	if _, _, err := repo.List(ctx(t), DoctorFilter{Page: 2, PageSize: 500}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
