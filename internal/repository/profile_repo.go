package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"medclinic/internal/models"
)

type DoctorSQLite struct {
	db *sql.DB
}

func NewDoctorSQLite(db *sql.DB) *DoctorSQLite { return &DoctorSQLite{db: db} }

var _ Doctors = (*DoctorSQLite)(nil)

const (
	insertDoctorSQL = `
		INSERT INTO doctor_profiles (user_id, specialization, qualification, bio, city, experience_years, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectDoctorSQL = `
		SELECT d.id, d.user_id, d.specialization, d.qualification, d.bio, d.city,
		       d.experience_years, d.rating, u.first_name, u.last_name
		FROM doctor_profiles d JOIN users u ON u.id = d.user_id`

	defaultPageSize = 10
	maxPageSize     = 100
)

// Create inserts a doctor profile and returns its ID.
func (r *DoctorSQLite) Create(ctx context.Context, p models.DoctorProfile) (int, error) {
	res, err := r.db.ExecContext(ctx, insertDoctorSQL,
		p.UserID, p.Specialization, p.Qualification, p.Bio, p.City, p.ExperienceYears, p.Rating)
	if err != nil {
		return 0, fmt.Errorf("insert doctor profile for user %d: %w", p.UserID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for doctor profile: %w", err)
	}
	return int(lastID), nil
}

// GetByUserID fetches the profile for a doctor user. Returns (nil, nil) if not found.
func (r *DoctorSQLite) GetByUserID(ctx context.Context, userID int) (*models.DoctorProfile, error) {
	row := r.db.QueryRowContext(ctx, selectDoctorSQL+` WHERE d.user_id = ?`, userID)
	p, err := scanDoctor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select doctor profile for user %d: %w", userID, err)
	}
	return p, nil
}

// List returns a page of doctor profiles matching the filter plus the total
// match count (for pagination).
func (r *DoctorSQLite) List(ctx context.Context, f DoctorFilter) ([]models.DoctorProfile, int, error) {
	var (
		conds []string
		args  []any
	)

	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + q + "%"
		conds = append(conds, "(u.first_name LIKE ? OR u.last_name LIKE ? OR d.bio LIKE ? OR d.qualification LIKE ?)")
		args = append(args, like, like, like, like)
	}
	if s := strings.TrimSpace(f.Specialization); s != "" {
		conds = append(conds, "d.specialization = ?")
		args = append(args, s)
	}
	if c := strings.TrimSpace(f.City); c != "" {
		conds = append(conds, "d.city = ? COLLATE NOCASE")
		args = append(args, c)
	}
	if f.MinExperience > 0 {
		conds = append(conds, "d.experience_years >= ?")
		args = append(args, f.MinExperience)
	}
	if f.MinRating > 0 {
		conds = append(conds, "d.rating >= ?")
		args = append(args, f.MinRating)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// Total first so page math stays consistent with the filter.
	var total int
	countQ := `SELECT COUNT(*) FROM doctor_profiles d JOIN users u ON u.id = d.user_id` + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	q := selectDoctorSQL + where + " ORDER BY d.rating DESC, u.last_name ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	out := make([]models.DoctorProfile, 0, pageSize)
	for rows.Next() {
		p, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDoctor(s scanner) (*models.DoctorProfile, error) {
	var (
		p                   models.DoctorProfile
		qualification, bio  sql.NullString
		city                sql.NullString
		firstName, lastName sql.NullString
	)
	if err := s.Scan(
		&p.ID, &p.UserID, &p.Specialization, &qualification, &bio, &city,
		&p.ExperienceYears, &p.Rating, &firstName, &lastName,
	); err != nil {
		return nil, err
	}
	p.Qualification = qualification.String
	p.Bio = bio.String
	p.City = city.String
	p.FirstName = firstName.String
	p.LastName = lastName.String
	return &p, nil
}

type PatientSQLite struct {
	db *sql.DB
}

func NewPatientSQLite(db *sql.DB) *PatientSQLite { return &PatientSQLite{db: db} }

var _ Patients = (*PatientSQLite)(nil)

const (
	insertPatientSQL = `
		INSERT INTO patient_profiles (user_id, date_of_birth, blood_group, allergies)
		VALUES (?, ?, ?, ?)`
	selectPatientSQL = `
		SELECT id, user_id, date_of_birth, blood_group, allergies
		FROM patient_profiles WHERE user_id = ?`
)

// Create inserts a patient profile and returns its ID.
func (r *PatientSQLite) Create(ctx context.Context, p models.PatientProfile) (int, error) {
	res, err := r.db.ExecContext(ctx, insertPatientSQL, p.UserID, p.DateOfBirth, p.BloodGroup, p.Allergies)
	if err != nil {
		return 0, fmt.Errorf("insert patient profile for user %d: %w", p.UserID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for patient profile: %w", err)
	}
	return int(lastID), nil
}

// GetByUserID fetches the profile for a patient user. Returns (nil, nil) if not found.
func (r *PatientSQLite) GetByUserID(ctx context.Context, userID int) (*models.PatientProfile, error) {
	var (
		p                models.PatientProfile
		dob, blood, alrg sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectPatientSQL, userID).Scan(&p.ID, &p.UserID, &dob, &blood, &alrg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select patient profile for user %d: %w", userID, err)
	}
	p.DateOfBirth = dob.String
	p.BloodGroup = blood.String
	p.Allergies = alrg.String
	return &p, nil
}
