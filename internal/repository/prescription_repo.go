package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"medclinic/internal/models"
)

type PrescriptionSQLite struct {
	db *sql.DB
}

func NewPrescriptionSQLite(db *sql.DB) *PrescriptionSQLite { return &PrescriptionSQLite{db: db} }

var _ Prescriptions = (*PrescriptionSQLite)(nil)

const (
	insertPrescriptionSQL = `
		INSERT INTO prescriptions (appointment_id, notes, created_at) VALUES (?, ?, ?)`
	insertMedicationSQL = `
		INSERT INTO medications (prescription_id, name, dosage, frequency, duration)
		VALUES (?, ?, ?, ?, ?)`
	selectPrescriptionsSQL = `
		SELECT p.id, p.appointment_id, p.notes, p.created_at
		FROM prescriptions p JOIN appointments a ON a.id = p.appointment_id`
	selectMedicationsSQL = `
		SELECT id, prescription_id, name, dosage, frequency, duration
		FROM medications WHERE prescription_id = ?`
)

// Create inserts a prescription and its medications in one transaction.
func (r *PrescriptionSQLite) Create(ctx context.Context, p models.Prescription) (int, error) {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	} else {
		created = created.UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prescription transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, insertPrescriptionSQL, p.AppointmentID, p.Notes, created)
	if err != nil {
		return 0, fmt.Errorf("insert prescription for appointment %s: %w", p.AppointmentID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for prescription: %w", err)
	}

	for _, m := range p.Medications {
		if _, err := tx.ExecContext(ctx, insertMedicationSQL,
			lastID, m.Name, m.Dosage, m.Frequency, m.Duration); err != nil {
			return 0, fmt.Errorf("insert medication %q: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prescription transaction: %w", err)
	}
	return int(lastID), nil
}

// ListByPatient returns prescriptions attached to the patient's appointments,
// newest first, medications included.
func (r *PrescriptionSQLite) ListByPatient(ctx context.Context, patientUserID int) ([]models.Prescription, error) {
	return r.list(ctx, selectPrescriptionsSQL+` WHERE a.patient_id = ? ORDER BY p.created_at DESC`, patientUserID)
}

// ListByDoctor returns prescriptions the doctor authored, newest first,
// medications included.
func (r *PrescriptionSQLite) ListByDoctor(ctx context.Context, doctorUserID int) ([]models.Prescription, error) {
	return r.list(ctx, selectPrescriptionsSQL+` WHERE a.doctor_id = ? ORDER BY p.created_at DESC`, doctorUserID)
}

func (r *PrescriptionSQLite) list(ctx context.Context, query string, arg any) ([]models.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Prescription, 0, 8)
	for rows.Next() {
		var (
			p     models.Prescription
			notes sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.AppointmentID, &notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Notes = notes.String
		p.CreatedAt = p.CreatedAt.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach medications per prescription. Volume is small enough that the
	// N+1 here is not worth a join.
	for i := range out {
		meds, err := r.medications(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Medications = meds
	}
	return out, nil
}

func (r *PrescriptionSQLite) medications(ctx context.Context, prescriptionID int) ([]models.Medication, error) {
	rows, err := r.db.QueryContext(ctx, selectMedicationsSQL, prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("list medications for prescription %d: %w", prescriptionID, err)
	}
	defer rows.Close()

	var out []models.Medication
	for rows.Next() {
		var (
			m                           models.Medication
			dosage, frequency, duration sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.PrescriptionID, &m.Name, &dosage, &frequency, &duration); err != nil {
			return nil, err
		}
		m.Dosage = dosage.String
		m.Frequency = frequency.String
		m.Duration = duration.String
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
