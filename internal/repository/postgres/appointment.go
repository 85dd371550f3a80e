package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/repository"
)

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, start_time, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.DoctorID,
		apt.PatientID,
		apt.StartTime,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, start_time, status, notes,
		       created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = $1, status = $2, notes = $3, updated_at = $4
		WHERE id = $5
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.StartTime,
		apt.Status,
		apt.Notes,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		if isDuplicate(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) ListScheduledForDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]*model.Appointment, error) {
	start, end := dayBounds(day)
	query := `
		SELECT id, doctor_id, patient_id, start_time, status, notes,
		       created_at, updated_at
		FROM appointments
		WHERE doctor_id = $1
		AND start_time >= $2 AND start_time < $3
		AND status = $4
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, doctorID, start, end, model.AppointmentStatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time, patientName string) ([]*model.Appointment, error) {
	start, end := dayBounds(day)
	query := `
		SELECT a.id, a.doctor_id, a.patient_id, a.start_time, a.status, a.notes,
		       a.created_at, a.updated_at
		FROM appointments a
		WHERE a.doctor_id = $1
		AND a.start_time >= $2 AND a.start_time < $3
	`
	args := []interface{}{doctorID, start, end}

	if patientName != "" {
		query += ` AND a.patient_id IN (SELECT id FROM patients WHERE name ILIKE $4)`
		args = append(args, "%"+patientName+"%")
	}
	query += " ORDER BY a.start_time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, start_time, status, notes,
		       created_at, updated_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForPatientByStatus(ctx context.Context, patientID uuid.UUID, status model.AppointmentStatus) ([]*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, start_time, status, notes,
		       created_at, updated_at
		FROM appointments
		WHERE patient_id = $1 AND status = $2
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID, status); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments by status: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) SearchForPatientByDoctorName(ctx context.Context, patientID uuid.UUID, doctorName string) ([]*model.Appointment, error) {
	query := `
		SELECT a.id, a.doctor_id, a.patient_id, a.start_time, a.status, a.notes,
		       a.created_at, a.updated_at
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		WHERE a.patient_id = $1 AND d.name ILIKE $2
		ORDER BY a.start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID, "%"+doctorName+"%"); err != nil {
		return nil, fmt.Errorf("failed to search patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) DeleteAllForDoctor(ctx context.Context, doctorID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("failed to delete doctor appointments: %w", err)
	}
	return nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
