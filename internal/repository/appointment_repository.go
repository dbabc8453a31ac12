package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository/base"
)

type AppointmentRepository struct {
	db base.Querier
}

func NewAppointmentRepository(db base.Querier) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create создаёт новую запись на приём
func (r *AppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (patient_id, slot_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, appointment.PatientID, appointment.SlotID).
		Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
	if err != nil {
		return wrapDuplicate("create appointment", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, slot_id, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`

	var appointment model.Appointment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.SlotID,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return &appointment, nil
}

// GetByPatientID получает все записи пациента вместе со слотами
func (r *AppointmentRepository) GetByPatientID(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	query := `
		SELECT a.id, a.patient_id, a.slot_id, a.created_at, a.updated_at,
		       s.id, s.doctor_id, s.slot_date, s.status, s.created_at
		FROM appointments a
		JOIN slots s ON s.id = a.slot_id
		WHERE a.patient_id = $1
		ORDER BY s.slot_date
	`

	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by patient: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var (
			appointment model.Appointment
			slot        model.Slot
		)
		err := rows.Scan(
			&appointment.ID,
			&appointment.PatientID,
			&appointment.SlotID,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
			&slot.ID,
			&slot.DoctorID,
			&slot.SlotDate,
			&slot.Status,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointment.Slot = &slot
		appointments = append(appointments, &appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appointments, nil
}

// GetByIDForUpdate получает запись и блокирует строку до конца транзакции.
// Вызывается только внутри InTx.
func (r *AppointmentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, slot_id, created_at, updated_at
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`

	var appointment model.Appointment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.SlotID,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment for update: %w", err)
	}

	return &appointment, nil
}

// UpdateSlot переносит запись на другой слот
func (r *AppointmentRepository) UpdateSlot(ctx context.Context, id, slotID int64) error {
	query := `
		UPDATE appointments
		SET slot_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	affected, err := base.ExecAffected(ctx, r.db, query, slotID, id)
	if err != nil {
		return wrapDuplicate("update appointment slot", err)
	}

	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// Delete удаляет запись
func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	affected, err := base.ExecAffected(ctx, r.db, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}
