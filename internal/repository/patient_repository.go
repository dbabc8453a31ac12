package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository/base"
)

type PatientRepository struct {
	db base.Querier
}

func NewPatientRepository(db base.Querier) *PatientRepository {
	return &PatientRepository{db: db}
}

// Create создаёт профиль пациента
func (r *PatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (user_id, birth_date, blood_type, height_cm, weight_kg)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		patient.UserID,
		patient.BirthDate,
		patient.BloodType,
		patient.HeightCm,
		patient.WeightKg,
	).Scan(&patient.ID, &patient.CreatedAt)

	if err != nil {
		return wrapDuplicate("create patient", err)
	}

	return nil
}

// GetByUserID получает профиль пациента по ID пользователя
func (r *PatientRepository) GetByUserID(ctx context.Context, userID int64) (*model.Patient, error) {
	query := `
		SELECT id, user_id, birth_date, blood_type, height_cm, weight_kg, created_at
		FROM patients
		WHERE user_id = $1
	`

	var patient model.Patient
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&patient.ID,
		&patient.UserID,
		&patient.BirthDate,
		&patient.BloodType,
		&patient.HeightCm,
		&patient.WeightKg,
		&patient.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient by user id: %w", err)
	}

	return &patient, nil
}
