package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository"
	"go.uber.org/zap"
)

type PatientService struct {
	store  Store
	logger *zap.Logger
}

func NewPatientService(store Store, logger *zap.Logger) *PatientService {
	return &PatientService{
		store:  store,
		logger: logger,
	}
}

// CreateProfile создаёт профиль пациента пользователю и выдаёт роль patient
func (s *PatientService) CreateProfile(ctx context.Context, userID int64, patient *model.Patient) error {
	patient.UserID = userID

	err := s.store.InTx(ctx, func(tx Repos) error {
		user, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if user == nil {
			return NotFound(MsgUserNotFound)
		}

		if err := tx.Patients.Create(ctx, patient); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return Conflict("Patient profile already exists")
			}
			return fmt.Errorf("create patient: %w", err)
		}

		return tx.Users.AddRole(ctx, userID, model.RolePatient)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Patient profile created",
		zap.Int64("patient_id", patient.ID),
		zap.Int64("user_id", userID),
	)

	return nil
}

// GetMine получает профиль пациента пользователя
func (s *PatientService) GetMine(ctx context.Context, userID int64) (*model.Patient, error) {
	patient, err := s.store.Repos().Patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if patient == nil {
		return nil, NotFound(MsgPatientNotFound)
	}
	return patient, nil
}
