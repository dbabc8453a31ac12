package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository"
	"go.uber.org/zap"
)

// DoctorService управляет врачами и отделениями
type DoctorService struct {
	store  Store
	logger *zap.Logger
}

func NewDoctorService(store Store, logger *zap.Logger) *DoctorService {
	return &DoctorService{
		store:  store,
		logger: logger,
	}
}

// CreateDoctor делает пользователя врачом. Слоты появятся при следующем запуске генератора.
func (s *DoctorService) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	err := s.store.InTx(ctx, func(tx Repos) error {
		user, err := tx.Users.GetByID(ctx, doctor.UserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if user == nil {
			return NotFound(MsgUserNotFound)
		}

		if doctor.DepartmentID != nil {
			department, err := tx.Departments.GetByID(ctx, *doctor.DepartmentID)
			if err != nil {
				return fmt.Errorf("get department: %w", err)
			}
			if department == nil {
				return NotFound(MsgDepartmentNotFound)
			}
		}

		if err := tx.Doctors.Create(ctx, doctor); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return Conflict("User is already a doctor")
			}
			return fmt.Errorf("create doctor: %w", err)
		}

		return tx.Users.AddRole(ctx, doctor.UserID, model.RoleDoctor)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Doctor created",
		zap.Int64("doctor_id", doctor.ID),
		zap.Int64("user_id", doctor.UserID),
	)

	return nil
}

// GetDoctor получает врача по ID
func (s *DoctorService) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	doctor, err := s.store.Repos().Doctors.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, NotFound(MsgDoctorNotFound)
	}
	return doctor, nil
}

// ListDoctors получает всех врачей, пустой список - NotFound
func (s *DoctorService) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.store.Repos().Doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	if len(doctors) == 0 {
		return nil, NotFound(MsgNoDoctors)
	}
	return doctors, nil
}

// CreateDepartment создаёт отделение
func (s *DoctorService) CreateDepartment(ctx context.Context, name string) (*model.Department, error) {
	department := &model.Department{Name: strings.TrimSpace(name)}

	if err := s.store.Repos().Departments.Create(ctx, department); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("Department already exists")
		}
		return nil, fmt.Errorf("create department: %w", err)
	}

	s.logger.Info("Department created",
		zap.Int64("department_id", department.ID),
		zap.String("name", department.Name),
	)

	return department, nil
}

// ListDepartments получает все отделения
func (s *DoctorService) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	departments, err := s.store.Repos().Departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	if departments == nil {
		departments = []*model.Department{}
	}
	return departments, nil
}
