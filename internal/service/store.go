package service

import (
	"context"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	AddRole(ctx context.Context, userID int64, role model.Role) error
}

type DepartmentRepository interface {
	Create(ctx context.Context, department *model.Department) error
	GetByID(ctx context.Context, id int64) (*model.Department, error)
	List(ctx context.Context) ([]*model.Department, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	GetByID(ctx context.Context, id int64) (*model.Doctor, error)
	List(ctx context.Context) ([]*model.Doctor, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	GetByUserID(ctx context.Context, userID int64) (*model.Patient, error)
}

type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []*model.Slot) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	GetLatest(ctx context.Context) (*model.Slot, error)
	GetOpenByDoctor(ctx context.Context, doctorID int64) ([]*model.Slot, error)
	Acquire(ctx context.Context, slotID, doctorID int64) (bool, error)
	Release(ctx context.Context, slotID int64) (bool, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Appointment, error)
	GetByPatientID(ctx context.Context, patientID int64) ([]*model.Appointment, error)
	UpdateSlot(ctx context.Context, id, slotID int64) error
	Delete(ctx context.Context, id int64) error
}

// Repos набор репозиториев одного соединения
type Repos struct {
	Users        UserRepository
	Departments  DepartmentRepository
	Doctors      DoctorRepository
	Patients     PatientRepository
	Slots        SlotRepository
	Appointments AppointmentRepository
}

// Store доступ к хранилищу: репозитории вне транзакции и запуск транзакции
type Store interface {
	Repos() Repos
	InTx(ctx context.Context, fn func(tx Repos) error) error
}

type postgresStore struct {
	store *repository.Store
}

// NewPostgresStore оборачивает репозитории PostgreSQL в Store
func NewPostgresStore(store *repository.Store) Store {
	return &postgresStore{store: store}
}

func (s *postgresStore) Repos() Repos {
	return reposOf(s.store)
}

func (s *postgresStore) InTx(ctx context.Context, fn func(tx Repos) error) error {
	return s.store.InTx(ctx, func(tx *repository.Store) error {
		return fn(reposOf(tx))
	})
}

func reposOf(s *repository.Store) Repos {
	return Repos{
		Users:        s.Users,
		Departments:  s.Departments,
		Doctors:      s.Doctors,
		Patients:     s.Patients,
		Slots:        s.Slots,
		Appointments: s.Appointments,
	}
}
