package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/hospital_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicate возвращается при нарушении уникального ограничения
var ErrDuplicate = errors.New("duplicate record")

// Store набор репозиториев поверх одного соединения (пул или транзакция)
type Store struct {
	pool *pgxpool.Pool

	Users        *UserRepository
	Departments  *DepartmentRepository
	Doctors      *DoctorRepository
	Patients     *PatientRepository
	Slots        *SlotRepository
	Appointments *AppointmentRepository
}

// NewStore создаёт набор репозиториев поверх пула
func NewStore(pool *pgxpool.Pool) *Store {
	s := newStore(pool)
	s.pool = pool
	return s
}

func newStore(db base.Querier) *Store {
	return &Store{
		Users:        NewUserRepository(db),
		Departments:  NewDepartmentRepository(db),
		Doctors:      NewDoctorRepository(db),
		Patients:     NewPatientRepository(db),
		Slots:        NewSlotRepository(db),
		Appointments: NewAppointmentRepository(db),
	}
}

// InTx выполняет fn в транзакции. Ошибка fn откатывает транзакцию.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.pool == nil {
		return fmt.Errorf("nested transactions are not supported")
	}

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(newStore(tx))
	})
	if err != nil {
		return err
	}

	return nil
}

// wrapDuplicate превращает нарушение уникальности в ErrDuplicate
func wrapDuplicate(op string, err error) error {
	if base.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}
