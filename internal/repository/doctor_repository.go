package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type DoctorRepository struct {
	db base.Querier
}

func NewDoctorRepository(db base.Querier) *DoctorRepository {
	return &DoctorRepository{db: db}
}

const doctorColumns = `id, user_id, department_id, title, salary, created_at`

// Create создаёт профиль врача
func (r *DoctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (user_id, department_id, title, salary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		doctor.UserID,
		doctor.DepartmentID,
		doctor.Title,
		doctor.Salary,
	).Scan(&doctor.ID, &doctor.CreatedAt)

	if err != nil {
		return wrapDuplicate("create doctor", err)
	}

	return nil
}

// GetByID получает врача по ID
func (r *DoctorRepository) GetByID(ctx context.Context, id int64) (*model.Doctor, error) {
	doctor, err := scanDoctor(r.db.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor by id: %w", err)
	}
	return doctor, nil
}

// List получает всех врачей
func (r *DoctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	rows, err := r.db.Query(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*model.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctors: %w", err)
	}

	return doctors, nil
}

func scanDoctor(row pgx.Row) (*model.Doctor, error) {
	var doctor model.Doctor
	err := row.Scan(
		&doctor.ID,
		&doctor.UserID,
		&doctor.DepartmentID,
		&doctor.Title,
		&doctor.Salary,
		&doctor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}
