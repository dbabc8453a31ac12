package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository/base"
)

type DepartmentRepository struct {
	db base.Querier
}

func NewDepartmentRepository(db base.Querier) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create создаёт отделение
func (r *DepartmentRepository) Create(ctx context.Context, department *model.Department) error {
	err := r.db.QueryRow(ctx, `INSERT INTO departments (name) VALUES ($1) RETURNING id`, department.Name).
		Scan(&department.ID)
	if err != nil {
		return wrapDuplicate("create department", err)
	}
	return nil
}

// GetByID получает отделение по ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*model.Department, error) {
	var department model.Department
	err := r.db.QueryRow(ctx, `SELECT id, name FROM departments WHERE id = $1`, id).
		Scan(&department.ID, &department.Name)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department by id: %w", err)
	}
	return &department, nil
}

// List получает все отделения по имени
func (r *DepartmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []*model.Department
	for rows.Next() {
		var department model.Department
		if err := rows.Scan(&department.ID, &department.Name); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, &department)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate departments: %w", err)
	}

	return departments, nil
}
