package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type SlotRepository struct {
	db base.Querier
}

func NewSlotRepository(db base.Querier) *SlotRepository {
	return &SlotRepository{db: db}
}

const slotColumns = `id, doctor_id, slot_date, status, created_at`

// CreateBatch вставляет слоты одной командой COPY
func (r *SlotRepository) CreateBatch(ctx context.Context, slots []*model.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	count, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"slots"},
		[]string{"doctor_id", "slot_date", "status"},
		pgx.CopyFromSlice(len(slots), func(i int) ([]any, error) {
			return []any{slots[i].DoctorID, slots[i].SlotDate, string(slots[i].Status)}, nil
		}),
	)
	if err != nil {
		return 0, wrapDuplicate("copy slots", err)
	}

	return count, nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// GetLatest возвращает слот с наибольшим временем, nil если слотов нет
func (r *SlotRepository) GetLatest(ctx context.Context) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots ORDER BY slot_date DESC, id DESC LIMIT 1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest slot: %w", err)
	}

	return slot, nil
}

// GetOpenByDoctor получает все свободные слоты врача по времени
func (r *SlotRepository) GetOpenByDoctor(ctx context.Context, doctorID int64) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE doctor_id = $1 AND status = 'open'
		ORDER BY slot_date
	`

	rows, err := r.db.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get open slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

// Acquire переводит слот врача из open в booked.
// false означает что слот не найден, принадлежит другому врачу или уже занят.
func (r *SlotRepository) Acquire(ctx context.Context, slotID, doctorID int64) (bool, error) {
	query := `
		UPDATE slots
		SET status = 'booked'
		WHERE id = $1 AND doctor_id = $2 AND status = 'open'
	`

	affected, err := base.ExecAffected(ctx, r.db, query, slotID, doctorID)
	if err != nil {
		return false, fmt.Errorf("acquire slot: %w", err)
	}

	return affected == 1, nil
}

// Release возвращает занятый слот в open
func (r *SlotRepository) Release(ctx context.Context, slotID int64) (bool, error) {
	query := `
		UPDATE slots
		SET status = 'open'
		WHERE id = $1 AND status = 'booked'
	`

	affected, err := base.ExecAffected(ctx, r.db, query, slotID)
	if err != nil {
		return false, fmt.Errorf("release slot: %w", err)
	}

	return affected == 1, nil
}

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.DoctorID,
		&slot.SlotDate,
		&slot.Status,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
