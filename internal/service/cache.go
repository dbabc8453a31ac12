package service

import (
	"context"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
)

// SlotCache кэш списков свободных слотов по врачу.
// Version читается до запроса к БД; SetAvailable не пишет список,
// если после этого врача инвалидировали.
type SlotCache interface {
	GetAvailable(ctx context.Context, doctorID int64) ([]*model.Slot, bool, error)
	Version(ctx context.Context, doctorID int64) (int64, error)
	SetAvailable(ctx context.Context, doctorID, version int64, slots []*model.Slot) (bool, error)
	Invalidate(ctx context.Context, doctorIDs ...int64) error
}

// NopSlotCache используется когда Redis не настроен
type NopSlotCache struct{}

func (NopSlotCache) GetAvailable(context.Context, int64) ([]*model.Slot, bool, error) {
	return nil, false, nil
}

func (NopSlotCache) Version(context.Context, int64) (int64, error) { return 0, nil }

func (NopSlotCache) SetAvailable(context.Context, int64, int64, []*model.Slot) (bool, error) {
	return false, nil
}

func (NopSlotCache) Invalidate(context.Context, ...int64) error { return nil }
