package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"go.uber.org/zap"
)

// InitialHorizonDays на сколько дней вперёд создаются слоты при пустой таблице
const InitialHorizonDays = 14

// Window диапазон времени начала слотов, обе границы включительно
type Window struct {
	Start time.Time
	End   time.Time
}

// Ticks возвращает начала слотов окна с шагом 15 минут
func (w Window) Ticks() []time.Time {
	var ticks []time.Time
	for t := w.Start; !t.After(w.End); t = t.Add(model.SlotDuration) {
		ticks = append(ticks, t)
	}
	return ticks
}

// PlanWindows вычисляет окна генерации.
// Без слотов: 14 дней начиная с сегодняшнего, каждый день 09:00-16:45.
// Иначе: от последнего слота D окно [D+1д-8ч+15м, D+1д], то есть ровно один новый рабочий день.
func PlanWindows(latest *model.Slot, now time.Time, loc *time.Location) []Window {
	if latest == nil {
		today := now.In(loc)
		windows := make([]Window, 0, InitialHorizonDays)
		for i := 0; i < InitialHorizonDays; i++ {
			day := today.AddDate(0, 0, i)
			windows = append(windows, Window{
				Start: time.Date(day.Year(), day.Month(), day.Day(), model.WorkdayStartHour, 0, 0, 0, loc),
				End:   time.Date(day.Year(), day.Month(), day.Day(), model.LastSlotStartHour, model.LastSlotStartMinute, 0, 0, loc),
			})
		}
		return windows
	}

	last := latest.SlotDate.In(loc)
	nextDay := last.AddDate(0, 0, 1)
	return []Window{{
		Start: nextDay.Add(-8*time.Hour + model.SlotDuration),
		End:   nextDay,
	}}
}

// SlotGenerator продлевает горизонт свободных слотов всех врачей
type SlotGenerator struct {
	store  Store
	cache  SlotCache
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewSlotGenerator(store Store, cache SlotCache, loc *time.Location, logger *zap.Logger) *SlotGenerator {
	if cache == nil {
		cache = NopSlotCache{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &SlotGenerator{
		store:  store,
		cache:  cache,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// Generate создаёт новые свободные слоты и возвращает их количество.
// Существующие слоты не меняются; при ошибке сохранения ничего не записывается.
func (g *SlotGenerator) Generate(ctx context.Context) (int, error) {
	repos := g.store.Repos()

	doctors, err := repos.Doctors.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list doctors: %w", err)
	}

	if len(doctors) == 0 {
		g.logger.Info("No doctors, slot generation skipped")
		return 0, nil
	}

	latest, err := repos.Slots.GetLatest(ctx)
	if err != nil {
		return 0, fmt.Errorf("get latest slot: %w", err)
	}

	windows := PlanWindows(latest, g.now(), g.loc)

	var (
		slots   []*model.Slot
		offGrid int
	)
	doctorIDs := make([]int64, 0, len(doctors))
	for _, doctor := range doctors {
		doctorIDs = append(doctorIDs, doctor.ID)
		for _, w := range windows {
			for _, tick := range w.Ticks() {
				if !model.OnWorkingGrid(tick) {
					offGrid++
				}
				slots = append(slots, &model.Slot{
					DoctorID: doctor.ID,
					SlotDate: tick,
					Status:   model.SlotStatusOpen,
				})
			}
		}
	}

	// окно строится от последнего слота, слот вне рабочей сетки сдвигает и новые
	if offGrid > 0 && latest != nil {
		g.logger.Warn("Generated slots outside working hours grid",
			zap.Int("slots", offGrid),
			zap.Time("anchor", latest.SlotDate),
		)
	}

	created, err := repos.Slots.CreateBatch(ctx, slots)
	if err != nil {
		return 0, fmt.Errorf("create slots: %w", err)
	}

	if err := g.cache.Invalidate(ctx, doctorIDs...); err != nil {
		g.logger.Warn("Failed to invalidate slot cache", zap.Error(err))
	}

	fields := []zap.Field{
		zap.Int("doctors", len(doctors)),
		zap.Int64("slots_created", created),
		zap.Time("window_start", windows[0].Start),
		zap.Time("window_end", windows[len(windows)-1].End),
	}
	if latest != nil {
		fields = append(fields, zap.Time("anchor", latest.SlotDate))
	}
	g.logger.Info("Slots generated", fields...)

	return int(created), nil
}
