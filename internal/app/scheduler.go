package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SlotGenerator генерирует очередную порцию слотов
type SlotGenerator interface {
	Generate(ctx context.Context) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	generator SlotGenerator
	schedule  string
	cron      *cron.Cron
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler создаёт новый планировщик. schedule задаётся в формате robfig/cron, например "@every 24h"
func NewScheduler(generator SlotGenerator, schedule string, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}

	cl := newCronLogger(logger)

	return &Scheduler{
		generator: generator,
		schedule:  schedule,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// Start запускает генерацию слотов: сразу при старте и дальше по расписанию
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.schedule, func() { s.generateSlots(s.ctx) }); err != nil {
		s.cancel()
		return fmt.Errorf("invalid slot generation schedule %q: %w", s.schedule, err)
	}

	s.logger.Info("Starting background scheduler", zap.String("schedule", s.schedule))

	// Первый запуск сразу при старте
	s.generateSlots(s.ctx)

	s.cron.Start()
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущего запуска
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")

	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
}

func (s *Scheduler) generateSlots(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.logger.Info("Starting automatic slot generation")

	created, err := s.generator.Generate(ctx)
	if err != nil {
		s.logger.Error("Failed to generate slots", zap.Error(err))
		return
	}

	s.logger.Info("Automatic slot generation completed", zap.Int("created", created))
}
