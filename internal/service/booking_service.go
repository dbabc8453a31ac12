package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository"
	"go.uber.org/zap"
)

// Caller аутентифицированный пользователь, от имени которого выполняется операция
type Caller struct {
	UserID int64
	Roles  []model.Role
}

// IsAdmin проверяет роль администратора
func (c Caller) IsAdmin() bool {
	for _, r := range c.Roles {
		if r == model.RoleAdmin {
			return true
		}
	}
	return false
}

type BookingService struct {
	store  Store
	cache  SlotCache
	logger *zap.Logger
}

func NewBookingService(store Store, cache SlotCache, logger *zap.Logger) *BookingService {
	if cache == nil {
		cache = NopSlotCache{}
	}
	return &BookingService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Book записывает пациента вызывающего пользователя на свободный слот врача.
// Слот занимается условным UPDATE в той же транзакции, что и создание записи,
// поэтому из двух параллельных попыток успешна только одна.
func (s *BookingService) Book(ctx context.Context, userID, doctorID, slotID int64) (*model.Appointment, error) {
	var appointment *model.Appointment

	err := s.store.InTx(ctx, func(tx Repos) error {
		patient, err := tx.Patients.GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("get patient: %w", err)
		}
		if patient == nil {
			return NotFound(MsgPatientNotFound)
		}

		acquired, err := tx.Slots.Acquire(ctx, slotID, doctorID)
		if err != nil {
			return fmt.Errorf("acquire slot: %w", err)
		}
		if !acquired {
			return NotFound(MsgSlotNotFound)
		}

		appointment = &model.Appointment{
			PatientID: patient.ID,
			SlotID:    slotID,
		}
		if err := tx.Appointments.Create(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return NotFound(MsgSlotNotFound)
			}
			return fmt.Errorf("create appointment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, doctorID)

	s.logger.Info("Slot booked",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("patient_id", appointment.PatientID),
		zap.Int64("doctor_id", doctorID),
		zap.Int64("slot_id", slotID),
	)

	return appointment, nil
}

// Rebook переносит запись на другой свободный слот.
// Освобождение старого слота и захват нового выполняются в одной транзакции:
// если новый слот недоступен, старый остаётся за пациентом.
// Строка записи блокируется, параллельные Rebook и Cancel одной записи идут по очереди.
func (s *BookingService) Rebook(ctx context.Context, caller Caller, appointmentID, newDoctorID, newSlotID int64) error {
	var oldDoctorID int64

	err := s.store.InTx(ctx, func(tx Repos) error {
		appointment, err := s.ownedAppointment(ctx, tx, caller, appointmentID)
		if err != nil {
			return err
		}

		oldSlot, err := tx.Slots.GetByID(ctx, appointment.SlotID)
		if err != nil {
			return fmt.Errorf("get current slot: %w", err)
		}
		if oldSlot != nil {
			oldDoctorID = oldSlot.DoctorID
			if err := releaseBooked(ctx, tx, oldSlot.ID); err != nil {
				return err
			}
		}

		acquired, err := tx.Slots.Acquire(ctx, newSlotID, newDoctorID)
		if err != nil {
			return fmt.Errorf("acquire slot: %w", err)
		}
		if !acquired {
			return NotFound(MsgSlotNotFound)
		}

		if err := tx.Appointments.UpdateSlot(ctx, appointment.ID, newSlotID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return NotFound(MsgSlotNotFound)
			}
			return fmt.Errorf("update appointment: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, oldDoctorID, newDoctorID)

	s.logger.Info("Appointment rebooked",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("doctor_id", newDoctorID),
		zap.Int64("slot_id", newSlotID),
		zap.Int64("user_id", caller.UserID),
	)

	return nil
}

// Cancel удаляет запись и освобождает её слот
func (s *BookingService) Cancel(ctx context.Context, caller Caller, appointmentID int64) error {
	var doctorID int64

	err := s.store.InTx(ctx, func(tx Repos) error {
		appointment, err := s.ownedAppointment(ctx, tx, caller, appointmentID)
		if err != nil {
			return err
		}

		slot, err := tx.Slots.GetByID(ctx, appointment.SlotID)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}

		if err := tx.Appointments.Delete(ctx, appointment.ID); err != nil {
			return fmt.Errorf("delete appointment: %w", err)
		}

		if slot != nil {
			doctorID = slot.DoctorID
			if err := releaseBooked(ctx, tx, slot.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, doctorID)

	s.logger.Info("Appointment canceled",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("user_id", caller.UserID),
	)

	return nil
}

// ListAvailable возвращает свободные слоты врача.
// Пустой список отдаётся как NotFound.
func (s *BookingService) ListAvailable(ctx context.Context, doctorID int64) ([]*model.Slot, error) {
	slots, hit, err := s.cache.GetAvailable(ctx, doctorID)
	if err != nil {
		s.logger.Warn("Failed to read slot cache", zap.Int64("doctor_id", doctorID), zap.Error(err))
	}
	if hit && len(slots) > 0 {
		return slots, nil
	}

	// версия читается до БД: список, прочитанный до чужой инвалидации, в кэш не попадёт
	version, err := s.cache.Version(ctx, doctorID)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("Failed to read slot cache version", zap.Int64("doctor_id", doctorID), zap.Error(err))
	}

	slots, err = s.store.Repos().Slots.GetOpenByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get open slots: %w", err)
	}

	if len(slots) == 0 {
		return nil, NotFound(MsgNoAvailableSlots)
	}

	if cacheable {
		stored, err := s.cache.SetAvailable(ctx, doctorID, version, slots)
		if err != nil {
			s.logger.Warn("Failed to write slot cache", zap.Int64("doctor_id", doctorID), zap.Error(err))
		} else if !stored {
			s.logger.Debug("Stale slot list not cached", zap.Int64("doctor_id", doctorID))
		}
	}

	return slots, nil
}

// ListMine возвращает записи пациента вызывающего пользователя
func (s *BookingService) ListMine(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	repos := s.store.Repos()

	patient, err := repos.Patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if patient == nil {
		return nil, NotFound(MsgPatientNotFound)
	}

	appointments, err := repos.Appointments.GetByPatientID(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("get appointments: %w", err)
	}

	if appointments == nil {
		appointments = []*model.Appointment{}
	}

	return appointments, nil
}

// ownedAppointment блокирует запись и проверяет что она принадлежит пациенту вызывающего.
// Администратор может управлять любой записью.
func (s *BookingService) ownedAppointment(ctx context.Context, tx Repos, caller Caller, appointmentID int64) (*model.Appointment, error) {
	appointment, err := tx.Appointments.GetByIDForUpdate(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, NotFound(MsgAppointmentNotFound)
	}

	if caller.IsAdmin() {
		return appointment, nil
	}

	patient, err := tx.Patients.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if patient == nil || patient.ID != appointment.PatientID {
		return nil, Forbidden(MsgNotAppointmentOwner)
	}

	return appointment, nil
}

// releaseBooked освобождает слот, на который ссылается запись.
// Слот такой записи обязан быть занят.
func releaseBooked(ctx context.Context, tx Repos, slotID int64) error {
	released, err := tx.Slots.Release(ctx, slotID)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if !released {
		return fmt.Errorf("release slot %d: %w", slotID, ErrSlotNotBooked)
	}
	return nil
}

func (s *BookingService) invalidate(ctx context.Context, doctorIDs ...int64) {
	ids := make([]int64, 0, len(doctorIDs))
	for _, id := range doctorIDs {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}

	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.logger.Warn("Failed to invalidate slot cache", zap.Int64s("doctor_ids", ids), zap.Error(err))
	}
}
