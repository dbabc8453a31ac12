package model

import "time"

type SlotStatus string

const (
	SlotStatusOpen   SlotStatus = "open"
	SlotStatusBooked SlotStatus = "booked"
)

// Рабочее окно врача: слоты по 15 минут с 09:00, последний начинается в 16:45
const (
	SlotDuration        = 15 * time.Minute
	WorkdayStartHour    = 9
	LastSlotStartHour   = 16
	LastSlotStartMinute = 45
)

type Slot struct {
	ID        int64      `json:"id"`
	DoctorID  int64      `json:"doctorId"`
	SlotDate  time.Time  `json:"slotDate"`
	Status    SlotStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// OnWorkingGrid проверяет, что время лежит на 15-минутной сетке внутри рабочего окна
func OnWorkingGrid(t time.Time) bool {
	if t.Second() != 0 || t.Nanosecond() != 0 || t.Minute()%15 != 0 {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= WorkdayStartHour*60 && minutes <= LastSlotStartHour*60+LastSlotStartMinute
}
