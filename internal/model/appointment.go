package model

import "time"

type Appointment struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patientId"`
	SlotID    int64     `json:"slotId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Заполняется при выборке записей пациента
	Slot *Slot `json:"slot,omitempty"`
}
