package model

import "time"

type Patient struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	BirthDate *time.Time `json:"birthDate"`
	BloodType string     `json:"bloodType"`
	HeightCm  int        `json:"heightCm"`
	WeightKg  int        `json:"weightKg"`
	CreatedAt time.Time  `json:"createdAt"`
}
