package model

import "time"

type Doctor struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	DepartmentID *int64    `json:"departmentId"` // указатель - может быть nil
	Title        string    `json:"title"`
	Salary       int       `json:"salary"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
