package handlers

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
)

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

func (r *registerRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil || strings.TrimSpace(r.Email) == "" {
		return errors.New("email is invalid")
	}
	if strings.TrimSpace(r.FirstName) == "" || len(r.FirstName) > NameMaxLength {
		return fmt.Errorf("firstName must be 1..%d characters", NameMaxLength)
	}
	if strings.TrimSpace(r.LastName) == "" || len(r.LastName) > NameMaxLength {
		return fmt.Errorf("lastName must be 1..%d characters", NameMaxLength)
	}
	if len(r.Password) < PasswordMinLength || len(r.Password) > PasswordMaxLength {
		return fmt.Errorf("password must be %d..%d characters", PasswordMinLength, PasswordMaxLength)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

// appointmentRequest тело POST и PUT /api/appointment
type appointmentRequest struct {
	SlotID   int64 `json:"slotId"`
	DoctorID int64 `json:"doctorId"`
}

func (r *appointmentRequest) Validate() error {
	if r.SlotID <= 0 {
		return errors.New("slotId must be a positive integer")
	}
	if r.DoctorID <= 0 {
		return errors.New("doctorId must be a positive integer")
	}
	return nil
}

type patientRequest struct {
	BirthDate string `json:"birthDate"`
	BloodType string `json:"bloodType"`
	HeightCm  int    `json:"heightCm"`
	WeightKg  int    `json:"weightKg"`
}

func (r *patientRequest) Validate() error {
	if r.BirthDate != "" {
		birth, err := time.Parse(DateLayout, r.BirthDate)
		if err != nil {
			return errors.New("birthDate must be YYYY-MM-DD")
		}
		if birth.After(time.Now()) {
			return errors.New("birthDate is in the future")
		}
	}
	if r.BloodType != "" && !bloodTypes[strings.ToUpper(r.BloodType)] {
		return errors.New("bloodType is invalid")
	}
	if r.HeightCm < 0 || r.HeightCm > PatientMaxHeightCm {
		return fmt.Errorf("heightCm must be 0..%d", PatientMaxHeightCm)
	}
	if r.WeightKg < 0 || r.WeightKg > PatientMaxWeightKg {
		return fmt.Errorf("weightKg must be 0..%d", PatientMaxWeightKg)
	}
	return nil
}

// Patient вызывать только после успешного Validate
func (r *patientRequest) Patient() *model.Patient {
	p := &model.Patient{
		BloodType: strings.ToUpper(r.BloodType),
		HeightCm:  r.HeightCm,
		WeightKg:  r.WeightKg,
	}
	if r.BirthDate != "" {
		birth, _ := time.Parse(DateLayout, r.BirthDate)
		p.BirthDate = &birth
	}
	return p
}

type doctorRequest struct {
	UserID       int64  `json:"userId"`
	DepartmentID *int64 `json:"departmentId"`
	Title        string `json:"title"`
	Salary       int    `json:"salary"`
}

func (r *doctorRequest) Validate() error {
	if r.UserID <= 0 {
		return errors.New("userId must be a positive integer")
	}
	if r.DepartmentID != nil && *r.DepartmentID <= 0 {
		return errors.New("departmentId must be a positive integer")
	}
	if len(r.Title) > DoctorTitleMaxLength {
		return fmt.Errorf("title must be at most %d characters", DoctorTitleMaxLength)
	}
	if r.Salary < 0 {
		return errors.New("salary must not be negative")
	}
	return nil
}

type departmentRequest struct {
	Name string `json:"name"`
}

func (r *departmentRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" || len(name) > DepartmentNameMaxLength {
		return fmt.Errorf("name must be 1..%d characters", DepartmentNameMaxLength)
	}
	return nil
}

type roleRequest struct {
	Role string `json:"role"`
}

func (r *roleRequest) Validate() error {
	if strings.TrimSpace(r.Role) == "" {
		return errors.New("role is required")
	}
	return nil
}

type validator interface {
	Validate() error
}
