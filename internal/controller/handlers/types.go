package handlers

import (
	"context"

	"github.com/Freeeeeet/hospital_scheduler/internal/auth"
	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/service"
	"go.uber.org/zap"
)

type BookingService interface {
	Book(ctx context.Context, userID, doctorID, slotID int64) (*model.Appointment, error)
	Rebook(ctx context.Context, caller service.Caller, appointmentID, newDoctorID, newSlotID int64) error
	Cancel(ctx context.Context, caller service.Caller, appointmentID int64) error
	ListAvailable(ctx context.Context, doctorID int64) ([]*model.Slot, error)
	ListMine(ctx context.Context, userID int64) ([]*model.Appointment, error)
}

type UserService interface {
	RegisterUser(ctx context.Context, email, firstName, lastName, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	AssignRole(ctx context.Context, userID int64, roleName string) error
}

type PatientService interface {
	CreateProfile(ctx context.Context, userID int64, patient *model.Patient) error
	GetMine(ctx context.Context, userID int64) (*model.Patient, error)
}

type DoctorService interface {
	CreateDoctor(ctx context.Context, doctor *model.Doctor) error
	GetDoctor(ctx context.Context, id int64) (*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]*model.Doctor, error)
	CreateDepartment(ctx context.Context, name string) (*model.Department, error)
	ListDepartments(ctx context.Context) ([]*model.Department, error)
}

// TokenParser проверяет токены доступа
type TokenParser interface {
	ParseToken(tokenString string) (*auth.Claims, error)
}

// Handlers содержит все зависимости HTTP-обработчиков
type Handlers struct {
	userService    UserService
	bookingService BookingService
	patientService PatientService
	doctorService  DoctorService
	tokens         TokenParser
	logger         *zap.Logger
}

// NewHandlers создаёт набор обработчиков
func NewHandlers(
	userService UserService,
	bookingService BookingService,
	patientService PatientService,
	doctorService DoctorService,
	tokens TokenParser,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:    userService,
		bookingService: bookingService,
		patientService: patientService,
		doctorService:  doctorService,
		tokens:         tokens,
		logger:         logger,
	}
}
