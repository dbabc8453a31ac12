package handlers

// Константы валидации
const (
	// Пароль пользователя
	PasswordMinLength = 8
	PasswordMaxLength = 72 // предел bcrypt

	// Имя и фамилия
	NameMaxLength = 100

	// Название отделения и должность врача
	DepartmentNameMaxLength = 100
	DoctorTitleMaxLength    = 100

	// Рост (см) и вес (кг) пациента
	PatientMaxHeightCm = 300
	PatientMaxWeightKg = 500

	// Формат даты рождения
	DateLayout = "2006-01-02"
)

// Ключи gin.Context
const (
	ctxUserID    = "user_id"
	ctxRoles     = "roles"
	ctxRequestID = "request_id"
)

var bloodTypes = map[string]bool{
	"A+": true, "A-": true,
	"B+": true, "B-": true,
	"AB+": true, "AB-": true,
	"O+": true, "O-": true,
}
