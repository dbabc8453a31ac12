package service

import (
	"errors"
	"fmt"
)

// ErrorKind класс ошибки, по нему контроллер выбирает HTTP статус
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindConflict
	KindUnauthorized
	KindForbidden
	KindInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error ошибка бизнес-логики с сообщением для клиента
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is позволяет сравнивать по виду: errors.Is(err, ErrNotFound)
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Образцы для errors.Is: совпадают с любой ошибкой своего вида
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrInvalid      = &Error{Kind: KindInvalid}
)

// ErrSlotNotBooked слот записи оказался свободным, транзакция откатывается
var ErrSlotNotBooked = errors.New("appointment slot is not booked")

func NotFound(message string) error     { return &Error{Kind: KindNotFound, Message: message} }
func Conflict(message string) error     { return &Error{Kind: KindConflict, Message: message} }
func Unauthorized(message string) error { return &Error{Kind: KindUnauthorized, Message: message} }
func Forbidden(message string) error    { return &Error{Kind: KindForbidden, Message: message} }
func Invalid(message string) error      { return &Error{Kind: KindInvalid, Message: message} }

// Сообщения, которые видит клиент
const (
	MsgPatientNotFound     = "Patient profile not found"
	MsgSlotNotFound        = "slot not found"
	MsgAppointmentNotFound = "Appointment not found"
	MsgNoAvailableSlots    = "No available slots found for the selected doctor"
	MsgUserNotFound        = "User not found"
	MsgDoctorNotFound      = "Doctor not found"
	MsgNoDoctors           = "No doctors found"
	MsgDepartmentNotFound  = "Department not found"
	MsgEmailExists         = "This mail already exists."
	MsgInvalidCredentials  = "Invalid credentials"
	MsgNotAppointmentOwner = "Appointment belongs to another patient"
)
