package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds. Every error returned by a use case that is meant for the
// caller wraps exactly one of these, so handlers can map it with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a classified use case failure whose message is safe to return to clients.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.kind
}

func newError(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

var (
	ErrAccessDenied = newError(ErrForbidden, "you are not allowed to perform this action")

	// Auth
	ErrEmailAlreadyExists = newError(ErrConflict, "email already exists")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid email or password")
	ErrInvalidToken       = newError(ErrUnauthorized, "invalid or expired token")
	ErrTokenRevoked       = newError(ErrUnauthorized, "token has been revoked")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")

	// Patients and doctors
	ErrPatientNotFound     = newError(ErrNotFound, "patient not found")
	ErrDoctorNotFound      = newError(ErrNotFound, "doctor not found")
	ErrDoctorUnavailable   = newError(ErrConflict, "doctor is not accepting appointments")
	ErrDoctorProfileExists = newError(ErrConflict, "doctor profile already exists")
	ErrUserNotDoctor       = newError(ErrInvalidInput, "user does not have the doctor role")
	ErrInvalidSchedule     = newError(ErrInvalidInput, "schedule times must use HH:MM and end after start")
	ErrInvalidFee          = newError(ErrInvalidInput, "fee must not be negative")
	ErrHasHistory          = newError(ErrConflict, "user still has appointments, bills or records")

	// Appointments
	ErrAppointmentNotFound = newError(ErrNotFound, "appointment not found")
	ErrOnlyPatientsCanBook = newError(ErrForbidden, "only patients can book appointments")
	ErrSlotTaken           = newError(ErrConflict, "doctor is not available at this time")
	ErrInvalidDate         = newError(ErrInvalidInput, "invalid date format, use YYYY-MM-DD")
	ErrInvalidTime         = newError(ErrInvalidInput, "invalid time format, use HH:MM")
	ErrInvalidStatus       = newError(ErrInvalidInput, "invalid appointment status")
	ErrInvalidTransition   = newError(ErrConflict, "invalid appointment status transition")
	ErrAppointmentChanged  = newError(ErrConflict, "appointment was modified by another request")
	ErrDiagnosisRequired   = newError(ErrInvalidInput, "diagnosis is required")

	// Billing
	ErrBillNotFound            = newError(ErrNotFound, "bill not found")
	ErrBillAlreadyPaid         = newError(ErrConflict, "bill is already paid")
	ErrBillCancelled           = newError(ErrConflict, "bill has been cancelled")
	ErrInvalidPaymentMethod    = newError(ErrInvalidInput, "payment method must be one of cash, card, online")
	ErrInvalidPaymentSignature = newError(ErrInvalidInput, "payment signature verification failed")

	// Medical records
	ErrMedicalRecordNotFound = newError(ErrNotFound, "medical record not found")
	ErrTooManyFiles          = newError(ErrInvalidInput, "too many files in one request")
	ErrAppointmentMismatch   = newError(ErrInvalidInput, "appointment belongs to another patient")

	// Audit
	ErrAuditLogNotFound = newError(ErrNotFound, "audit log not found")
)

// isDuplicateKeyError reports a unique constraint violation. When the driver
// exposes the constraint name it must contain constraintName.
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// isForeignKeyError reports a foreign key violation.
func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
