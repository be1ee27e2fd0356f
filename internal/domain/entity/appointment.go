package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Layouts for the calendar day and wall-clock slot of an appointment.
const (
	AppointmentDateLayout = "2006-01-02"
	AppointmentTimeLayout = "15:04"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether the appointment still holds its slot.
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// CanTransitionTo reports whether next is reachable from s in one step.
// Completed and cancelled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a patient's booking of a doctor slot.
//
// The partial unique index keeps at most one pending or confirmed
// appointment per (doctor, date, time) even under concurrent booking.
type Appointment struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID     uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_appointments_active_slot,where:status <> 'cancelled' AND status <> 'completed'" json:"doctor_id"`
	Date         time.Time         `gorm:"type:date;not null;uniqueIndex:idx_appointments_active_slot" json:"date"`
	Time         string            `gorm:"type:varchar(5);not null;uniqueIndex:idx_appointments_active_slot" json:"time"`
	Status       AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Symptoms     string            `gorm:"type:text" json:"symptoms,omitempty"`
	Diagnosis    string            `gorm:"type:text" json:"diagnosis,omitempty"`
	Prescription Prescription      `gorm:"type:jsonb" json:"prescription"`
	Notes        string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *User    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID;references:UserID" json:"doctor,omitempty"`
	Billing *Billing `gorm:"foreignKey:AppointmentID" json:"billing,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// Slot renders the appointment day and time for messages, e.g. "2024-01-10 10:00".
func (a *Appointment) Slot() string {
	return a.Date.Format(AppointmentDateLayout) + " " + a.Time
}

// ParseAppointmentDate parses a YYYY-MM-DD calendar day into UTC midnight.
func ParseAppointmentDate(value string) (time.Time, error) {
	return time.ParseInLocation(AppointmentDateLayout, value, time.UTC)
}

// NormalizeAppointmentTime accepts H:MM or HH:MM on a 24 hour clock and
// returns the zero padded HH:MM form used for slot comparison.
func NormalizeAppointmentTime(value string) (string, error) {
	t, err := time.Parse(AppointmentTimeLayout, value)
	if err != nil {
		return "", err
	}
	return t.Format(AppointmentTimeLayout), nil
}
