package repository

import (
	"time"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindActiveBySlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, slot string) (*entity.Appointment, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	// UpdateStatus moves the appointment from one status to another and
	// reports 0 affected rows when it was no longer in the expected status.
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus, fields map[string]interface{}) (int64, error)
}
