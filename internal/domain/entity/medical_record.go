package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordFile is an attachment stored by the file store and served from URL.
type RecordFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MedicalRecord captures the outcome of a consultation. DoctorID is the
// author, which is the appointment's doctor when the record comes from a
// completed appointment.
type MedicalRecord struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentID *uuid.UUID           `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Diagnosis     string               `gorm:"type:text;not null" json:"diagnosis"`
	Prescription  Prescription         `gorm:"type:jsonb" json:"prescription"`
	Notes         string               `gorm:"type:text" json:"notes,omitempty"`
	Files         JSONList[RecordFile] `gorm:"type:jsonb" json:"files"`
	Date          time.Time            `gorm:"not null" json:"date"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

func (m *MedicalRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}
	return nil
}
