package dto

import (
	"time"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type CreateMedicalRecordRequest struct {
	PatientID     uuid.UUID           `validate:"required"`
	AppointmentID *uuid.UUID          `validate:"omitempty"`
	Diagnosis     string              `validate:"required,max=5000"`
	Prescription  entity.Prescription `validate:"-"`
	Notes         string              `validate:"omitempty,max=5000"`
}

type UpdateMedicalRecordRequest struct {
	Diagnosis    *string              `json:"diagnosis" validate:"omitempty,min=1,max=5000"`
	Prescription *entity.Prescription `json:"prescription" validate:"-"`
	Notes        *string              `json:"notes" validate:"omitempty,max=5000"`
}

// Response DTOs

type MedicalRecordResponse struct {
	ID            uuid.UUID           `json:"id"`
	PatientID     uuid.UUID           `json:"patient_id"`
	PatientName   string              `json:"patient_name,omitempty"`
	DoctorID      uuid.UUID           `json:"doctor_id"`
	DoctorName    string              `json:"doctor_name,omitempty"`
	AppointmentID *uuid.UUID          `json:"appointment_id,omitempty"`
	Diagnosis     string              `json:"diagnosis"`
	Prescription  entity.Prescription `json:"prescription"`
	Notes         string              `json:"notes,omitempty"`
	Files         []entity.RecordFile `json:"files"`
	Date          time.Time           `json:"date"`
}

type MedicalRecordListResponse struct {
	Records []MedicalRecordResponse `json:"records"`
	Total   int                     `json:"total"`
}
