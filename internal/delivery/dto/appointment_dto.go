package dto

import (
	"time"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,isodate"`
	Time     string    `json:"time" validate:"required,clock"`
	Symptoms string    `json:"symptoms" validate:"omitempty,max=2000"`
}

type UpdateAppointmentStatusRequest struct {
	Status       string              `json:"status" validate:"required"`
	Diagnosis    string              `json:"diagnosis" validate:"omitempty,max=5000"`
	Prescription entity.Prescription `json:"prescription"`
	Notes        string              `json:"notes" validate:"omitempty,max=5000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID             uuid.UUID           `json:"id"`
	PatientID      uuid.UUID           `json:"patient_id"`
	PatientName    string              `json:"patient_name,omitempty"`
	DoctorID       uuid.UUID           `json:"doctor_id"`
	DoctorName     string              `json:"doctor_name,omitempty"`
	Specialization string              `json:"specialization,omitempty"`
	Date           string              `json:"date"`
	Time           string              `json:"time"`
	Status         string              `json:"status"`
	Symptoms       string              `json:"symptoms,omitempty"`
	Diagnosis      string              `json:"diagnosis,omitempty"`
	Prescription   entity.Prescription `json:"prescription"`
	Notes          string              `json:"notes,omitempty"`
	Billing        *BillingResponse    `json:"billing,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
