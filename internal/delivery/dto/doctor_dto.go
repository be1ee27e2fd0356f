package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ScheduleSlotDTO struct {
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}

// Request DTOs

type CreateDoctorRequest struct {
	UserID         uuid.UUID         `json:"user_id" validate:"required"`
	Specialization string            `json:"specialization" validate:"required,max=100"`
	Qualifications []string          `json:"qualifications" validate:"required,min=1,dive,required"`
	Experience     string            `json:"experience" validate:"required,max=50"`
	Fee            decimal.Decimal   `json:"fee" validate:"required"`
	Schedule       []ScheduleSlotDTO `json:"schedule" validate:"omitempty,dive"`
}

type UpdateDoctorRequest struct {
	Name           *string           `json:"name" validate:"omitempty,min=2,max=255"`
	Contact        *string           `json:"contact" validate:"omitempty,max=50"`
	Specialization *string           `json:"specialization" validate:"omitempty,max=100"`
	Qualifications []string          `json:"qualifications" validate:"omitempty,dive,required"`
	Experience     *string           `json:"experience" validate:"omitempty,max=50"`
	Fee            *decimal.Decimal  `json:"fee"`
	Status         *string           `json:"status" validate:"omitempty,oneof=active inactive"`
	Schedule       []ScheduleSlotDTO `json:"schedule" validate:"omitempty,dive"`
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Contact        string            `json:"contact,omitempty"`
	Specialization string            `json:"specialization"`
	Qualifications []string          `json:"qualifications"`
	Experience     string            `json:"experience"`
	Fee            decimal.Decimal   `json:"fee"`
	Schedule       []ScheduleSlotDTO `json:"schedule"`
	Status         string            `json:"status"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
