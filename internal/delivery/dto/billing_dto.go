package dto

import (
	"time"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type MarkPaidRequest struct {
	PaymentMethod  string      `json:"payment_method" validate:"required"`
	PaymentDetails entity.JSON `json:"payment_details"`
}

// Response DTOs

type BillingResponse struct {
	ID             uuid.UUID       `json:"id"`
	AppointmentID  uuid.UUID       `json:"appointment_id"`
	PatientID      uuid.UUID       `json:"patient_id"`
	PatientName    string          `json:"patient_name,omitempty"`
	DoctorID       uuid.UUID       `json:"doctor_id"`
	DoctorName     string          `json:"doctor_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentDetails entity.JSON     `json:"payment_details,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type BillingListResponse struct {
	Bills []BillingResponse `json:"bills"`
	Total int               `json:"total"`
}

// PaymentIntentResponse carries what the client needs to open the gateway checkout.
type PaymentIntentResponse struct {
	BillID      uuid.UUID       `json:"bill_id"`
	OrderID     string          `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	AmountMinor int64           `json:"amount_minor"`
	Currency    string          `json:"currency"`
	KeyID       string          `json:"key_id,omitempty"`
}

type BookAppointmentResponse struct {
	Appointment *AppointmentResponse `json:"appointment"`
	Billing     *BillingResponse     `json:"billing"`
}
