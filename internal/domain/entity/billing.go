package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillingStatus represents the payment state of a bill
type BillingStatus string

const (
	BillingStatusPending   BillingStatus = "pending"
	BillingStatusPaid      BillingStatus = "paid"
	BillingStatusCancelled BillingStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOnline PaymentMethod = "online"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline:
		return true
	}
	return false
}

// Billing is the charge raised for an appointment. It is created together
// with the appointment and its amount is frozen at the doctor's fee of that moment.
type Billing struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status         BillingStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null;default:'online'" json:"payment_method"`
	PaymentDetails JSON            `gorm:"type:jsonb" json:"payment_details,omitempty"`
	GatewayOrderID string          `gorm:"type:varchar(100)" json:"gateway_order_id,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Billing) TableName() string {
	return "billings"
}

func (b *Billing) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Billing) IsPaid() bool {
	return b.Status == BillingStatusPaid
}

func (b *Billing) IsPending() bool {
	return b.Status == BillingStatusPending
}

func (b *Billing) IsCancelled() bool {
	return b.Status == BillingStatusCancelled
}

// MarkPaid settles the bill with the given method and gateway payload.
func (b *Billing) MarkPaid(method PaymentMethod, details JSON, at time.Time) {
	b.Status = BillingStatusPaid
	b.PaymentMethod = method
	b.PaymentDetails = details
	b.PaidAt = &at
}
