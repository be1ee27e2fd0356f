package repository

import (
	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingRepository interface {
	Create(db *gorm.DB, billing *entity.Billing) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Billing, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Billing, error)
	FindAll(db *gorm.DB) ([]entity.Billing, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Billing, error)
	SetGatewayOrder(db *gorm.DB, id uuid.UUID, orderID string) error
	// MarkPaid settles a pending bill and reports 0 affected rows when it is no longer pending.
	MarkPaid(db *gorm.DB, billing *entity.Billing) (int64, error)
	CancelPendingByAppointment(db *gorm.DB, appointmentID uuid.UUID) (int64, error)
}
