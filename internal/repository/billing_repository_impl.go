package repository

import (
	"errors"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type billingRepository struct{}

func NewBillingRepository() domainRepo.BillingRepository {
	return &billingRepository{}
}

func (r *billingRepository) Create(db *gorm.DB, billing *entity.Billing) error {
	return db.Omit("Patient", "Doctor").Create(billing).Error
}

func (r *billingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Billing, error) {
	var billing entity.Billing
	err := db.Preload("Patient").Preload("Doctor").Where("id = ?", id).First(&billing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &billing, nil
}

func (r *billingRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Billing, error) {
	var billing entity.Billing
	err := db.Where("appointment_id = ?", appointmentID).First(&billing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &billing, nil
}

func (r *billingRepository) FindAll(db *gorm.DB) ([]entity.Billing, error) {
	var billings []entity.Billing
	err := db.Preload("Patient").Preload("Doctor").Order("created_at DESC").Find(&billings).Error
	if err != nil {
		return nil, err
	}
	return billings, nil
}

func (r *billingRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Billing, error) {
	var billings []entity.Billing
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&billings).Error
	if err != nil {
		return nil, err
	}
	return billings, nil
}

func (r *billingRepository) SetGatewayOrder(db *gorm.DB, id uuid.UUID, orderID string) error {
	return db.Model(&entity.Billing{}).Where("id = ?", id).Update("gateway_order_id", orderID).Error
}

// MarkPaid only touches a bill that is still unpaid so two concurrent
// settlements cannot both succeed.
func (r *billingRepository) MarkPaid(db *gorm.DB, billing *entity.Billing) (int64, error) {
	result := db.Model(&entity.Billing{}).
		Where("id = ? AND status = ?", billing.ID, entity.BillingStatusPending).
		Updates(map[string]interface{}{
			"status":          entity.BillingStatusPaid,
			"payment_method":  billing.PaymentMethod,
			"payment_details": billing.PaymentDetails,
			"paid_at":         billing.PaidAt,
		})
	return result.RowsAffected, result.Error
}

func (r *billingRepository) CancelPendingByAppointment(db *gorm.DB, appointmentID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Billing{}).
		Where("appointment_id = ? AND status = ?", appointmentID, entity.BillingStatusPending).
		Update("status", entity.BillingStatusCancelled)
	return result.RowsAffected, result.Error
}
