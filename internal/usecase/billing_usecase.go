package usecase

import (
	"context"
	"time"

	"hospital-management-api/config"
	"hospital-management-api/internal/converter"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/access"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/domain/repository"
	"hospital-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Keys a checkout callback posts back inside payment details.
const (
	detailOrderID     = "razorpay_order_id"
	detailPaymentID   = "razorpay_payment_id"
	detailSignature   = "razorpay_signature"
	detailTransaction = "transaction_id"
)

var minorUnits = decimal.NewFromInt(100)

type BillingUsecase interface {
	CreateIntent(ctx context.Context, actor entity.Actor, billID uuid.UUID) (*dto.PaymentIntentResponse, error)
	MarkPaid(ctx context.Context, actor entity.Actor, billID uuid.UUID, req *dto.MarkPaidRequest) (*dto.BillingResponse, error)
	ListForPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.BillingListResponse, error)
	Get(ctx context.Context, actor entity.Actor, billID uuid.UUID) (*dto.BillingResponse, error)
	ListAll(ctx context.Context, actor entity.Actor) (*dto.BillingListResponse, error)
}

type billingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	billingRepo     repository.BillingRepository
	auditService    service.AuditService
	gateway         service.PaymentGateway
	receipts        service.ReceiptRenderer
	notifier        service.Notifier
	paymentConfig   config.PaymentConfig
}

func NewBillingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	billingRepo repository.BillingRepository,
	auditService service.AuditService,
	gateway service.PaymentGateway,
	receipts service.ReceiptRenderer,
	notifier service.Notifier,
	paymentConfig config.PaymentConfig,
) BillingUsecase {
	return &billingUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		billingRepo:     billingRepo,
		auditService:    auditService,
		gateway:         gateway,
		receipts:        receipts,
		notifier:        notifier,
		paymentConfig:   paymentConfig,
	}
}

func (u *billingUsecase) CreateIntent(ctx context.Context, actor entity.Actor, billID uuid.UUID) (*dto.PaymentIntentResponse, error) {
	db := u.db.WithContext(ctx)

	billing, err := u.billingRepo.FindByID(db, billID)
	if err != nil {
		u.log.Warnf("Failed to find billing: %+v", err)
		return nil, err
	}
	if billing == nil {
		return nil, ErrBillNotFound
	}

	if !access.IsOwner(billing.PatientID, actor) {
		return nil, ErrAccessDenied
	}
	if billing.IsPaid() {
		return nil, ErrBillAlreadyPaid
	}
	if billing.IsCancelled() {
		return nil, ErrBillCancelled
	}

	amountMinor := billing.Amount.Mul(minorUnits).Round(0).IntPart()
	order, err := u.gateway.CreateOrder(ctx, service.OrderRequest{
		AmountMinor: amountMinor,
		Currency:    u.paymentConfig.Currency,
		Receipt:     billing.ID.String(),
		Notes: map[string]string{
			"bill_id":        billing.ID.String(),
			"appointment_id": billing.AppointmentID.String(),
		},
	})
	if err != nil {
		u.log.Warnf("Failed to create payment order: %+v", err)
		return nil, err
	}

	tx := db.Begin()
	defer tx.Rollback()

	if err := u.billingRepo.SetGatewayOrder(tx, billing.ID, order.ID); err != nil {
		u.log.Warnf("Failed to store payment order: %+v", err)
		return nil, err
	}
	metadata := map[string]interface{}{"order_id": order.ID, "amount_minor": amountMinor, "currency": order.Currency}
	if err := u.auditService.LogCreate(ctx, tx, actor.ID, entity.AuditActionBillingIntent, "billing", billing.ID.String(), metadata); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.PaymentIntentResponse{
		BillID:      billing.ID,
		OrderID:     order.ID,
		Amount:      billing.Amount,
		AmountMinor: amountMinor,
		Currency:    order.Currency,
		KeyID:       u.paymentConfig.KeyID,
	}, nil
}

func (u *billingUsecase) MarkPaid(ctx context.Context, actor entity.Actor, billID uuid.UUID, req *dto.MarkPaidRequest) (*dto.BillingResponse, error) {
	method := entity.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	billing, err := u.billingRepo.FindByID(tx, billID)
	if err != nil {
		u.log.Warnf("Failed to find billing: %+v", err)
		return nil, err
	}
	if billing == nil {
		return nil, ErrBillNotFound
	}

	if !actor.IsAdmin() && !access.IsOwner(billing.PatientID, actor) {
		return nil, ErrAccessDenied
	}
	if billing.IsPaid() {
		return nil, ErrBillAlreadyPaid
	}
	if billing.IsCancelled() {
		return nil, ErrBillCancelled
	}

	if !u.verifyPayment(billing, req.PaymentDetails) {
		return nil, ErrInvalidPaymentSignature
	}

	oldValue := converter.BillingToResponse(billing)
	billing.MarkPaid(method, req.PaymentDetails, time.Now())

	affected, err := u.billingRepo.MarkPaid(tx, billing)
	if err != nil {
		u.log.Warnf("Failed to mark billing as paid: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrBillAlreadyPaid
	}

	// Only a pending appointment advances; anything else keeps its status.
	if _, err := u.appointmentRepo.UpdateStatus(tx, billing.AppointmentID, entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed, nil); err != nil {
		u.log.Warnf("Failed to confirm appointment: %+v", err)
		return nil, err
	}

	newValue := converter.BillingToResponse(billing)
	if err := u.auditService.LogUpdate(ctx, tx, actor.ID, entity.AuditActionBillingPaid, "billing", billing.ID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Billing %s paid by %s", billing.ID, method)
	u.sendPaymentConfirmation(ctx, billing)

	return newValue, nil
}

// verifyPayment checks the gateway signature when the checkout callback
// supplied one. Payments recorded without gateway details are accepted as is.
func (u *billingUsecase) verifyPayment(billing *entity.Billing, details entity.JSON) bool {
	signature := details.String(detailSignature)
	if signature == "" {
		return true
	}
	orderID := details.String(detailOrderID)
	if billing.GatewayOrderID != "" && orderID != billing.GatewayOrderID {
		return false
	}
	return u.gateway.VerifySignature(orderID, details.String(detailPaymentID), signature)
}

func (u *billingUsecase) sendPaymentConfirmation(ctx context.Context, billing *entity.Billing) {
	if billing.Patient == nil {
		return
	}

	transactionID := billing.PaymentDetails.String(detailPaymentID)
	if transactionID == "" {
		transactionID = billing.PaymentDetails.String(detailTransaction)
	}

	receipt := service.Receipt{
		BillID:        billing.ID.String(),
		PatientName:   billing.Patient.Name,
		Amount:        billing.Amount.StringFixed(2),
		Currency:      u.paymentConfig.Currency,
		PaymentMethod: string(billing.PaymentMethod),
		TransactionID: transactionID,
	}
	if billing.PaidAt != nil {
		receipt.PaidAt = *billing.PaidAt
	}
	if billing.Doctor != nil {
		receipt.DoctorName = billing.Doctor.Name
	}
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), billing.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to load appointment for receipt: %+v", err)
	} else if appointment != nil {
		receipt.AppointmentSlot = appointment.Slot()
	}

	var attachment *service.Attachment
	rendered, err := u.receipts.Render(receipt)
	if err != nil {
		u.log.Warnf("Failed to render receipt for billing %s: %+v", billing.ID, err)
	} else {
		attachment = &rendered
	}

	u.notifier.Notify(service.PaymentConfirmationEmail(billing.Patient, billing, u.paymentConfig.Currency, transactionID, attachment))
}

func (u *billingUsecase) ListForPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.BillingListResponse, error) {
	if !access.CanAccess(access.Owners{PatientID: patientID}, actor) {
		return nil, ErrAccessDenied
	}

	db := u.db.WithContext(ctx)

	patient, err := u.userRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil || patient.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}

	billings, err := u.billingRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find billings: %+v", err)
		return nil, err
	}

	return &dto.BillingListResponse{
		Bills: converter.BillingsToResponses(billings),
		Total: len(billings),
	}, nil
}

func (u *billingUsecase) Get(ctx context.Context, actor entity.Actor, billID uuid.UUID) (*dto.BillingResponse, error) {
	billing, err := u.billingRepo.FindByID(u.db.WithContext(ctx), billID)
	if err != nil {
		u.log.Warnf("Failed to find billing: %+v", err)
		return nil, err
	}
	if billing == nil {
		return nil, ErrBillNotFound
	}

	if !access.CanAccess(access.Owners{PatientID: billing.PatientID, DoctorID: billing.DoctorID}, actor) {
		return nil, ErrAccessDenied
	}

	return converter.BillingToResponse(billing), nil
}

func (u *billingUsecase) ListAll(ctx context.Context, actor entity.Actor) (*dto.BillingListResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrAccessDenied
	}

	billings, err := u.billingRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find billings: %+v", err)
		return nil, err
	}

	return &dto.BillingListResponse{
		Bills: converter.BillingsToResponses(billings),
		Total: len(billings),
	}, nil
}
