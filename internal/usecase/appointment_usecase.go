package usecase

import (
	"context"
	"fmt"
	"time"

	"hospital-management-api/internal/converter"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/access"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/domain/repository"
	"hospital-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const activeSlotIndex = "idx_appointments_active_slot"

type AppointmentUsecase interface {
	Book(ctx context.Context, actor entity.Actor, req *dto.BookAppointmentRequest) (*dto.BookAppointmentResponse, error)
	TransitionStatus(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListAll(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorRepo        repository.DoctorRepository
	appointmentRepo   repository.AppointmentRepository
	billingRepo       repository.BillingRepository
	medicalRecordRepo repository.MedicalRecordRepository
	auditService      service.AuditService
	notifier          service.Notifier
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	billingRepo repository.BillingRepository,
	medicalRecordRepo repository.MedicalRecordRepository,
	auditService service.AuditService,
	notifier service.Notifier,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorRepo:        doctorRepo,
		appointmentRepo:   appointmentRepo,
		billingRepo:       billingRepo,
		medicalRecordRepo: medicalRecordRepo,
		auditService:      auditService,
		notifier:          notifier,
	}
}

func (u *appointmentUsecase) Book(ctx context.Context, actor entity.Actor, req *dto.BookAppointmentRequest) (*dto.BookAppointmentResponse, error) {
	if actor.Role != entity.RolePatient {
		return nil, ErrOnlyPatientsCanBook
	}

	date, err := entity.ParseAppointmentDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	slot, err := entity.NormalizeAppointmentTime(req.Time)
	if err != nil {
		return nil, ErrInvalidTime
	}

	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByUserID(db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.IsActive() {
		return nil, ErrDoctorUnavailable
	}

	patient, err := u.userRepo.FindByID(db, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	tx := db.Begin()
	defer tx.Rollback()

	// The partial unique index is the final arbiter; this lookup only gives
	// the common case a clean answer without a failed insert.
	existing, err := u.appointmentRepo.FindActiveBySlot(tx, doctor.UserID, date, slot)
	if err != nil {
		u.log.Warnf("Failed to check doctor availability: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlotTaken
	}

	appointment := &entity.Appointment{
		PatientID: actor.ID,
		DoctorID:  doctor.UserID,
		Date:      date,
		Time:      slot,
		Status:    entity.AppointmentStatusPending,
		Symptoms:  req.Symptoms,
	}
	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, activeSlotIndex) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	billing := &entity.Billing{
		AppointmentID: appointment.ID,
		PatientID:     actor.ID,
		DoctorID:      doctor.UserID,
		Amount:        doctor.Fee,
		Status:        entity.BillingStatusPending,
		PaymentMethod: entity.PaymentMethodOnline,
	}
	if err := u.billingRepo.Create(tx, billing); err != nil {
		u.log.Warnf("Failed to create billing: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actor.ID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		return nil, err
	}
	if err := u.auditService.LogCreate(ctx, tx, actor.ID, entity.AuditActionBillingCreate, "billing", billing.ID.String(), converter.BillingToResponse(billing)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, activeSlotIndex) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Patient = patient
	appointment.Doctor = doctor
	u.notifier.Notify(service.AppointmentBookedEmail(patient, doctor.User.Name, appointment, billing.Amount.StringFixed(2)))

	u.log.Infof("Appointment %s booked with doctor %s at %s", appointment.ID, doctor.UserID, appointment.Slot())

	return &dto.BookAppointmentResponse{
		Appointment: converter.AppointmentToResponse(appointment),
		Billing:     converter.BillingToResponse(billing),
	}, nil
}

func (u *appointmentUsecase) TransitionStatus(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !actor.IsAdmin() && !access.IsOwner(appointment.DoctorID, actor) {
		return nil, ErrAccessDenied
	}

	next := entity.AppointmentStatus(req.Status)
	if !next.IsValid() {
		return nil, ErrInvalidStatus
	}
	if !appointment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, appointment.Status, next)
	}

	oldValue := converter.AppointmentToResponse(appointment)

	fields := map[string]interface{}{}
	if req.Diagnosis != "" {
		fields["diagnosis"] = req.Diagnosis
		appointment.Diagnosis = req.Diagnosis
	}
	if !req.Prescription.IsZero() {
		fields["prescription"] = req.Prescription
		appointment.Prescription = req.Prescription
	}
	if req.Notes != "" {
		fields["notes"] = req.Notes
		appointment.Notes = req.Notes
	}

	if next == entity.AppointmentStatusCompleted && appointment.Diagnosis == "" {
		return nil, ErrDiagnosisRequired
	}

	affected, err := u.appointmentRepo.UpdateStatus(tx, appointment.ID, appointment.Status, next, fields)
	if err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentChanged
	}
	appointment.Status = next

	switch next {
	case entity.AppointmentStatusCompleted:
		record := &entity.MedicalRecord{
			PatientID:     appointment.PatientID,
			DoctorID:      appointment.DoctorID,
			AppointmentID: &appointment.ID,
			Diagnosis:     appointment.Diagnosis,
			Prescription:  appointment.Prescription,
			Notes:         appointment.Notes,
			Date:          time.Now(),
		}
		if err := u.medicalRecordRepo.Create(tx, record); err != nil {
			u.log.Warnf("Failed to create medical record: %+v", err)
			return nil, err
		}
		if err := u.auditService.LogCreate(ctx, tx, actor.ID, entity.AuditActionMedicalRecordCreate, "medical_record", record.ID.String(), converter.MedicalRecordToResponse(record)); err != nil {
			return nil, err
		}
	case entity.AppointmentStatusCancelled:
		if err := u.cancelPendingBill(ctx, tx, actor, appointment); err != nil {
			return nil, err
		}
	}

	newValue := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogUpdate(ctx, tx, actor.ID, entity.AuditActionAppointmentStatus, "appointment", appointment.ID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if appointment.Patient != nil {
		u.notifier.Notify(service.AppointmentStatusEmail(appointment.Patient, appointment))
	}

	u.log.Infof("Appointment %s moved to %s", appointment.ID, next)

	return newValue, nil
}

func (u *appointmentUsecase) Cancel(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !access.IsOwner(appointment.PatientID, actor) {
		return nil, ErrAccessDenied
	}

	if !appointment.Status.CanTransitionTo(entity.AppointmentStatusCancelled) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, appointment.Status, entity.AppointmentStatusCancelled)
	}

	oldValue := converter.AppointmentToResponse(appointment)

	affected, err := u.appointmentRepo.UpdateStatus(tx, appointment.ID, appointment.Status, entity.AppointmentStatusCancelled, nil)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentChanged
	}
	appointment.Status = entity.AppointmentStatusCancelled

	if err := u.cancelPendingBill(ctx, tx, actor, appointment); err != nil {
		return nil, err
	}

	newValue := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogUpdate(ctx, tx, actor.ID, entity.AuditActionAppointmentCancel, "appointment", appointment.ID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if appointment.Patient != nil {
		u.notifier.Notify(service.AppointmentCancelledEmail(appointment.Patient, appointment))
	}

	u.log.Infof("Appointment %s cancelled by patient %s", appointment.ID, actor.ID)

	return newValue, nil
}

// cancelPendingBill voids the appointment's bill while it is still pending.
// A paid bill is left untouched.
func (u *appointmentUsecase) cancelPendingBill(ctx context.Context, tx *gorm.DB, actor entity.Actor, appointment *entity.Appointment) error {
	affected, err := u.billingRepo.CancelPendingByAppointment(tx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to cancel billing: %+v", err)
		return err
	}
	if affected == 0 || appointment.Billing == nil {
		return nil
	}

	oldValue := converter.BillingToResponse(appointment.Billing)
	appointment.Billing.Status = entity.BillingStatusCancelled
	return u.auditService.LogUpdate(ctx, tx, actor.ID, entity.AuditActionBillingCancel, "billing", appointment.Billing.ID.String(), oldValue, converter.BillingToResponse(appointment.Billing))
}

func (u *appointmentUsecase) Get(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	owners := access.Owners{PatientID: appointment.PatientID, DoctorID: appointment.DoctorID}
	if !access.CanAccess(owners, actor) {
		return nil, ErrAccessDenied
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListAll(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrAccessDenied
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}
