package usecase

import (
	"context"

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

type PatientUsecase interface {
	GetAllPatients(ctx context.Context, actor entity.Actor) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.UserResponse, error)
	UpdatePatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.UserResponse, error)
	DeletePatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) error
	GetPatientAppointments(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetPatientMedicalRecords(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error)
}

type patientUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	appointmentRepo   repository.AppointmentRepository
	medicalRecordRepo repository.MedicalRecordRepository
	auditService      service.AuditService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	medicalRecordRepo repository.MedicalRecordRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		appointmentRepo:   appointmentRepo,
		medicalRecordRepo: medicalRecordRepo,
		auditService:      auditService,
	}
}

func (u *patientUsecase) GetAllPatients(ctx context.Context, actor entity.Actor) (*dto.PatientListResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrAccessDenied
	}

	patients, err := u.userRepo.FindByRole(u.db.WithContext(ctx), entity.RolePatient)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.UsersToResponses(patients),
		Total:    len(patients),
	}, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.UserResponse, error) {
	if !actor.IsAdmin() && !actor.IsDoctor() {
		return nil, ErrAccessDenied
	}

	patient, err := u.findPatient(u.db.WithContext(ctx), patientID)
	if err != nil {
		return nil, err
	}

	return converter.UserToResponse(patient), nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() && !access.IsOwner(patientID, actor) {
		return nil, ErrAccessDenied
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.findPatient(tx, patientID)
	if err != nil {
		return nil, err
	}

	oldValue := converter.UserToResponse(patient)

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Contact != nil {
		patient.Contact = *req.Contact
	}

	if err := u.userRepo.Update(tx, patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	newValue := converter.UserToResponse(patient)
	if err := u.auditService.LogUpdate(ctx, tx, actor.ID, entity.AuditActionPatientUpdate, "user", patientID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// DeletePatient removes a patient account. Patients with appointments, bills
// or records are kept so history stays intact.
func (u *patientUsecase) DeletePatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrAccessDenied
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.findPatient(tx, patientID)
	if err != nil {
		return err
	}
	oldValue := converter.UserToResponse(patient)

	if err := u.userRepo.Delete(tx, patientID); err != nil {
		if isForeignKeyError(err) {
			return ErrHasHistory
		}
		u.log.Warnf("Failed delete patient: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actor.ID, entity.AuditActionPatientDelete, "user", patientID.String(), oldValue); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if isForeignKeyError(err) {
			return ErrHasHistory
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *patientUsecase) GetPatientAppointments(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	if !canViewPatientHistory(actor, patientID) {
		return nil, ErrAccessDenied
	}

	db := u.db.WithContext(ctx)
	if _, err := u.findPatient(db, patientID); err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *patientUsecase) GetPatientMedicalRecords(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error) {
	if !canViewPatientHistory(actor, patientID) {
		return nil, ErrAccessDenied
	}

	db := u.db.WithContext(ctx)
	if _, err := u.findPatient(db, patientID); err != nil {
		return nil, err
	}

	records, err := u.medicalRecordRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient medical records: %+v", err)
		return nil, err
	}

	return &dto.MedicalRecordListResponse{
		Records: converter.MedicalRecordsToResponses(records),
		Total:   len(records),
	}, nil
}

func (u *patientUsecase) findPatient(db *gorm.DB, patientID uuid.UUID) (*entity.User, error) {
	patient, err := u.userRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil || patient.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

// canViewPatientHistory lets the patient, any doctor and admins read a patient's history.
func canViewPatientHistory(actor entity.Actor, patientID uuid.UUID) bool {
	return actor.IsAdmin() || actor.IsDoctor() || access.IsOwner(patientID, actor)
}
