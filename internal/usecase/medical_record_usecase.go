package usecase

import (
	"context"
	"errors"
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

type MedicalRecordUsecase interface {
	CreateRecord(ctx context.Context, actor entity.Actor, req *dto.CreateMedicalRecordRequest, uploads []service.Upload) (*dto.MedicalRecordResponse, error)
	GetRecord(ctx context.Context, actor entity.Actor, recordID uuid.UUID) (*dto.MedicalRecordResponse, error)
	UpdateRecord(ctx context.Context, actor entity.Actor, recordID uuid.UUID, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	AddFiles(ctx context.Context, actor entity.Actor, recordID uuid.UUID, uploads []service.Upload) (*dto.MedicalRecordResponse, error)
}

type medicalRecordUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	appointmentRepo   repository.AppointmentRepository
	medicalRecordRepo repository.MedicalRecordRepository
	auditService      service.AuditService
	storage           service.FileStorage
	maxFiles          int
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	medicalRecordRepo repository.MedicalRecordRepository,
	auditService service.AuditService,
	storage service.FileStorage,
	maxFiles int,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		appointmentRepo:   appointmentRepo,
		medicalRecordRepo: medicalRecordRepo,
		auditService:      auditService,
		storage:           storage,
		maxFiles:          maxFiles,
	}
}

func (u *medicalRecordUsecase) CreateRecord(ctx context.Context, actor entity.Actor, req *dto.CreateMedicalRecordRequest, uploads []service.Upload) (*dto.MedicalRecordResponse, error) {
	if !actor.IsAdmin() && !actor.IsDoctor() {
		return nil, ErrAccessDenied
	}
	if req.Diagnosis == "" {
		return nil, ErrDiagnosisRequired
	}
	if len(uploads) > u.maxFiles {
		return nil, ErrTooManyFiles
	}

	db := u.db.WithContext(ctx)

	patient, err := u.userRepo.FindByID(db, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil || patient.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}

	authorID := actor.ID
	if req.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(db, *req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		if appointment.PatientID != req.PatientID {
			return nil, ErrAppointmentMismatch
		}
		if !actor.IsAdmin() && !access.IsOwner(appointment.DoctorID, actor) {
			return nil, ErrAccessDenied
		}
		// Records tied to an appointment are authored by its doctor even when an admin files them.
		authorID = appointment.DoctorID
	}

	files, err := u.saveFiles(ctx, uploads)
	if err != nil {
		return nil, err
	}

	record := &entity.MedicalRecord{
		PatientID:     req.PatientID,
		DoctorID:      authorID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Prescription:  req.Prescription,
		Notes:         req.Notes,
		Files:         files,
		Date:          time.Now(),
	}

	tx := db.Begin()
	defer tx.Rollback()

	if err := u.medicalRecordRepo.Create(tx, record); err != nil {
		u.removeFiles(ctx, files)
		if isForeignKeyError(err) {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	record.Patient = patient
	response := converter.MedicalRecordToResponse(record)
	if err := u.auditService.LogCreate(ctx, tx, actor.ID, entity.AuditActionMedicalRecordCreate, "medical_record", record.ID.String(), response); err != nil {
		u.removeFiles(ctx, files)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.removeFiles(ctx, files)
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *medicalRecordUsecase) GetRecord(ctx context.Context, actor entity.Actor, recordID uuid.UUID) (*dto.MedicalRecordResponse, error) {
	record, err := u.medicalRecordRepo.FindByID(u.db.WithContext(ctx), recordID)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}

	if !access.CanAccess(access.Owners{PatientID: record.PatientID, DoctorID: record.DoctorID}, actor) {
		return nil, ErrAccessDenied
	}

	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) UpdateRecord(ctx context.Context, actor entity.Actor, recordID uuid.UUID, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.findAuthoredRecord(tx, actor, recordID)
	if err != nil {
		return nil, err
	}

	oldValue := converter.MedicalRecordToResponse(record)

	if req.Diagnosis != nil {
		if *req.Diagnosis == "" {
			return nil, ErrDiagnosisRequired
		}
		record.Diagnosis = *req.Diagnosis
	}
	if req.Prescription != nil {
		record.Prescription = *req.Prescription
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	if err := u.medicalRecordRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to update medical record: %+v", err)
		return nil, err
	}

	newValue := converter.MedicalRecordToResponse(record)
	if err := u.auditService.LogUpdate(ctx, tx, actor.ID, entity.AuditActionMedicalRecordUpdate, "medical_record", record.ID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *medicalRecordUsecase) AddFiles(ctx context.Context, actor entity.Actor, recordID uuid.UUID, uploads []service.Upload) (*dto.MedicalRecordResponse, error) {
	if len(uploads) == 0 {
		return nil, newError(ErrInvalidInput, "no files uploaded")
	}
	if len(uploads) > u.maxFiles {
		return nil, ErrTooManyFiles
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.findAuthoredRecord(tx, actor, recordID)
	if err != nil {
		return nil, err
	}

	oldValue := converter.MedicalRecordToResponse(record)

	files, err := u.saveFiles(ctx, uploads)
	if err != nil {
		return nil, err
	}
	record.Files = append(record.Files, files...)

	if err := u.medicalRecordRepo.Update(tx, record); err != nil {
		u.removeFiles(ctx, files)
		u.log.Warnf("Failed to update medical record files: %+v", err)
		return nil, err
	}

	newValue := converter.MedicalRecordToResponse(record)
	if err := u.auditService.LogUpdate(ctx, tx, actor.ID, entity.AuditActionMedicalRecordUpdate, "medical_record", record.ID.String(), oldValue, newValue); err != nil {
		u.removeFiles(ctx, files)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.removeFiles(ctx, files)
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// findAuthoredRecord loads a record the actor may edit: its authoring doctor or an admin.
func (u *medicalRecordUsecase) findAuthoredRecord(db *gorm.DB, actor entity.Actor, recordID uuid.UUID) (*entity.MedicalRecord, error) {
	record, err := u.medicalRecordRepo.FindByID(db, recordID)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}
	if !actor.IsAdmin() && !access.IsOwner(record.DoctorID, actor) {
		return nil, ErrAccessDenied
	}
	return record, nil
}

// saveFiles stores every upload or none: files already written are removed
// when a later one is rejected.
func (u *medicalRecordUsecase) saveFiles(ctx context.Context, uploads []service.Upload) ([]entity.RecordFile, error) {
	files := make([]entity.RecordFile, 0, len(uploads))
	for _, upload := range uploads {
		file, err := u.storage.Save(ctx, upload)
		if err != nil {
			u.removeFiles(ctx, files)
			if errors.Is(err, service.ErrFileTooLarge) || errors.Is(err, service.ErrFileTypeNotAllowed) {
				return nil, newError(ErrInvalidInput, upload.Filename+": "+err.Error())
			}
			u.log.Warnf("Failed to store file %s: %+v", upload.Filename, err)
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (u *medicalRecordUsecase) removeFiles(ctx context.Context, files []entity.RecordFile) {
	for _, file := range files {
		if err := u.storage.Remove(ctx, file); err != nil {
			u.log.Warnf("Failed to remove file %s: %+v", file.Name, err)
		}
	}
}
