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

type DoctorUsecase interface {
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error)
	CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, actor entity.Actor, userID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, actor entity.Actor, userID uuid.UUID) error
	GetDoctorAppointments(ctx context.Context, actor entity.Actor, userID uuid.UUID) (*dto.AppointmentListResponse, error)
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

// GetAllDoctors lists the doctors that currently accept appointments.
func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAllActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

// CreateDoctor attaches a profile to an existing doctor account that has none.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrAccessDenied
	}
	if req.Fee.IsNegative() {
		return nil, ErrInvalidFee
	}
	if !validSchedule(req.Schedule) {
		return nil, ErrInvalidSchedule
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, req.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role != entity.RoleDoctor {
		return nil, ErrUserNotDoctor
	}
	if user.Doctor != nil {
		return nil, ErrDoctorProfileExists
	}

	doctor := &entity.Doctor{
		UserID:         user.ID,
		Specialization: req.Specialization,
		Qualifications: req.Qualifications,
		Experience:     req.Experience,
		Fee:            req.Fee,
		Schedule:       converter.ScheduleFromDTOs(req.Schedule),
		Status:         entity.DoctorStatusActive,
	}
	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "doctors_pkey") {
			return nil, ErrDoctorProfileExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}
	user.Doctor = nil
	doctor.User = *user

	response := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogCreate(ctx, tx, actor.ID, entity.AuditActionDoctorCreate, "doctor", doctor.UserID.String(), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, actor entity.Actor, userID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if !actor.IsAdmin() && !access.IsOwner(userID, actor) {
		return nil, ErrAccessDenied
	}
	if req.Fee != nil && req.Fee.IsNegative() {
		return nil, ErrInvalidFee
	}
	if !validSchedule(req.Schedule) {
		return nil, ErrInvalidSchedule
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	// Capture old value for audit
	oldValue := converter.DoctorToResponse(doctor)

	userChanged := false
	if req.Name != nil {
		doctor.User.Name = *req.Name
		userChanged = true
	}
	if req.Contact != nil {
		doctor.User.Contact = *req.Contact
		userChanged = true
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.Qualifications != nil {
		doctor.Qualifications = req.Qualifications
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.Fee != nil {
		doctor.Fee = *req.Fee
	}
	if req.Status != nil {
		doctor.Status = entity.DoctorStatus(*req.Status)
	}
	if req.Schedule != nil {
		doctor.Schedule = converter.ScheduleFromDTOs(req.Schedule)
	}

	if userChanged {
		if err := u.userRepo.Update(tx, &doctor.User); err != nil {
			u.log.Warnf("Failed to update doctor user: %+v", err)
			return nil, err
		}
	}
	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogUpdate(ctx, tx, actor.ID, entity.AuditActionDoctorUpdate, "doctor", userID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// DeleteDoctor removes the profile and the account. Doctors with clinical or
// billing history cannot be removed.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, actor entity.Actor, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrAccessDenied
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	oldValue := converter.DoctorToResponse(doctor)

	if err := u.doctorRepo.Delete(tx, userID); err != nil {
		if isForeignKeyError(err) {
			return ErrHasHistory
		}
		u.log.Warnf("Failed delete doctor: %+v", err)
		return err
	}
	if err := u.userRepo.Delete(tx, userID); err != nil {
		if isForeignKeyError(err) {
			return ErrHasHistory
		}
		u.log.Warnf("Failed delete doctor user: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actor.ID, entity.AuditActionDoctorDelete, "doctor", userID.String(), oldValue); err != nil {
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

func (u *doctorUsecase) GetDoctorAppointments(ctx context.Context, actor entity.Actor, userID uuid.UUID) (*dto.AppointmentListResponse, error) {
	if !actor.IsAdmin() && !access.IsOwner(userID, actor) {
		return nil, ErrAccessDenied
	}

	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByUserID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointments, err := u.appointmentRepo.FindByDoctorID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func validSchedule(slots []dto.ScheduleSlotDTO) bool {
	for _, slot := range slots {
		start, err := entity.NormalizeAppointmentTime(slot.StartTime)
		if err != nil {
			return false
		}
		end, err := entity.NormalizeAppointmentTime(slot.EndTime)
		if err != nil {
			return false
		}
		// Zero padded HH:MM strings order the same way as the times they hold.
		if end <= start {
			return false
		}
	}
	return true
}
