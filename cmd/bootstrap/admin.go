package bootstrap

import (
	"context"
	"fmt"

	"hospital-management-api/config"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/infrastructure/database"
	"hospital-management-api/internal/repository"
	"hospital-management-api/internal/service"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/validator"

	"github.com/sirupsen/logrus"
)

// CreateAdmin provisions an administrator account directly against the database.
// Admins cannot register over HTTP, so this is the only way to create one.
func CreateAdmin(ctx context.Context, cfg *config.Config, log *logrus.Logger, req *dto.CreateAdminRequest) (*dto.UserResponse, error) {
	if err := validator.NewValidator().Validate(req); err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	notifications := newNotificationService(cfg, log)
	defer notifications.Stop()

	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

	// Account creation never touches tokens, so no token service or Redis is needed here.
	authUsecase := usecase.NewAuthUsecase(
		db,
		log,
		repository.NewUserRepository(),
		repository.NewDoctorRepository(),
		auditService,
		notifications,
		nil,
		nil,
	)

	return authUsecase.CreateAdmin(ctx, req)
}
