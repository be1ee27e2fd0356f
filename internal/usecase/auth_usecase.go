package usecase

import (
	"context"
	"strings"

	"hospital-management-api/internal/converter"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/domain/repository"
	"hospital-management-api/internal/service"
	"hospital-management-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	notifier     service.Notifier
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	notifier service.Notifier,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		notifier:     notifier,
		jwtService:   jwtService,
		redisClient:  redisClient,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	user := &entity.User{
		Name:    req.Name,
		Email:   req.Email,
		Role:    entity.RolePatient,
		Contact: req.Contact,
	}
	if err := u.register(ctx, user, req.Password, nil); err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	user := &entity.User{
		Name:    req.Name,
		Email:   req.Email,
		Role:    entity.RoleDoctor,
		Contact: req.Contact,
	}

	doctor := entity.NewDefaultDoctor(uuid.Nil)
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if len(req.Qualifications) > 0 {
		doctor.Qualifications = req.Qualifications
	}
	if req.Experience != "" {
		doctor.Experience = req.Experience
	}

	if err := u.register(ctx, user, req.Password, doctor); err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

// CreateAdmin provisions an administrator. It is only reachable from the CLI.
func (u *authUsecase) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*dto.UserResponse, error) {
	user := &entity.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  entity.RoleAdmin,
	}
	if err := u.register(ctx, user, req.Password, nil); err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

// register stores the user and, for doctors, the profile in one transaction.
func (u *authUsecase) register(ctx context.Context, user *entity.User, password string, doctor *entity.Doctor) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}
	user.Password = string(hashedPassword)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByEmail(tx, user.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if existing != nil {
		return ErrEmailAlreadyExists
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return err
	}

	if doctor != nil {
		doctor.UserID = user.ID
		if err := u.doctorRepo.Create(tx, doctor); err != nil {
			u.log.Warnf("Failed to create doctor profile: %+v", err)
			return err
		}
	}

	// Self registration has no authenticated actor; the new account is the actor.
	if err := u.auditService.LogCreate(ctx, tx, user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), converter.UserToResponse(user)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, "email") {
			return ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.notifier.Notify(service.WelcomeEmail(user))
	u.log.Infof("Registered %s account %s", user.Role, user.ID)

	return nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	response, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	response.User = converter.UserToResponse(user)
	return response, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error {
	keys := []string{jwt.TokenKey(jwt.AccessToken, userID, accessTokenID)}

	// The refresh token is optional; an unusable one is ignored so logout still succeeds.
	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			keys = append(keys, jwt.TokenKey(jwt.RefreshToken, userID, claims.TokenID))
		}
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to delete tokens from Redis: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := jwt.TokenKey(jwt.RefreshToken, claims.UserID, claims.TokenID)
	deleted, err := u.redisClient.Del(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}
	// Deleting doubles as the existence check so a token can be rotated only once.
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	// Reload so a changed role or a deleted account is reflected in the new tokens.
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKey := jwt.TokenKey(jwt.AccessToken, user.ID, accessTokenID)
	refreshKey := jwt.TokenKey(jwt.RefreshToken, user.ID, refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKey, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, refreshKey, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}
