package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-management-api/config"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/repository"
	"hospital-management-api/internal/service"
	"hospital-management-api/pkg/jwt"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testAccessExpiry  = 15 * time.Minute
	testRefreshExpiry = 7 * 24 * time.Hour
)

type authEnv struct {
	db         *gorm.DB
	notifier   *fakeNotifier
	redis      redismock.ClientMock
	jwtService *jwt.JWTService
	auth       AuthUsecase
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	db := setupTestDB(t)
	log := testLogger()
	redisClient, mock := redismock.NewClientMock()
	t.Cleanup(func() { redisClient.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  testAccessExpiry,
		RefreshExpiry: testRefreshExpiry,
	})
	notifier := &fakeNotifier{}
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

	return &authEnv{
		db:         db,
		notifier:   notifier,
		redis:      mock,
		jwtService: jwtService,
		auth: NewAuthUsecase(
			db,
			log,
			repository.NewUserRepository(),
			repository.NewDoctorRepository(),
			auditService,
			notifier,
			jwtService,
			redisClient,
		),
	}
}

// expectTokenPair queues the two whitelist writes made when tokens are issued.
func (e *authEnv) expectTokenPair(user *entity.User) {
	e.redis.Regexp().ExpectSet(`^access_token:`+user.ID.String()+`:.+$`, "valid", testAccessExpiry).SetVal("OK")
	e.redis.Regexp().ExpectSet(`^refresh_token:`+user.ID.String()+`:.+$`, "valid", testRefreshExpiry).SetVal("OK")
}

func TestRegisterPatient(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	resp, err := env.auth.RegisterPatient(ctx, &dto.RegisterPatientRequest{
		Name:     "Jane Patient",
		Email:    "  Jane@Example.com ",
		Password: "secret123",
		Contact:  "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.Email)
	assert.Equal(t, "patient", resp.Role)

	var user entity.User
	require.NoError(t, env.db.First(&user, "id = ?", resp.ID).Error)
	assert.NotEqual(t, "secret123", user.Password)

	assert.EqualValues(t, 1, countAuditLogs(t, env.db, entity.AuditActionUserRegister))
	require.Len(t, env.notifier.Sent(), 1)
	assert.Equal(t, "jane@example.com", env.notifier.Sent()[0].To)

	_, err = env.auth.RegisterPatient(ctx, &dto.RegisterPatientRequest{
		Name:     "Jane Again",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterDoctor_CreatesProfileWithDefaults(t *testing.T) {
	env := newAuthEnv(t)

	resp, err := env.auth.RegisterDoctor(context.Background(), &dto.RegisterDoctorRequest{
		Name:           "Dr. New",
		Email:          "new.doctor@example.com",
		Password:       "secret123",
		Specialization: "Cardiology",
	})
	require.NoError(t, err)
	assert.Equal(t, "doctor", resp.Role)

	defaults := entity.NewDefaultDoctor(resp.ID)

	var doctor entity.Doctor
	require.NoError(t, env.db.First(&doctor, "user_id = ?", resp.ID).Error)
	assert.Equal(t, "Cardiology", doctor.Specialization)
	assert.Equal(t, defaults.Experience, doctor.Experience)
	assert.True(t, defaults.Fee.Equal(doctor.Fee))
}

func TestLogin(t *testing.T) {
	env := newAuthEnv(t)
	user := createUser(t, env.db, "Pat", entity.RolePatient)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, &dto.LoginRequest{Email: user.Email, Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	env.expectTokenPair(user)

	resp, err := env.auth.Login(ctx, &dto.LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.EqualValues(t, testAccessExpiry.Seconds(), resp.ExpiresIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := env.jwtService.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.AccessToken, claims.TokenType)
	assert.Equal(t, entity.RolePatient, claims.Role)

	require.NoError(t, env.redis.ExpectationsWereMet())
}

func TestRefreshToken_RotatesOnce(t *testing.T) {
	env := newAuthEnv(t)
	user := createUser(t, env.db, "Pat", entity.RolePatient)
	ctx := context.Background()

	refreshToken, tokenID, err := env.jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)
	refreshKey := jwt.TokenKey(jwt.RefreshToken, user.ID, tokenID)

	env.redis.ExpectDel(refreshKey).SetVal(1)
	env.expectTokenPair(user)

	resp, err := env.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: refreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, refreshToken, resp.RefreshToken)

	env.redis.ExpectDel(refreshKey).SetVal(0)

	_, err = env.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: refreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	require.NoError(t, env.redis.ExpectationsWereMet())
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	env := newAuthEnv(t)
	user := createUser(t, env.db, "Pat", entity.RolePatient)

	accessToken, _, err := env.jwtService.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = env.auth.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: accessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = env.auth.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, env.redis.ExpectationsWereMet())
}

func TestLogout(t *testing.T) {
	env := newAuthEnv(t)
	user := createUser(t, env.db, "Pat", entity.RolePatient)
	other := createUser(t, env.db, "Other", entity.RolePatient)
	ctx := context.Background()

	refreshToken, refreshID, err := env.jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)
	accessKey := jwt.TokenKey(jwt.AccessToken, user.ID, "access-id")

	env.redis.ExpectDel(accessKey, jwt.TokenKey(jwt.RefreshToken, user.ID, refreshID)).SetVal(2)
	require.NoError(t, env.auth.Logout(ctx, user.ID, "access-id", refreshToken))

	// A refresh token issued to someone else is not revoked.
	otherRefresh, _, err := env.jwtService.GenerateRefreshToken(other)
	require.NoError(t, err)
	env.redis.ExpectDel(accessKey).SetVal(1)
	require.NoError(t, env.auth.Logout(ctx, user.ID, "access-id", otherRefresh))

	require.NoError(t, env.redis.ExpectationsWereMet())
}

func TestGetCurrentUser(t *testing.T) {
	env := newAuthEnv(t)
	user := createUser(t, env.db, "Pat", entity.RolePatient)

	resp, err := env.auth.GetCurrentUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, resp.Email)

	_, err = env.auth.GetCurrentUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
