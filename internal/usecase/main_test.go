package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"hospital-management-api/config"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/repository"
	"hospital-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps an open transaction from racing itself on the shared cache.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Doctor{},
		&entity.Appointment{},
		&entity.Billing{},
		&entity.MedicalRecord{},
		&entity.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func createUser(t *testing.T, db *gorm.DB, name string, role entity.Role) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entity.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createDoctor(t *testing.T, db *gorm.DB, name string, fee int64) *entity.Doctor {
	t.Helper()

	user := createUser(t, db, name, entity.RoleDoctor)
	doctor := entity.NewDefaultDoctor(user.ID)
	doctor.Fee = decimal.NewFromInt(fee)
	require.NoError(t, db.Omit("User").Create(doctor).Error)
	doctor.User = *user
	return doctor
}

func actorOf(user *entity.User) entity.Actor {
	return entity.Actor{ID: user.ID, Role: user.Role}
}

func countAuditLogs(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&entity.AuditLog{}).Where("action = ?", action).Count(&count).Error)
	return count
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []service.Notification
}

func (n *fakeNotifier) Notify(notification service.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *fakeNotifier) Sent() []service.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]service.Notification(nil), n.sent...)
}

type fakeGateway struct {
	orders []service.OrderRequest
	err    error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req service.OrderRequest) (*service.PaymentOrder, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.orders = append(g.orders, req)
	return &service.PaymentOrder{
		ID:          fmt.Sprintf("order_%d", len(g.orders)),
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Status:      "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "valid-signature"
}

type fakeReceipts struct{}

func (fakeReceipts) Render(r service.Receipt) (service.Attachment, error) {
	return service.Attachment{Name: "receipt-" + r.BillID + ".pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
}

type fakeStorage struct {
	saved   []entity.RecordFile
	removed []entity.RecordFile
	err     error
}

func (s *fakeStorage) Save(ctx context.Context, upload service.Upload) (entity.RecordFile, error) {
	if s.err != nil {
		return entity.RecordFile{}, s.err
	}
	file := entity.RecordFile{Name: upload.Filename, URL: "/uploads/medical-records/" + upload.Filename}
	s.saved = append(s.saved, file)
	return file, nil
}

func (s *fakeStorage) Remove(ctx context.Context, file entity.RecordFile) error {
	s.removed = append(s.removed, file)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	notifier *fakeNotifier
	gateway  *fakeGateway
	storage  *fakeStorage

	appointments   AppointmentUsecase
	billing        BillingUsecase
	medicalRecords MedicalRecordUsecase
	patients       PatientUsecase
	doctors        DoctorUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	log := testLogger()

	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	billingRepo := repository.NewBillingRepository()
	medicalRecordRepo := repository.NewMedicalRecordRepository()
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

	env := &testEnv{
		db:       db,
		notifier: &fakeNotifier{},
		gateway:  &fakeGateway{},
		storage:  &fakeStorage{},
	}
	paymentConfig := config.PaymentConfig{KeyID: "rzp_test_key", KeySecret: "secret", Currency: "INR"}

	env.appointments = NewAppointmentUsecase(db, log, userRepo, doctorRepo, appointmentRepo, billingRepo, medicalRecordRepo, auditService, env.notifier)
	env.billing = NewBillingUsecase(db, log, userRepo, appointmentRepo, billingRepo, auditService, env.gateway, fakeReceipts{}, env.notifier, paymentConfig)
	env.medicalRecords = NewMedicalRecordUsecase(db, log, userRepo, appointmentRepo, medicalRecordRepo, auditService, env.storage, 5)
	env.patients = NewPatientUsecase(db, log, userRepo, appointmentRepo, medicalRecordRepo, auditService)
	env.doctors = NewDoctorUsecase(db, log, userRepo, doctorRepo, appointmentRepo, auditService)

	return env
}
