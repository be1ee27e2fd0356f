package repository

import (
	"fmt"
	"testing"
	"time"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Doctor{},
		&entity.Appointment{},
		&entity.Billing{},
	))
	return db
}

func newAppointment(doctorID uuid.UUID, date time.Time, slot string) *entity.Appointment {
	return &entity.Appointment{
		PatientID: uuid.New(),
		DoctorID:  doctorID,
		Date:      date,
		Time:      slot,
		Status:    entity.AppointmentStatusPending,
	}
}

func TestAppointmentRepository_ActiveSlotIsUnique(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppointmentRepository()

	doctorID := uuid.New()
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	first := newAppointment(doctorID, date, "10:00")
	require.NoError(t, repo.Create(db, first))

	err := repo.Create(db, newAppointment(doctorID, date, "10:00"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Other slots, days and doctors are independent.
	require.NoError(t, repo.Create(db, newAppointment(doctorID, date, "10:30")))
	require.NoError(t, repo.Create(db, newAppointment(doctorID, date.AddDate(0, 0, 1), "10:00")))
	require.NoError(t, repo.Create(db, newAppointment(uuid.New(), date, "10:00")))

	affected, err := repo.UpdateStatus(db, first.ID, entity.AppointmentStatusPending, entity.AppointmentStatusCancelled, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	// A cancelled appointment releases its slot.
	require.NoError(t, repo.Create(db, newAppointment(doctorID, date, "10:00")))
}

func TestAppointmentRepository_FindActiveBySlot(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppointmentRepository()

	doctorID := uuid.New()
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	found, err := repo.FindActiveBySlot(db, doctorID, date, "10:00")
	require.NoError(t, err)
	assert.Nil(t, found)

	appointment := newAppointment(doctorID, date, "10:00")
	require.NoError(t, repo.Create(db, appointment))

	found, err = repo.FindActiveBySlot(db, doctorID, date, "10:00")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, appointment.ID, found.ID)

	_, err = repo.UpdateStatus(db, appointment.ID, entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed, nil)
	require.NoError(t, err)

	found, err = repo.FindActiveBySlot(db, doctorID, date, "10:00")
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestAppointmentRepository_UpdateStatusIsConditional(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppointmentRepository()

	appointment := newAppointment(uuid.New(), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "09:00")
	require.NoError(t, repo.Create(db, appointment))

	affected, err := repo.UpdateStatus(db, appointment.ID, entity.AppointmentStatusConfirmed, entity.AppointmentStatusCompleted, map[string]interface{}{"diagnosis": "n/a"})
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = repo.UpdateStatus(db, appointment.ID, entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	stored, err := repo.FindByID(db, appointment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.AppointmentStatusConfirmed, stored.Status)
	assert.Empty(t, stored.Diagnosis)

	missing, err := repo.FindByID(db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
