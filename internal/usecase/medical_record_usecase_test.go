package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadsOf(names ...string) []service.Upload {
	uploads := make([]service.Upload, 0, len(names))
	for _, name := range names {
		uploads = append(uploads, service.Upload{Filename: name, Size: 4, Content: strings.NewReader("data")})
	}
	return uploads
}

func TestMedicalRecordCreate_WithFiles(t *testing.T) {
	env := newTestEnv(t)
	patient := createUser(t, env.db, "Pat", entity.RolePatient)
	doctor := createDoctor(t, env.db, "Dr. Chart", 100)
	ctx := context.Background()

	resp, err := env.medicalRecords.CreateRecord(ctx, actorOf(&doctor.User), &dto.CreateMedicalRecordRequest{
		PatientID: patient.ID,
		Diagnosis: "Seasonal allergy",
		Prescription: entity.ItemsPrescription([]entity.PrescriptionItem{
			{Medicine: "Cetirizine", Dosage: "10mg", Frequency: "daily"},
		}),
	}, uploadsOf("scan.pdf", "xray.png"))
	require.NoError(t, err)

	assert.Equal(t, patient.ID, resp.PatientID)
	assert.Equal(t, doctor.UserID, resp.DoctorID)
	assert.Equal(t, "Pat", resp.PatientName)
	require.Len(t, resp.Files, 2)
	assert.Len(t, env.storage.saved, 2)

	var record entity.MedicalRecord
	require.NoError(t, env.db.First(&record, "id = ?", resp.ID).Error)
	assert.Equal(t, entity.PrescriptionKindItems, record.Prescription.Kind)
	require.Len(t, record.Prescription.Items, 1)
	assert.Equal(t, "Cetirizine", record.Prescription.Items[0].Medicine)
	assert.Len(t, record.Files, 2)

	assert.EqualValues(t, 1, countAuditLogs(t, env.db, entity.AuditActionMedicalRecordCreate))
}

func TestMedicalRecordCreate_Rules(t *testing.T) {
	env := newTestEnv(t)
	patient := createUser(t, env.db, "Pat", entity.RolePatient)
	other := createUser(t, env.db, "Other", entity.RolePatient)
	doctor := createDoctor(t, env.db, "Dr. Rules", 100)
	colleague := createDoctor(t, env.db, "Dr. Colleague", 100)
	ctx := context.Background()

	booked := bookSlot(t, env, patient, doctor, "2024-01-10", "10:00")
	appointmentID := booked.Appointment.ID

	tests := []struct {
		name    string
		actor   entity.Actor
		req     dto.CreateMedicalRecordRequest
		uploads []service.Upload
		wantErr error
	}{
		{
			name:    "patient cannot write records",
			actor:   actorOf(patient),
			req:     dto.CreateMedicalRecordRequest{PatientID: patient.ID, Diagnosis: "Flu"},
			wantErr: ErrForbidden,
		},
		{
			name:    "diagnosis required",
			actor:   actorOf(&doctor.User),
			req:     dto.CreateMedicalRecordRequest{PatientID: patient.ID},
			wantErr: ErrDiagnosisRequired,
		},
		{
			name:    "unknown patient",
			actor:   actorOf(&doctor.User),
			req:     dto.CreateMedicalRecordRequest{PatientID: uuid.New(), Diagnosis: "Flu"},
			wantErr: ErrPatientNotFound,
		},
		{
			name:    "doctor is not a patient",
			actor:   actorOf(&doctor.User),
			req:     dto.CreateMedicalRecordRequest{PatientID: colleague.UserID, Diagnosis: "Flu"},
			wantErr: ErrPatientNotFound,
		},
		{
			name:    "too many files",
			actor:   actorOf(&doctor.User),
			req:     dto.CreateMedicalRecordRequest{PatientID: patient.ID, Diagnosis: "Flu"},
			uploads: uploadsOf("1.pdf", "2.pdf", "3.pdf", "4.pdf", "5.pdf", "6.pdf"),
			wantErr: ErrTooManyFiles,
		},
		{
			name:    "appointment of another patient",
			actor:   actorOf(&doctor.User),
			req:     dto.CreateMedicalRecordRequest{PatientID: other.ID, AppointmentID: &appointmentID, Diagnosis: "Flu"},
			wantErr: ErrAppointmentMismatch,
		},
		{
			name:    "appointment of another doctor",
			actor:   actorOf(&colleague.User),
			req:     dto.CreateMedicalRecordRequest{PatientID: patient.ID, AppointmentID: &appointmentID, Diagnosis: "Flu"},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.medicalRecords.CreateRecord(ctx, tt.actor, &tt.req, tt.uploads)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, env.storage.saved)
	assert.Zero(t, countAuditLogs(t, env.db, entity.AuditActionMedicalRecordCreate))
}

func TestMedicalRecordCreate_AdminFilesForAppointmentDoctor(t *testing.T) {
	env := newTestEnv(t)
	patient := createUser(t, env.db, "Pat", entity.RolePatient)
	doctor := createDoctor(t, env.db, "Dr. Owner", 100)
	admin := createUser(t, env.db, "Admin", entity.RoleAdmin)

	booked := bookSlot(t, env, patient, doctor, "2024-01-10", "10:00")
	appointmentID := booked.Appointment.ID

	resp, err := env.medicalRecords.CreateRecord(context.Background(), actorOf(admin), &dto.CreateMedicalRecordRequest{
		PatientID:     patient.ID,
		AppointmentID: &appointmentID,
		Diagnosis:     "Follow-up",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, doctor.UserID, resp.DoctorID)
	require.NotNil(t, resp.AppointmentID)
	assert.Equal(t, appointmentID, *resp.AppointmentID)
}

func TestMedicalRecordCreate_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.storage.err = service.ErrFileTypeNotAllowed
	patient := createUser(t, env.db, "Pat", entity.RolePatient)
	doctor := createDoctor(t, env.db, "Dr. Files", 100)

	_, err := env.medicalRecords.CreateRecord(context.Background(), actorOf(&doctor.User), &dto.CreateMedicalRecordRequest{
		PatientID: patient.ID,
		Diagnosis: "Rash",
	}, uploadsOf("malware.exe"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	env.storage.err = errors.New("disk full")
	_, err = env.medicalRecords.CreateRecord(context.Background(), actorOf(&doctor.User), &dto.CreateMedicalRecordRequest{
		PatientID: patient.ID,
		Diagnosis: "Rash",
	}, uploadsOf("photo.jpg"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidInput))

	var count int64
	require.NoError(t, env.db.Model(&entity.MedicalRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMedicalRecordUpdateAndAddFiles(t *testing.T) {
	env := newTestEnv(t)
	patient := createUser(t, env.db, "Pat", entity.RolePatient)
	doctor := createDoctor(t, env.db, "Dr. Author", 100)
	colleague := createDoctor(t, env.db, "Dr. Colleague", 100)
	ctx := context.Background()

	created, err := env.medicalRecords.CreateRecord(ctx, actorOf(&doctor.User), &dto.CreateMedicalRecordRequest{
		PatientID: patient.ID,
		Diagnosis: "Migraine",
		Notes:     "Initial visit",
	}, nil)
	require.NoError(t, err)

	diagnosis := "Tension headache"
	_, err = env.medicalRecords.UpdateRecord(ctx, actorOf(&colleague.User), created.ID, &dto.UpdateMedicalRecordRequest{Diagnosis: &diagnosis})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.medicalRecords.UpdateRecord(ctx, actorOf(patient), created.ID, &dto.UpdateMedicalRecordRequest{Diagnosis: &diagnosis})
	assert.ErrorIs(t, err, ErrForbidden)

	empty := ""
	_, err = env.medicalRecords.UpdateRecord(ctx, actorOf(&doctor.User), created.ID, &dto.UpdateMedicalRecordRequest{Diagnosis: &empty})
	assert.ErrorIs(t, err, ErrDiagnosisRequired)

	prescription := entity.TextPrescription("Rest and fluids")
	updated, err := env.medicalRecords.UpdateRecord(ctx, actorOf(&doctor.User), created.ID, &dto.UpdateMedicalRecordRequest{
		Diagnosis:    &diagnosis,
		Prescription: &prescription,
	})
	require.NoError(t, err)
	assert.Equal(t, diagnosis, updated.Diagnosis)
	assert.Equal(t, "Initial visit", updated.Notes)
	assert.Equal(t, "Rest and fluids", updated.Prescription.Text)

	_, err = env.medicalRecords.AddFiles(ctx, actorOf(&colleague.User), created.ID, uploadsOf("a.pdf"))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.medicalRecords.AddFiles(ctx, actorOf(&doctor.User), created.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	withFiles, err := env.medicalRecords.AddFiles(ctx, actorOf(&doctor.User), created.ID, uploadsOf("a.pdf"))
	require.NoError(t, err)
	require.Len(t, withFiles.Files, 1)

	withFiles, err = env.medicalRecords.AddFiles(ctx, actorOf(&doctor.User), created.ID, uploadsOf("b.pdf"))
	require.NoError(t, err)
	require.Len(t, withFiles.Files, 2)
	assert.Equal(t, "a.pdf", withFiles.Files[0].Name)
	assert.Equal(t, "b.pdf", withFiles.Files[1].Name)

	_, err = env.medicalRecords.UpdateRecord(ctx, actorOf(&doctor.User), uuid.New(), &dto.UpdateMedicalRecordRequest{Diagnosis: &diagnosis})
	assert.ErrorIs(t, err, ErrMedicalRecordNotFound)

	assert.EqualValues(t, 3, countAuditLogs(t, env.db, entity.AuditActionMedicalRecordUpdate))
}

func TestMedicalRecordGet_Access(t *testing.T) {
	env := newTestEnv(t)
	patient := createUser(t, env.db, "Pat", entity.RolePatient)
	stranger := createUser(t, env.db, "Stranger", entity.RolePatient)
	doctor := createDoctor(t, env.db, "Dr. Author", 100)
	colleague := createDoctor(t, env.db, "Dr. Colleague", 100)
	admin := createUser(t, env.db, "Admin", entity.RoleAdmin)
	ctx := context.Background()

	created, err := env.medicalRecords.CreateRecord(ctx, actorOf(&doctor.User), &dto.CreateMedicalRecordRequest{
		PatientID: patient.ID,
		Diagnosis: "Sprain",
	}, nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   entity.Actor
		allowed bool
	}{
		{"patient", actorOf(patient), true},
		{"author", actorOf(&doctor.User), true},
		{"admin", actorOf(admin), true},
		{"stranger", actorOf(stranger), false},
		{"other doctor", actorOf(&colleague.User), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.medicalRecords.GetRecord(ctx, tt.actor, created.ID)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, "Sprain", resp.Diagnosis)
				return
			}
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}
