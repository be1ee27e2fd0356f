package converter

import (
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
)

func MedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	files := []entity.RecordFile(record.Files)
	if files == nil {
		files = []entity.RecordFile{}
	}

	response := &dto.MedicalRecordResponse{
		ID:            record.ID,
		PatientID:     record.PatientID,
		DoctorID:      record.DoctorID,
		AppointmentID: record.AppointmentID,
		Diagnosis:     record.Diagnosis,
		Prescription:  record.Prescription,
		Notes:         record.Notes,
		Files:         files,
		Date:          record.Date,
	}

	if record.Patient != nil {
		response.PatientName = record.Patient.Name
	}
	if record.Doctor != nil {
		response.DoctorName = record.Doctor.Name
	}

	return response
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i])
	}
	return responses
}
