package converter

import (
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Patient, doctor and billing details are included when they are loaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:           appointment.ID,
		PatientID:    appointment.PatientID,
		DoctorID:     appointment.DoctorID,
		Date:         appointment.Date.Format(entity.AppointmentDateLayout),
		Time:         appointment.Time,
		Status:       string(appointment.Status),
		Symptoms:     appointment.Symptoms,
		Diagnosis:    appointment.Diagnosis,
		Prescription: appointment.Prescription,
		Notes:        appointment.Notes,
		Billing:      BillingToResponse(appointment.Billing),
		CreatedAt:    appointment.CreatedAt,
		UpdatedAt:    appointment.UpdatedAt,
	}

	if appointment.Patient != nil {
		response.PatientName = appointment.Patient.Name
	}
	if appointment.Doctor != nil {
		response.DoctorName = appointment.Doctor.User.Name
		response.Specialization = appointment.Doctor.Specialization
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
