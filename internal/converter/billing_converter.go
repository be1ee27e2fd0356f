package converter

import (
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
)

// BillingToResponse converts a Billing entity to BillingResponse DTO
func BillingToResponse(billing *entity.Billing) *dto.BillingResponse {
	if billing == nil {
		return nil
	}

	response := &dto.BillingResponse{
		ID:             billing.ID,
		AppointmentID:  billing.AppointmentID,
		PatientID:      billing.PatientID,
		DoctorID:       billing.DoctorID,
		Amount:         billing.Amount,
		Status:         string(billing.Status),
		PaymentMethod:  string(billing.PaymentMethod),
		PaymentDetails: billing.PaymentDetails,
		PaidAt:         billing.PaidAt,
		CreatedAt:      billing.CreatedAt,
	}

	if billing.Patient != nil {
		response.PatientName = billing.Patient.Name
	}
	if billing.Doctor != nil {
		response.DoctorName = billing.Doctor.Name
	}

	return response
}

// BillingsToResponses converts a slice of Billing entities to slice of BillingResponse DTOs
func BillingsToResponses(billings []entity.Billing) []dto.BillingResponse {
	responses := make([]dto.BillingResponse, len(billings))
	for i := range billings {
		responses[i] = *BillingToResponse(&billings[i])
	}
	return responses
}
