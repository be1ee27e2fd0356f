package dto

// Request DTOs

type UpdatePatientRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=255"`
	Contact *string `json:"contact" validate:"omitempty,max=50"`
}

// Response DTOs

type PatientListResponse struct {
	Patients []UserResponse `json:"patients"`
	Total    int            `json:"total"`
}
