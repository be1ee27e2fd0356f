package converter

import (
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity with its preloaded User to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	qualifications := []string(doctor.Qualifications)
	if qualifications == nil {
		qualifications = []string{}
	}

	return &dto.DoctorResponse{
		ID:             doctor.UserID,
		Name:           doctor.User.Name,
		Email:          doctor.User.Email,
		Contact:        doctor.User.Contact,
		Specialization: doctor.Specialization,
		Qualifications: qualifications,
		Experience:     doctor.Experience,
		Fee:            doctor.Fee,
		Schedule:       ScheduleToDTOs(doctor.Schedule),
		Status:         string(doctor.Status),
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func ScheduleToDTOs(schedule []entity.ScheduleSlot) []dto.ScheduleSlotDTO {
	slots := make([]dto.ScheduleSlotDTO, len(schedule))
	for i, s := range schedule {
		slots[i] = dto.ScheduleSlotDTO{Day: s.Day, StartTime: s.StartTime, EndTime: s.EndTime}
	}
	return slots
}

func ScheduleFromDTOs(slots []dto.ScheduleSlotDTO) entity.JSONList[entity.ScheduleSlot] {
	schedule := make(entity.JSONList[entity.ScheduleSlot], len(slots))
	for i, s := range slots {
		schedule[i] = entity.ScheduleSlot{Day: s.Day, StartTime: s.StartTime, EndTime: s.EndTime}
	}
	return schedule
}
