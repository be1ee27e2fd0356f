package handler

import (
	"net/http"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/response"
	"hospital-management-api/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}

	patients, err := h.patientUsecase.GetAllPatients(r.Context(), actor)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	patientID, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), actor, patientID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	patientID, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	var req dto.UpdatePatientRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), actor, patientID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	patientID, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	if err := h.patientUsecase.DeletePatient(r.Context(), actor, patientID); err != nil {
		writeUsecaseError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

func (h *PatientHandler) GetPatientAppointments(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	patientID, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	appointments, err := h.patientUsecase.GetPatientAppointments(r.Context(), actor, patientID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get patient appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *PatientHandler) GetPatientMedicalRecords(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	patientID, ok := pathUUID(w, r, "id", "patient")
	if !ok {
		return
	}

	records, err := h.patientUsecase.GetPatientMedicalRecords(r.Context(), actor, patientID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get medical records")
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}
