package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/service"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/response"
	"hospital-management-api/pkg/validator"

	"github.com/google/uuid"
)

const filesField = "files"

type MedicalRecordHandler struct {
	medicalRecordUsecase usecase.MedicalRecordUsecase
	validator            *validator.CustomValidator
	maxUploadBytes       int64
}

// NewMedicalRecordHandler bounds multipart bodies to maxFiles files of maxFileSize bytes plus form fields.
func NewMedicalRecordHandler(medicalRecordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator, maxFileSize int64, maxFiles int) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		medicalRecordUsecase: medicalRecordUsecase,
		validator:            validator,
		maxUploadBytes:       maxFileSize*int64(maxFiles) + 1<<20,
	}
}

// CreateMedicalRecord stores a record with optional attachments
// @Summary Create medical record
// @Tags Medical Records
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param patient_id formData string true "Patient ID"
// @Param appointment_id formData string false "Appointment ID"
// @Param diagnosis formData string true "Diagnosis"
// @Param prescription formData string false "Free text or a JSON list of items"
// @Param notes formData string false "Notes"
// @Param files formData file false "Attachments"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /medical-records [post]
func (h *MedicalRecordHandler) CreateMedicalRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}

	if !h.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	var req dto.CreateMedicalRecordRequest
	patientID, err := uuid.Parse(r.FormValue("patient_id"))
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}
	req.PatientID = patientID

	if raw := strings.TrimSpace(r.FormValue("appointment_id")); raw != "" {
		appointmentID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid appointment ID")
			return
		}
		req.AppointmentID = &appointmentID
	}

	prescription, err := entity.ParsePrescription(r.FormValue("prescription"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	req.Prescription = prescription
	req.Diagnosis = strings.TrimSpace(r.FormValue("diagnosis"))
	req.Notes = r.FormValue("notes")

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	uploads, closeAll, err := openUploads(r.MultipartForm.File[filesField])
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded files")
		return
	}
	defer closeAll()

	record, err := h.medicalRecordUsecase.CreateRecord(r.Context(), actor, &req, uploads)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create medical record")
		return
	}

	response.Success(w, http.StatusCreated, "Medical record created successfully", record)
}

func (h *MedicalRecordHandler) GetMedicalRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	recordID, ok := pathUUID(w, r, "id", "medical record")
	if !ok {
		return
	}

	record, err := h.medicalRecordUsecase.GetRecord(r.Context(), actor, recordID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record retrieved successfully", record)
}

func (h *MedicalRecordHandler) UpdateMedicalRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	recordID, ok := pathUUID(w, r, "id", "medical record")
	if !ok {
		return
	}

	var req dto.UpdateMedicalRecordRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	record, err := h.medicalRecordUsecase.UpdateRecord(r.Context(), actor, recordID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record updated successfully", record)
}

func (h *MedicalRecordHandler) AddMedicalRecordFiles(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	recordID, ok := pathUUID(w, r, "id", "medical record")
	if !ok {
		return
	}

	if !h.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads, closeAll, err := openUploads(r.MultipartForm.File[filesField])
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded files")
		return
	}
	defer closeAll()

	record, err := h.medicalRecordUsecase.AddFiles(r.Context(), actor, recordID, uploads)
	if err != nil {
		writeUsecaseError(w, err, "Failed to add files")
		return
	}

	response.Success(w, http.StatusOK, "Files added successfully", record)
}

func (h *MedicalRecordHandler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form or upload too large")
		return false
	}
	return true
}

// openUploads opens every file part. The returned func closes whatever was opened.
func openUploads(headers []*multipart.FileHeader) ([]service.Upload, func(), error) {
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		files = append(files, f)
		uploads = append(uploads, service.Upload{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  f,
		})
	}
	return uploads, closeAll, nil
}
