package handler

import (
	"net/http"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/response"
	"hospital-management-api/pkg/validator"
)

type BillingHandler struct {
	billingUsecase usecase.BillingUsecase
	validator      *validator.CustomValidator
}

func NewBillingHandler(billingUsecase usecase.BillingUsecase, validator *validator.CustomValidator) *BillingHandler {
	return &BillingHandler{
		billingUsecase: billingUsecase,
		validator:      validator,
	}
}

func (h *BillingHandler) GetAllBills(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}

	bills, err := h.billingUsecase.ListAll(r.Context(), actor)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get bills")
		return
	}

	response.Success(w, http.StatusOK, "Bills retrieved successfully", bills)
}

func (h *BillingHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	billID, ok := pathUUID(w, r, "id", "bill")
	if !ok {
		return
	}

	bill, err := h.billingUsecase.Get(r.Context(), actor, billID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get bill")
		return
	}

	response.Success(w, http.StatusOK, "Bill retrieved successfully", bill)
}

func (h *BillingHandler) GetPatientBills(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	patientID, ok := pathUUID(w, r, "patientId", "patient")
	if !ok {
		return
	}

	bills, err := h.billingUsecase.ListForPatient(r.Context(), actor, patientID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get bills")
		return
	}

	response.Success(w, http.StatusOK, "Bills retrieved successfully", bills)
}

// CreatePaymentIntent opens a gateway order for a pending bill
// @Summary Create payment intent
// @Tags Billing
// @Security BearerAuth
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /billing/{id}/payment-intent [post]
func (h *BillingHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	billID, ok := pathUUID(w, r, "id", "bill")
	if !ok {
		return
	}

	intent, err := h.billingUsecase.CreateIntent(r.Context(), actor, billID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create payment intent")
		return
	}

	response.Success(w, http.StatusOK, "Payment intent created successfully", intent)
}

// UpdatePayment records a settled payment
// @Summary Mark bill as paid
// @Tags Billing
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param request body dto.MarkPaidRequest true "Payment Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /billing/{id}/payment [put]
func (h *BillingHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	billID, ok := pathUUID(w, r, "id", "bill")
	if !ok {
		return
	}

	var req dto.MarkPaidRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	bill, err := h.billingUsecase.MarkPaid(r.Context(), actor, billID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update payment")
		return
	}

	response.Success(w, http.StatusOK, "Payment recorded successfully", bill)
}
