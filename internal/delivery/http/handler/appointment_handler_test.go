package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/delivery/http/middleware"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/response"
	"hospital-management-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) Book(ctx context.Context, actor entity.Actor, req *dto.BookAppointmentRequest) (*dto.BookAppointmentResponse, error) {
	args := m.Called(ctx, actor, req)
	resp, _ := args.Get(0).(*dto.BookAppointmentResponse)
	return resp, args.Error(1)
}

func (m *MockAppointmentUsecase) TransitionStatus(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, actor, appointmentID, req)
	resp, _ := args.Get(0).(*dto.AppointmentResponse)
	return resp, args.Error(1)
}

func (m *MockAppointmentUsecase) Cancel(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, actor, appointmentID)
	resp, _ := args.Get(0).(*dto.AppointmentResponse)
	return resp, args.Error(1)
}

func (m *MockAppointmentUsecase) Get(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, actor, appointmentID)
	resp, _ := args.Get(0).(*dto.AppointmentResponse)
	return resp, args.Error(1)
}

func (m *MockAppointmentUsecase) ListAll(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, actor)
	resp, _ := args.Get(0).(*dto.AppointmentListResponse)
	return resp, args.Error(1)
}

// withActor attaches the identity the auth middleware would have placed on the request.
func withActor(req *http.Request, actor entity.Actor) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, actor.ID)
	ctx = context.WithValue(ctx, middleware.RoleKey, actor.Role)
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAppointmentHandler_BookAppointment(t *testing.T) {
	patient := entity.Actor{ID: uuid.New(), Role: entity.RolePatient}
	doctorID := uuid.New()

	bookBody := func() *bytes.Buffer {
		body, _ := json.Marshal(map[string]string{
			"doctor_id": doctorID.String(),
			"date":      "2024-01-10",
			"time":      "10:00",
		})
		return bytes.NewBuffer(body)
	}

	t.Run("books the slot", func(t *testing.T) {
		mockUsecase := new(MockAppointmentUsecase)
		h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

		appointmentID := uuid.New()
		mockUsecase.On("Book", mock.Anything, patient, mock.MatchedBy(func(req *dto.BookAppointmentRequest) bool {
			return req.DoctorID == doctorID && req.Date == "2024-01-10" && req.Time == "10:00"
		})).Return(&dto.BookAppointmentResponse{
			Appointment: &dto.AppointmentResponse{ID: appointmentID, Status: "pending"},
		}, nil)

		req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bookBody()), patient)
		rec := httptest.NewRecorder()
		h.BookAppointment(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeResponse(t, rec)
		assert.True(t, body.Success)
		mockUsecase.AssertExpectations(t)
	})

	t.Run("taken slot is a conflict", func(t *testing.T) {
		mockUsecase := new(MockAppointmentUsecase)
		h := NewAppointmentHandler(mockUsecase, validator.NewValidator())
		mockUsecase.On("Book", mock.Anything, patient, mock.Anything).Return(nil, usecase.ErrSlotTaken)

		req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bookBody()), patient)
		rec := httptest.NewRecorder()
		h.BookAppointment(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, usecase.ErrSlotTaken.Error(), decodeResponse(t, rec).Message)
	})

	t.Run("invalid json", func(t *testing.T) {
		mockUsecase := new(MockAppointmentUsecase)
		h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

		req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString("invalid-json")), patient)
		rec := httptest.NewRecorder()
		h.BookAppointment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockUsecase.AssertNotCalled(t, "Book", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		mockUsecase := new(MockAppointmentUsecase)
		h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

		req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString(`{"date":"2024-01-10"}`)), patient)
		rec := httptest.NewRecorder()
		h.BookAppointment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", decodeResponse(t, rec).Message)
		mockUsecase.AssertNotCalled(t, "Book", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no actor in context", func(t *testing.T) {
		mockUsecase := new(MockAppointmentUsecase)
		h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bookBody())
		rec := httptest.NewRecorder()
		h.BookAppointment(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAppointmentHandler_CancelAppointment(t *testing.T) {
	patient := entity.Actor{ID: uuid.New(), Role: entity.RolePatient}

	t.Run("malformed id", func(t *testing.T) {
		mockUsecase := new(MockAppointmentUsecase)
		h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

		req := withActor(httptest.NewRequest(http.MethodPut, "/api/v1/appointments/nope/cancel", nil), patient)
		req = mux.SetURLVars(req, map[string]string{"id": "nope"})
		rec := httptest.NewRecorder()
		h.CancelAppointment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cancels", func(t *testing.T) {
		mockUsecase := new(MockAppointmentUsecase)
		h := NewAppointmentHandler(mockUsecase, validator.NewValidator())

		appointmentID := uuid.New()
		mockUsecase.On("Cancel", mock.Anything, patient, appointmentID).
			Return(&dto.AppointmentResponse{ID: appointmentID, Status: "cancelled"}, nil)

		req := withActor(httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+appointmentID.String()+"/cancel", nil), patient)
		req = mux.SetURLVars(req, map[string]string{"id": appointmentID.String()})
		rec := httptest.NewRecorder()
		h.CancelAppointment(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockUsecase.AssertExpectations(t)
	})
}

func TestWriteUsecaseError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{usecase.ErrInvalidDate, http.StatusBadRequest, usecase.ErrInvalidDate.Error()},
		{usecase.ErrAppointmentNotFound, http.StatusNotFound, usecase.ErrAppointmentNotFound.Error()},
		{usecase.ErrAccessDenied, http.StatusForbidden, usecase.ErrAccessDenied.Error()},
		{usecase.ErrBillAlreadyPaid, http.StatusConflict, usecase.ErrBillAlreadyPaid.Error()},
		{usecase.ErrTokenRevoked, http.StatusUnauthorized, usecase.ErrTokenRevoked.Error()},
		{fmt.Errorf("%w: pending to completed", usecase.ErrInvalidTransition), http.StatusConflict, ""},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, "Something failed"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeUsecaseError(rec, tt.err, "Something failed")

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeResponse(t, rec)
			assert.False(t, body.Success)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
		})
	}
}
