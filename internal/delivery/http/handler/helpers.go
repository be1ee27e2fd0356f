package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"hospital-management-api/internal/delivery/http/middleware"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/response"
	"hospital-management-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeUsecaseError maps a use case error kind to its HTTP status. Anything
// unclassified becomes a 500 carrying only the fallback message.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrUnauthorized):
		response.Unauthorized(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

// pathUUID reads a UUID route variable and answers 400 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// requestActor reads the caller placed in the context by the auth middleware.
func requestActor(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return entity.Actor{}, false
	}
	return actor, true
}

// decodeJSON reads the request body into req and validates it, answering 400
// itself when either step fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}

	return true
}
