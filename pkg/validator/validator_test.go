package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required,min=2"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Note   string `validate:"omitempty,max=3"`
}

type slot struct {
	Start string `json:"start_time" validate:"required,clock"`
}

type bookingRequest struct {
	Date  string `json:"date" validate:"required,isodate"`
	Slots []slot `json:"slots" validate:"omitempty,dive"`
}

func TestValidateAcceptsValidStruct(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(sampleRequest{Email: "a@example.com", Name: "Ann", Status: "active"}))
	assert.NoError(t, v.Validate(bookingRequest{Date: "2024-02-29", Slots: []slot{{Start: "9:30"}}}))
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()
	err := v.Validate(sampleRequest{Email: "not-an-email", Status: "archived", Note: "too long"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "email must be a valid email address", errs["email"])
	assert.Equal(t, "name is required", errs["name"])
	assert.Equal(t, "status must be one of: active inactive", errs["status"])
	assert.Equal(t, "Note must be at most 3 characters", errs["Note"])
}

func TestDateAndClockTags(t *testing.T) {
	v := NewValidator()

	err := v.Validate(bookingRequest{Date: "2024-02-30", Slots: []slot{{Start: "10:00"}, {Start: "25:00"}}})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "date must be a date in YYYY-MM-DD format", errs["date"])
	assert.Equal(t, "start_time must be a time in HH:MM format", errs["slots[1].start_time"])
	assert.NotContains(t, errs, "slots[0].start_time")
}
