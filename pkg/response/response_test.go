package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		limit  int
		total  int64
		want   Meta
	}{
		{"first page", 0, 20, 45, Meta{Page: 1, Limit: 20, Total: 45, TotalPages: 3}},
		{"third page", 40, 20, 45, Meta{Page: 3, Limit: 20, Total: 45, TotalPages: 3}},
		{"exact fit", 10, 10, 20, Meta{Page: 2, Limit: 10, Total: 20, TotalPages: 2}},
		{"empty", 0, 20, 0, Meta{Page: 1, Limit: 20, Total: 0, TotalPages: 0}},
		{"no limit", 0, 0, 7, Meta{Page: 1, Limit: 0, Total: 7, TotalPages: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, *NewMeta(tt.offset, tt.limit, tt.total))
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Conflict", body.Message)
}
