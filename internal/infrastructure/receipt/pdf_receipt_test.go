package receipt

import (
	"bytes"
	"testing"
	"time"

	"hospital-management-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer("City Hospital")

	att, err := r.Render(service.Receipt{
		BillID:          "b1",
		PatientName:     "Jane Doe",
		DoctorName:      "Dr. Smith",
		AppointmentSlot: "2024-01-10 10:00",
		Amount:          "100.00",
		Currency:        "INR",
		PaymentMethod:   "cash",
		PaidAt:          time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "receipt-b1.pdf", att.Name)
	assert.Equal(t, "application/pdf", att.ContentType)
	assert.True(t, bytes.HasPrefix(att.Data, []byte("%PDF-")))
}
