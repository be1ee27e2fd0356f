package service

import "time"

// Receipt is the data printed on a payment confirmation.
type Receipt struct {
	BillID          string
	PatientName     string
	DoctorName      string
	AppointmentSlot string
	Amount          string
	Currency        string
	PaymentMethod   string
	TransactionID   string
	PaidAt          time.Time
}

// ReceiptRenderer turns a receipt into an attachable document.
type ReceiptRenderer interface {
	Render(r Receipt) (Attachment, error)
}
