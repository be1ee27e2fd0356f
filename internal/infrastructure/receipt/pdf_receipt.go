package receipt

import (
	"bytes"
	"fmt"

	"hospital-management-api/internal/service"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer lays out payment receipts as single page A4 PDFs.
type PDFRenderer struct {
	issuer string
}

func NewPDFRenderer(issuer string) *PDFRenderer {
	return &PDFRenderer{issuer: issuer}
}

func (r *PDFRenderer) Render(rc service.Receipt) (service.Attachment, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, r.issuer, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	addRow(pdf, "Receipt No.", rc.BillID)
	addRow(pdf, "Patient", rc.PatientName)
	addRow(pdf, "Doctor", rc.DoctorName)
	addRow(pdf, "Appointment", rc.AppointmentSlot)
	addRow(pdf, "Amount", fmt.Sprintf("%s %s", rc.Amount, rc.Currency))
	addRow(pdf, "Payment Method", rc.PaymentMethod)
	if rc.TransactionID != "" {
		addRow(pdf, "Transaction ID", rc.TransactionID)
	}
	addRow(pdf, "Paid At", rc.PaidAt.Format("02 Jan 2006 15:04 MST"))

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, "This receipt was generated electronically and is valid without a signature.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return service.Attachment{}, err
	}

	return service.Attachment{
		Name:        fmt.Sprintf("receipt-%s.pdf", rc.BillID),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func addRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
}
