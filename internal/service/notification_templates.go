package service

import (
	"fmt"
	"strings"

	"hospital-management-api/internal/domain/entity"
)

func WelcomeEmail(user *entity.User) Notification {
	return Notification{
		To:      user.Email,
		Subject: "Welcome to the Hospital Management System",
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour %s account has been created. You can now sign in with %s.\n",
			user.Name, user.Role, user.Email,
		),
	}
}

func AppointmentBookedEmail(patient *entity.User, doctorName string, appointment *entity.Appointment, amount string) Notification {
	return Notification{
		To:      patient.Email,
		Subject: "Appointment Booked",
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour appointment with %s on %s has been booked and is pending confirmation.\nAmount due: %s\n",
			patient.Name, doctorName, appointment.Slot(), amount,
		),
	}
}

func AppointmentStatusEmail(patient *entity.User, appointment *entity.Appointment) Notification {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment on %s is now %s.\n",
		patient.Name, appointment.Slot(), appointment.Status,
	)
	if appointment.Status == entity.AppointmentStatusCompleted && appointment.Diagnosis != "" {
		body += fmt.Sprintf("Diagnosis: %s\n", appointment.Diagnosis)
	}
	return Notification{
		To:      patient.Email,
		Subject: "Appointment " + titleCase(string(appointment.Status)),
		Body:    body,
	}
}

// AppointmentCancelledEmail describes what happened to the bill from the
// appointment's loaded Billing, which must reflect the post-cancel state.
func AppointmentCancelledEmail(patient *entity.User, appointment *entity.Appointment) Notification {
	body := fmt.Sprintf("Hello %s,\n\nYour appointment on %s has been cancelled.\n", patient.Name, appointment.Slot())
	if bill := appointment.Billing; bill != nil {
		switch bill.Status {
		case entity.BillingStatusCancelled:
			body += "Its pending bill was voided.\n"
		case entity.BillingStatusPaid:
			body += "Your payment remains on record. Please contact us about a refund.\n"
		}
	}
	return Notification{
		To:      patient.Email,
		Subject: "Appointment Cancelled",
		Body:    body,
	}
}

func PaymentConfirmationEmail(patient *entity.User, billing *entity.Billing, currency, transactionID string, receipt *Attachment) Notification {
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received your payment of %s %s by %s.\n",
		patient.Name, billing.Amount.StringFixed(2), currency, billing.PaymentMethod,
	)
	if transactionID != "" {
		body += fmt.Sprintf("Transaction ID: %s\n", transactionID)
	}

	n := Notification{
		To:      patient.Email,
		Subject: "Payment Confirmation",
		Body:    body,
	}
	if receipt != nil {
		n.Attachments = []Attachment{*receipt}
	}
	return n
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
