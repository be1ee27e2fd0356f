package http

import (
	"net/http"
	"strings"

	"hospital-management-api/internal/delivery/http/handler"
	"hospital-management-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	patientHandler       *handler.PatientHandler
	doctorHandler        *handler.DoctorHandler
	appointmentHandler   *handler.AppointmentHandler
	billingHandler       *handler.BillingHandler
	medicalRecordHandler *handler.MedicalRecordHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
	loggingMiddleware    *middleware.LoggingMiddleware
	uploadDir            string
	uploadURLPrefix      string
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	billingHandler *handler.BillingHandler,
	medicalRecordHandler *handler.MedicalRecordHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	uploadDir string,
	uploadURLPrefix string,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		patientHandler:       patientHandler,
		doctorHandler:        doctorHandler,
		appointmentHandler:   appointmentHandler,
		billingHandler:       billingHandler,
		medicalRecordHandler: medicalRecordHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
		loggingMiddleware:    loggingMiddleware,
		uploadDir:            uploadDir,
		uploadURLPrefix:      strings.TrimRight(uploadURLPrefix, "/"),
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered before mux rejects the OPTIONS method.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor directory (public)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Everything below requires a valid access token. Ownership checks live in the use cases.
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Patients
	protected.Handle("/patients", middleware.RequireAdmin(http.HandlerFunc(r.patientHandler.GetAllPatients))).Methods(http.MethodGet)
	protected.Handle("/patients/{id}", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.patientHandler.GetPatient))).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	protected.Handle("/patients/{id}", middleware.RequireAdmin(http.HandlerFunc(r.patientHandler.DeletePatient))).Methods(http.MethodDelete)
	protected.HandleFunc("/patients/{id}/appointments", r.patientHandler.GetPatientAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}/medical-records", r.patientHandler.GetPatientMedicalRecords).Methods(http.MethodGet)

	// Doctors
	protected.Handle("/doctors", middleware.RequireAdmin(http.HandlerFunc(r.doctorHandler.CreateDoctor))).Methods(http.MethodPost)
	protected.Handle("/doctors/{id}", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.doctorHandler.UpdateDoctor))).Methods(http.MethodPut)
	protected.Handle("/doctors/{id}", middleware.RequireAdmin(http.HandlerFunc(r.doctorHandler.DeleteDoctor))).Methods(http.MethodDelete)
	protected.Handle("/doctors/{id}/appointments", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.doctorHandler.GetDoctorAppointments))).Methods(http.MethodGet)

	// Appointments
	protected.Handle("/appointments", middleware.RequireAdmin(http.HandlerFunc(r.appointmentHandler.GetAllAppointments))).Methods(http.MethodGet)
	protected.Handle("/appointments", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.BookAppointment))).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.Handle("/appointments/{id}/status", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.appointmentHandler.UpdateAppointmentStatus))).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPut)

	// Billing
	protected.Handle("/billing", middleware.RequireAdmin(http.HandlerFunc(r.billingHandler.GetAllBills))).Methods(http.MethodGet)
	protected.HandleFunc("/billing/patient/{patientId}", r.billingHandler.GetPatientBills).Methods(http.MethodGet)
	protected.HandleFunc("/billing/{id}", r.billingHandler.GetBill).Methods(http.MethodGet)
	protected.HandleFunc("/billing/{id}/payment-intent", r.billingHandler.CreatePaymentIntent).Methods(http.MethodPost)
	protected.HandleFunc("/billing/{id}/payment", r.billingHandler.UpdatePayment).Methods(http.MethodPut)

	// Medical records
	protected.Handle("/medical-records", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.medicalRecordHandler.CreateMedicalRecord))).Methods(http.MethodPost)
	protected.HandleFunc("/medical-records/{id}", r.medicalRecordHandler.GetMedicalRecord).Methods(http.MethodGet)
	protected.Handle("/medical-records/{id}", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.medicalRecordHandler.UpdateMedicalRecord))).Methods(http.MethodPut)
	protected.Handle("/medical-records/{id}/files", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.medicalRecordHandler.AddMedicalRecordFiles))).Methods(http.MethodPut)

	// Audit logs (admin)
	protected.Handle("/audit-logs", middleware.RequireAdmin(http.HandlerFunc(r.auditLogHandler.GetAllAuditLogs))).Methods(http.MethodGet)
	protected.Handle("/audit-logs/{id}", middleware.RequireAdmin(http.HandlerFunc(r.auditLogHandler.GetAuditLog))).Methods(http.MethodGet)

	// Uploaded medical record files
	if r.uploadURLPrefix != "" && r.uploadDir != "" {
		files := http.StripPrefix(r.uploadURLPrefix+"/", http.FileServer(http.Dir(r.uploadDir)))
		r.router.PathPrefix(r.uploadURLPrefix + "/").Handler(files).Methods(http.MethodGet)
	}

	r.router.Use(r.loggingMiddleware.Handle)

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
