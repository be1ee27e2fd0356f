package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DoctorStatus string

const (
	DoctorStatusActive   DoctorStatus = "active"
	DoctorStatusInactive DoctorStatus = "inactive"
)

// Profile defaults applied when a doctor registers without filling one in.
const (
	DefaultSpecialization = "General Practitioner"
	DefaultQualification  = "MD"
	DefaultExperience     = "0 years"
)

var DefaultDoctorFee = decimal.NewFromInt(100)

// ScheduleSlot is one weekly availability window, e.g. Monday 09:00-17:00.
type ScheduleSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Doctor holds the professional profile of a user with the doctor role.
// It shares its primary key with the owning user, so a doctor reference
// anywhere in the system is that user's ID.
type Doctor struct {
	UserID         uuid.UUID              `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialization string                 `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Qualifications JSONList[string]       `gorm:"type:jsonb" json:"qualifications"`
	Experience     string                 `gorm:"type:varchar(50)" json:"experience"`
	Fee            decimal.Decimal        `gorm:"type:decimal(10,2);not null" json:"fee"`
	Schedule       JSONList[ScheduleSlot] `gorm:"type:jsonb" json:"schedule"`
	Status         DoctorStatus           `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) IsActive() bool {
	return d.Status == DoctorStatusActive
}

// NewDefaultDoctor returns the profile created for a freshly registered doctor.
func NewDefaultDoctor(userID uuid.UUID) *Doctor {
	return &Doctor{
		UserID:         userID,
		Specialization: DefaultSpecialization,
		Qualifications: JSONList[string]{DefaultQualification},
		Experience:     DefaultExperience,
		Fee:            DefaultDoctorFee,
		Schedule:       JSONList[ScheduleSlot]{},
		Status:         DoctorStatusActive,
	}
}
