// Package access holds the single ownership rule shared by appointments,
// bills and medical records.
package access

import (
	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

// Owners are the two parties attached to a clinical or billing resource.
type Owners struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
}

// CanAccess allows admins unconditionally and otherwise only the patient or
// doctor the resource belongs to.
func CanAccess(owners Owners, actor entity.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.ID == uuid.Nil {
		return false
	}
	return actor.ID == owners.PatientID || actor.ID == owners.DoctorID
}

// IsOwner is the stricter check for actions reserved to one party, such as a
// patient cancelling their own appointment. Admin is not implied.
func IsOwner(ownerID uuid.UUID, actor entity.Actor) bool {
	return actor.ID != uuid.Nil && actor.ID == ownerID
}
