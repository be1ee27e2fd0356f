package access

import (
	"testing"

	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()
	owners := Owners{PatientID: patientID, DoctorID: doctorID}

	tests := []struct {
		name  string
		actor entity.Actor
		want  bool
	}{
		{"admin is always allowed", entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin}, true},
		{"owning patient", entity.Actor{ID: patientID, Role: entity.RolePatient}, true},
		{"assigned doctor", entity.Actor{ID: doctorID, Role: entity.RoleDoctor}, true},
		{"other patient", entity.Actor{ID: uuid.New(), Role: entity.RolePatient}, false},
		{"other doctor", entity.Actor{ID: uuid.New(), Role: entity.RoleDoctor}, false},
		{"anonymous", entity.Actor{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(owners, tt.actor))
		})
	}
}

func TestCanAccess_StrangerDeniedRegardlessOfRole(t *testing.T) {
	owners := Owners{PatientID: uuid.New(), DoctorID: uuid.New()}
	for _, role := range []entity.Role{entity.RolePatient, entity.RoleDoctor, entity.Role("nurse"), ""} {
		for i := 0; i < 20; i++ {
			actor := entity.Actor{ID: uuid.New(), Role: role}
			assert.False(t, CanAccess(owners, actor), "role %q", role)
		}
	}
}

func TestCanAccess_NilOwnersDoNotMatchAnonymous(t *testing.T) {
	assert.False(t, CanAccess(Owners{}, entity.Actor{Role: entity.RolePatient}))
}

func TestIsOwner(t *testing.T) {
	ownerID := uuid.New()

	assert.True(t, IsOwner(ownerID, entity.Actor{ID: ownerID, Role: entity.RolePatient}))
	assert.False(t, IsOwner(ownerID, entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin}))
	assert.False(t, IsOwner(uuid.Nil, entity.Actor{Role: entity.RolePatient}))
}
