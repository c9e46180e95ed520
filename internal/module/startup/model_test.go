package startup

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role  Role
		valid bool
	}{
		{RoleOwner, true},
		{RoleDesign, true},
		{RoleDeveloper, true},
		{RoleDevOps, true},
		{Role("ADMIN"), false},
		{Role("owner"), false},
		{Role(""), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.role.IsValid(), "role %q", tt.role)
	}
}

func TestStartup_OwnerID(t *testing.T) {
	owner := uuid.New()
	dev := uuid.New()
	st := &Startup{
		Members: []Member{
			{UserID: dev, Role: RoleDeveloper},
			{UserID: owner, Role: RoleOwner},
		},
	}
	assert.Equal(t, owner, st.OwnerID())

	empty := &Startup{}
	assert.Equal(t, uuid.Nil, empty.OwnerID())
}

func TestStartup_HasMember(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	st := &Startup{Members: []Member{{UserID: a, Role: RoleOwner}}}

	assert.True(t, st.HasMember(a))
	assert.False(t, st.HasMember(b))
}
