package authx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRolesHas(t *testing.T) {
	roles := Roles{"Admin", " auditor "}
	require.True(t, roles.Has("admin"))
	require.True(t, roles.Has("ADMIN"))
	require.True(t, roles.Has("Auditor"))
	require.False(t, roles.Has("analyst"))
	require.False(t, Roles(nil).Has("admin"))
}

func TestRolesSuperAdmin(t *testing.T) {
	testCases := []Roles{
		{RoleSuperAdmin},
		{"SuperAdmin"},
		{"reader", "SUPERADMIN"},
	}
	for _, roles := range testCases {
		require.True(t, roles.IsSuperAdmin())
		require.True(t, roles.HasAll("anything"))
		require.True(t, roles.HasAll("anything", "at", "all"))
		require.True(t, roles.HasAll())
		require.True(t, roles.HasAny("anything"))
		require.True(t, roles.HasAny())
	}
}

func TestRolesHasAll(t *testing.T) {
	roles := Roles{"a", "B"}
	require.True(t, roles.HasAll("a"))
	require.True(t, roles.HasAll("A", "b"))
	require.False(t, roles.HasAll("a", "c"))
	require.False(t, roles.HasAll("c"))
	// Vacuously true
	require.True(t, roles.HasAll())
}

func TestRolesHasAny(t *testing.T) {
	roles := Roles{"a"}
	require.True(t, roles.HasAny("a", "b"))
	require.True(t, roles.HasAny("b", "A"))
	require.False(t, roles.HasAny("b", "c"))
	require.False(t, roles.HasAny())
}
