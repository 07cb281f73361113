package authx

import "strings"

// Well-known role labels.
const (
	// RoleSuperAdmin satisfies every role check unconditionally.
	RoleSuperAdmin = "superadmin"
	// RoleAdmin is assigned to any session whose login response did not list
	// roles explicitly.
	RoleAdmin = "admin"
	// RoleAnalyst may read dashboard metrics and reports.
	RoleAnalyst = "analyst"
	// RoleAuditor may read the audit log.
	RoleAuditor = "auditor"
	// RoleBroadcaster may read broadcast reports.
	RoleBroadcaster = "broadcaster"
)

// Roles is the set of role labels held by a session. All comparisons are
// case-insensitive.
type Roles []string

// Has returns true if the given role is present. Unlike HasAll and HasAny, it
// does not treat RoleSuperAdmin specially.
func (r Roles) Has(role string) bool {
	role = strings.TrimSpace(role)
	for _, held := range r {
		if strings.EqualFold(strings.TrimSpace(held), role) {
			return true
		}
	}
	return false
}

// IsSuperAdmin returns true if RoleSuperAdmin is present.
func (r Roles) IsSuperAdmin() bool {
	return r.Has(RoleSuperAdmin)
}

// HasAll returns true if RoleSuperAdmin is present or if every one of the
// given roles is present.
func (r Roles) HasAll(roles ...string) bool {
	if r.IsSuperAdmin() {
		return true
	}
	for _, role := range roles {
		if !r.Has(role) {
			return false
		}
	}
	return true
}

// HasAny returns true if RoleSuperAdmin is present or if at least one of the
// given roles is present.
func (r Roles) HasAny(roles ...string) bool {
	if r.IsSuperAdmin() {
		return true
	}
	for _, role := range roles {
		if r.Has(role) {
			return true
		}
	}
	return false
}
