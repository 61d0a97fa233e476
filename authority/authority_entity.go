package authority

import (
	"strings"
)

const (
	SystemAdminRole = "system:admin"

	DeptRolePrefix   = "dept_"
	LeaderRolePrefix = "leader_"
)

type Permissions []string

func (c Permissions) HasRole(role string) bool {
	for _, v := range c {
		if strings.EqualFold(v, role) {
			return true
		}
	}
	return false
}

func (c Permissions) HasRolePrefix(prefix string) bool {
	for _, v := range c {
		if strings.HasPrefix(strings.ToLower(v), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

func (c Permissions) HasSystemRole() bool {
	for _, v := range c {
		if strings.HasPrefix(strings.ToLower(v), "system:") {
			return true
		}
	}
	return false
}

// HasDeptRole reports whether the permission set covers the named department,
// either as a member or as its leader.
func (c Permissions) HasDeptRole(dept string) bool {
	return c.HasRole(DeptRolePrefix+dept) || c.HasRole(LeaderRolePrefix+dept)
}

func (c Permissions) HasLeaderRole(dept string) bool {
	return c.HasRole(LeaderRolePrefix + dept)
}

func DeptRoles(dept string, leader bool) Permissions {
	perms := Permissions{DeptRolePrefix + dept}
	if leader {
		perms = append(perms, LeaderRolePrefix+dept)
	}
	return perms
}
