/*
role.go - Organizational role classification

PURPOSE:
  Lineage nodes carry a relationship role (self, manager, team_lead,
  department_head). The store SHOULD provide an explicit Role on each
  employee; when it does, that wins unconditionally.

COMPATIBILITY SHIM:
  Some upstream stores only carry a free-text job title. For those,
  classifyTitle infers the role from title substrings. This is fragile
  and locale-dependent; it is isolated here so nothing else in the
  engine touches job-title strings. Prefer populating Employee.Role.
*/
package org

import "strings"

// Role is the explicit organizational role of an employee.
type Role string

const (
	RoleUnknown        Role = ""
	RoleManager        Role = "manager"
	RoleTeamLead       Role = "team_lead"
	RoleDepartmentHead Role = "department_head"
)

// RelationshipRole describes how a lineage node relates to the subject
// employee. Unlike Role it includes "self".
type RelationshipRole string

const (
	RelationshipSelf           RelationshipRole = "self"
	RelationshipManager        RelationshipRole = "manager"
	RelationshipTeamLead       RelationshipRole = "team_lead"
	RelationshipDepartmentHead RelationshipRole = "department_head"
)

// classifyManager determines the relationship role for a node on the
// manager chain. An explicit Role takes precedence; the title heuristic
// is the fallback shim.
func classifyManager(e *Employee) RelationshipRole {
	switch e.Role {
	case RoleDepartmentHead:
		return RelationshipDepartmentHead
	case RoleTeamLead:
		return RelationshipTeamLead
	case RoleManager:
		return RelationshipManager
	}
	return classifyTitle(e.Position)
}

// classifyTitle infers a relationship role from a free-text job title.
// Compatibility shim only; see the file header.
func classifyTitle(title string) RelationshipRole {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "department head"), strings.Contains(t, "director"):
		return RelationshipDepartmentHead
	case strings.Contains(t, "lead"):
		return RelationshipTeamLead
	default:
		return RelationshipManager
	}
}
