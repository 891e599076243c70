/*
Package org models the employee/team/department graph and resolves
organizational lineage.

PURPOSE:
  The engine reads an employee graph owned by an external store: employees
  carry an optional self-referential manager pointer and an optional team;
  teams belong to departments and may name a lead; departments may name a
  head. The graph is read-only here. The one algorithm of substance is the
  lineage walk (lineage.go), which must survive malformed cyclic data.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee/Team/Department: plain records mirroring the store
  - Allotments: per-employee leave entitlements, decimal-precise
  - Lookup: the capability org consumes instead of talking to a database

DESIGN PRINCIPLES:
  1. Read-only: nothing in this package writes to storage
  2. Strong IDs: EmployeeID/TeamID/DepartmentID cannot be mixed up
  3. Precision: allotments use decimal.Decimal, never float64

SEE ALSO:
  - lineage.go: the cycle-safe manager chain walk
  - role.go: job-title role classification shim
  - leave/balance.go: consumes Allotments
*/
package org

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID int64
type TeamID int64
type DepartmentID int64

// =============================================================================
// EMPLOYEE
// =============================================================================

// EmployeeStatus is the employment lifecycle state.
type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusOnLeave  EmployeeStatus = "on_leave"
	StatusInactive EmployeeStatus = "inactive"
)

// Allotments are the per-employee leave entitlements for one accounting
// year. Values are non-negative; fractional day grants are allowed.
type Allotments struct {
	AnnualVacationDays  decimal.Decimal
	BonusVacationDays   decimal.Decimal
	AnnualSickLeaveDays decimal.Decimal
}

// Employee is one person in the directory. ManagerID is self-referential
// and forms a directed forest when the data is healthy; the lineage walk
// must not assume it is acyclic.
type Employee struct {
	ID        EmployeeID
	FirstName string
	LastName  string
	Position  string
	HireDate  time.Time
	Status    EmployeeStatus

	// Role is the explicit organizational role, when the store provides
	// one. When empty, lineage classification falls back to the job-title
	// heuristic in role.go.
	Role Role

	ManagerID *EmployeeID
	TeamID    *TeamID

	Allotments Allotments
}

// FullName returns "First Last" for display fields.
func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// =============================================================================
// TEAM / DEPARTMENT
// =============================================================================

type Team struct {
	ID           TeamID
	Name         string
	LeadID       *EmployeeID
	DepartmentID DepartmentID
}

type Department struct {
	ID     DepartmentID
	Name   string
	HeadID *EmployeeID
}

// TeamDetail is a team joined with its lead and owning department, the
// shape the lineage walk needs in a single lookup.
type TeamDetail struct {
	Team       Team
	Lead       *Employee
	Department *Department
	Head       *Employee
}

// =============================================================================
// LOOKUP CAPABILITY
// =============================================================================

// Lookup is the read capability org consumes. Implementations live in
// store/sqlite and store/memory; the engine never sees a database.
type Lookup interface {
	// GetEmployee returns the employee or ErrEmployeeNotFound.
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)

	// GetTeamDetail returns the team joined with its lead and department
	// (and the department head), or ErrTeamNotFound. Lead/Department/Head
	// may be nil when the underlying references are unset or dangling.
	GetTeamDetail(ctx context.Context, id TeamID) (*TeamDetail, error)
}
