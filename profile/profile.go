/*
Package profile assembles the composite "everything about employee X"
read model.

PURPOSE:
  One call fans out to four independent reads - skills, active project
  assignments, lineage, leave balance - and joins them into a single
  Profile. The reads are unrelated and order-independent, so they run
  concurrently; the only ordering requirement is that all complete (or
  individually fail) before the composite returns.

FAILURE POLICY:
  - Unknown employee: fail fast with org.ErrEmployeeNotFound BEFORE any
    secondary lookup is issued.
  - Skills or projects lookup failing: degrade gracefully to an empty
    list, log at warn, and still return a usable profile. A failure in
    one non-critical lookup never cancels the others.
  - Lineage or balance failing: the profile is not usable without them,
    so those errors propagate.

SEE ALSO:
  - org/lineage.go: the lineage read
  - leave/balance.go: the balance read
*/
package profile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/people-engine/calendar"
	"github.com/warp/people-engine/leave"
	"github.com/warp/people-engine/org"
)

// =============================================================================
// READ MODEL
// =============================================================================

// Skill is one skill attributed to an employee.
type Skill struct {
	Name  string
	Level string
}

// ProjectAssignment is one active project an employee is assigned to.
type ProjectAssignment struct {
	ProjectID   int64
	ProjectName string
	RoleName    string
}

// Profile is the composite read model for one employee.
type Profile struct {
	Employee        org.Employee
	Skills          []Skill
	CurrentProjects []ProjectAssignment
	Lineage         []org.LineageNode
	LeaveBalance    leave.Balance
}

// =============================================================================
// LOOKUP CAPABILITY
// =============================================================================

// Lookup is everything the aggregator reads. It extends the org graph
// lookup with skills, assignments, and time-off records.
type Lookup interface {
	org.Lookup

	GetSkills(ctx context.Context, id org.EmployeeID) ([]Skill, error)
	GetActiveProjectAssignments(ctx context.Context, id org.EmployeeID) ([]ProjectAssignment, error)
	GetTimeOffRequests(ctx context.Context, id org.EmployeeID, from, to time.Time) ([]leave.Request, error)
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator builds composite profiles. Safe for concurrent use: each
// call is a pure function over what the lookup returns.
type Aggregator struct {
	Lookup Lookup
	Logger *zap.Logger
	Now    func() time.Time
}

// NewAggregator creates an aggregator over the given lookup.
func NewAggregator(lookup Lookup, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{Lookup: lookup, Logger: logger, Now: time.Now}
}

// GetDetailedProfile returns the composite profile for one employee.
// The accounting year is the calendar year containing now.
func (a *Aggregator) GetDetailedProfile(ctx context.Context, id org.EmployeeID) (*Profile, error) {
	// Fail fast before fanning out: a missing employee fails the whole
	// profile, so no secondary lookup may be issued first.
	employee, err := a.Lookup.GetEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("profile for %d: %w", id, err)
	}

	year := a.Now().UTC().Year()
	p := &Profile{
		Employee:        *employee,
		Skills:          []Skill{},
		CurrentProjects: []ProjectAssignment{},
	}

	var (
		wg         sync.WaitGroup
		lineageErr error
		balanceErr error
	)

	wg.Add(4)

	go func() {
		defer wg.Done()
		skills, err := a.Lookup.GetSkills(ctx, id)
		if err != nil {
			// Non-critical: degrade to empty list.
			a.Logger.Warn("skills lookup failed, returning empty list",
				zap.Int64("employee_id", int64(id)), zap.Error(err))
			return
		}
		p.Skills = skills
	}()

	go func() {
		defer wg.Done()
		projects, err := a.Lookup.GetActiveProjectAssignments(ctx, id)
		if err != nil {
			// Non-critical: degrade to empty list.
			a.Logger.Warn("project assignments lookup failed, returning empty list",
				zap.Int64("employee_id", int64(id)), zap.Error(err))
			return
		}
		p.CurrentProjects = projects
	}()

	go func() {
		defer wg.Done()
		p.Lineage, lineageErr = org.ResolveLineage(ctx, id, a.Lookup)
	}()

	go func() {
		defer wg.Done()
		requests, err := a.Lookup.GetTimeOffRequests(ctx, id,
			calendar.StartOfYear(year), calendar.EndOfYear(year))
		if err != nil {
			balanceErr = fmt.Errorf("time-off requests: %w", err)
			return
		}
		p.LeaveBalance, balanceErr = leave.ComputeBalance(*employee, requests, year)
	}()

	wg.Wait()

	if lineageErr != nil {
		return nil, lineageErr
	}
	if balanceErr != nil {
		return nil, fmt.Errorf("profile for %d: %w", id, balanceErr)
	}
	return p, nil
}
