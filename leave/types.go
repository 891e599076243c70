/*
Package leave implements time-off accounting: balance computation,
scheduling conflict detection, and the request state machine.

PURPOSE:
  Balances are never stored. Every query recomputes them from the
  current set of time-off request rows, so they are consistent with the
  latest approval state by construction. The only writes this package
  performs are request state transitions, confined to workflow.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: what kind of leave a request is for
  - Status: request lifecycle state; rejected/cancelled are terminal
  - Request: one inclusive [StartDate, EndDate] time-off record

STATE MACHINE:
  pending  -> approved | rejected | cancelled
  approved -> cancelled
  rejected, cancelled -> (terminal, no further transitions)

  Approved is effectively terminal for balance purposes: it is the only
  state that debits a balance.

SEE ALSO:
  - balance.go: per-year balance computation
  - conflict.go: overlap predicate for new requests
  - workflow.go: the approve/reject/cancel collaborator
*/
package leave

import (
	"time"

	"github.com/warp/people-engine/org"
)

// =============================================================================
// CATEGORY
// =============================================================================

// Category is the kind of time off a request covers.
type Category string

const (
	CategoryVacation  Category = "vacation"
	CategorySickLeave Category = "sick_leave"
	CategoryDayOff    Category = "day_off"
	CategoryRemote    Category = "remote"
)

// DebitsVacation reports whether approved or pending requests of this
// category count against the vacation balance. Remote days are tracked
// but never debit anything.
func (c Category) DebitsVacation() bool {
	return c == CategoryVacation || c == CategoryDayOff
}

// Valid reports whether the category is one of the known set.
func (c Category) Valid() bool {
	switch c {
	case CategoryVacation, CategorySickLeave, CategoryDayOff, CategoryRemote:
		return true
	}
	return false
}

// =============================================================================
// STATUS
// =============================================================================

// Status is the lifecycle state of a request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// Live reports whether the request still occupies its date range for
// conflict purposes. Rejected and cancelled requests are not live.
func (s Status) Live() bool { return !s.Terminal() }

// =============================================================================
// REQUEST
// =============================================================================

// Request is one time-off record. StartDate and EndDate are inclusive
// and StartDate <= EndDate when the data is healthy; the accounting
// functions surface calendar.ErrInvalidRange when it is not.
type Request struct {
	ID         string
	EmployeeID org.EmployeeID
	Category   Category
	StartDate  time.Time
	EndDate    time.Time
	Status     Status
	Reason     string

	// Set on rejection.
	RejectionNote string

	// Set on approval.
	ApproverID *org.EmployeeID
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// canTransition encodes the request state machine.
func canTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCancelled
	case StatusApproved:
		return to == StatusCancelled
	default:
		return false
	}
}
