/*
conflict.go - Scheduling conflict detection for new time-off requests

PURPOSE:
  Decides whether a candidate date range collides with an employee's
  existing live requests. This is a pure predicate: the decision to
  refuse creation belongs to the request-creation flow (workflow.go),
  which keeps the predicate independently testable.

WHAT COUNTS AS A CONFLICT:
  Any overlap with a request whose status is pending or approved.
  Rejected and cancelled requests no longer occupy their dates.

CALLER CONTRACT:
  existing must already be filtered to a single employee. The predicate
  itself is employee-agnostic and evaluates whatever list it is given.
*/
package leave

import (
	"time"

	"github.com/warp/people-engine/calendar"
)

// HasConflict reports whether [candidateStart, candidateEnd] overlaps
// any live (non-terminal) request in existing.
func HasConflict(candidateStart, candidateEnd time.Time, existing []Request) bool {
	for _, req := range existing {
		if !req.Status.Live() {
			continue
		}
		if calendar.RangesOverlap(candidateStart, candidateEnd, req.StartDate, req.EndDate) {
			return true
		}
	}
	return false
}

// FirstConflict returns the first live request overlapping the candidate
// range, or nil when there is none. Handlers use this for error detail.
func FirstConflict(candidateStart, candidateEnd time.Time, existing []Request) *Request {
	for i := range existing {
		req := &existing[i]
		if !req.Status.Live() {
			continue
		}
		if calendar.RangesOverlap(candidateStart, candidateEnd, req.StartDate, req.EndDate) {
			return req
		}
	}
	return nil
}
