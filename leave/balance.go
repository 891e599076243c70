/*
balance.go - Per-year leave balance computation

PURPOSE:
  Computes a Balance for one employee for one accounting year (the
  calendar year) from the employee's allotments and time-off records.
  Pure function: no storage, no clock, deterministic for its inputs.

WITHIN-YEAR FILTER:
  A request counts toward a year only when BOTH endpoints fall inside
  that year. A request spanning Dec 28 - Jan 3 contributes to neither
  year's totals. This mirrors the upstream system's behavior exactly;
  whether cross-year requests should instead be pro-rated is an open
  product question, so the filter is preserved as implemented and
  pinned by a regression test.

NON-CLAMPING:
  Remaining balances may go negative when an employee is over-allocated.
  That is intentional signal for the caller, not an error, and is never
  clamped to zero.

ACCUMULATION RULES:
  used vacation     += working days, category in {vacation, day_off}, approved
  pending vacation  += working days, category in {vacation, day_off}, pending
  used sick leave   += working days, category sick_leave, approved
  rejected/cancelled requests never contribute; remote never debits.

SEE ALSO:
  - calendar/calendar.go: WorkingDaysInclusive, WithinYear
  - org/types.go: Allotments
*/
package leave

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/people-engine/calendar"
	"github.com/warp/people-engine/org"
)

// Balance is the computed leave position of one employee for one year.
// Recomputed on every query from current request rows; never persisted.
type Balance struct {
	EmployeeID org.EmployeeID
	Year       int

	TotalVacationDays     decimal.Decimal
	UsedVacationDays      decimal.Decimal
	PendingVacationDays   decimal.Decimal
	RemainingVacationDays decimal.Decimal

	TotalSickLeaveDays     decimal.Decimal
	UsedSickLeaveDays      decimal.Decimal
	RemainingSickLeaveDays decimal.Decimal
}

// ComputeBalance computes the employee's balance for asOfYear from the
// given request set. Requests for other employees must be filtered out
// by the caller; the function is employee-agnostic over its list.
//
// The only failure mode is calendar.ErrInvalidRange propagating from a
// stored record whose start is after its end.
func ComputeBalance(employee org.Employee, requests []Request, asOfYear int) (Balance, error) {
	b := Balance{
		EmployeeID:         employee.ID,
		Year:               asOfYear,
		TotalVacationDays:  employee.Allotments.AnnualVacationDays.Add(employee.Allotments.BonusVacationDays),
		TotalSickLeaveDays: employee.Allotments.AnnualSickLeaveDays,
	}

	for _, req := range requests {
		if req.Status.Terminal() {
			continue
		}
		// Both-ends-within-year filter: cross-year requests are excluded
		// entirely. See the file header.
		if !calendar.WithinYear(req.StartDate, req.EndDate, asOfYear) {
			continue
		}

		days, err := calendar.WorkingDaysInclusive(req.StartDate, req.EndDate)
		if err != nil {
			return Balance{}, fmt.Errorf("request %s: %w", req.ID, err)
		}
		length := decimal.NewFromInt(int64(days))

		switch {
		case req.Category.DebitsVacation() && req.Status == StatusApproved:
			b.UsedVacationDays = b.UsedVacationDays.Add(length)
		case req.Category.DebitsVacation() && req.Status == StatusPending:
			b.PendingVacationDays = b.PendingVacationDays.Add(length)
		case req.Category == CategorySickLeave && req.Status == StatusApproved:
			b.UsedSickLeaveDays = b.UsedSickLeaveDays.Add(length)
		}
	}

	// No clamping: negative remaining balance is surfaced as-is.
	b.RemainingVacationDays = b.TotalVacationDays.Sub(b.UsedVacationDays)
	b.RemainingSickLeaveDays = b.TotalSickLeaveDays.Sub(b.UsedSickLeaveDays)
	return b, nil
}
