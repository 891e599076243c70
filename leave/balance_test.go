package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/people-engine/calendar"
	"github.com/warp/people-engine/leave"
	"github.com/warp/people-engine/org"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func allotted(vacation, bonus, sick int64) org.Employee {
	return org.Employee{
		ID:        1,
		FirstName: "Dana",
		LastName:  "Example",
		Allotments: org.Allotments{
			AnnualVacationDays:  decimal.NewFromInt(vacation),
			BonusVacationDays:   decimal.NewFromInt(bonus),
			AnnualSickLeaveDays: decimal.NewFromInt(sick),
		},
	}
}

func request(id string, cat leave.Category, status leave.Status, start, end time.Time) leave.Request {
	return leave.Request{
		ID:         id,
		EmployeeID: 1,
		Category:   cat,
		StartDate:  start,
		EndDate:    end,
		Status:     status,
	}
}

// =============================================================================
// ACCUMULATION
// =============================================================================

func TestComputeBalance_ApprovedVacationWeek(t *testing.T) {
	// GIVEN: 20 vacation days allotted and one approved Mon-Fri vacation
	// WHEN: computing the 2025 balance
	// THEN: 5 working days used, 15 remaining

	emp := allotted(20, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategoryVacation, leave.StatusApproved,
			day(2025, time.June, 9), day(2025, time.June, 13)),
	}

	b, err := leave.ComputeBalance(emp, reqs, 2025)
	require.NoError(t, err)

	assert.Equal(t, "20", b.TotalVacationDays.String())
	assert.Equal(t, "5", b.UsedVacationDays.String())
	assert.Equal(t, "0", b.PendingVacationDays.String())
	assert.Equal(t, "15", b.RemainingVacationDays.String())
	assert.Equal(t, "10", b.RemainingSickLeaveDays.String())
}

func TestComputeBalance_BonusDaysExtendTotal(t *testing.T) {
	emp := allotted(20, 3, 10)

	b, err := leave.ComputeBalance(emp, nil, 2025)
	require.NoError(t, err)

	assert.Equal(t, "23", b.TotalVacationDays.String())
	assert.Equal(t, "23", b.RemainingVacationDays.String())
}

func TestComputeBalance_PendingTrackedSeparately(t *testing.T) {
	// GIVEN: one approved day and one pending Mon-Tue request
	// THEN: pending accrues its own counter and never reduces remaining

	emp := allotted(20, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategoryVacation, leave.StatusApproved,
			day(2025, time.February, 3), day(2025, time.February, 3)),
		request("r2", leave.CategoryVacation, leave.StatusPending,
			day(2025, time.March, 10), day(2025, time.March, 11)),
	}

	b, err := leave.ComputeBalance(emp, reqs, 2025)
	require.NoError(t, err)

	assert.Equal(t, "1", b.UsedVacationDays.String())
	assert.Equal(t, "2", b.PendingVacationDays.String())
	assert.Equal(t, "19", b.RemainingVacationDays.String())
}

func TestComputeBalance_DayOffDebitsVacation(t *testing.T) {
	emp := allotted(20, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategoryDayOff, leave.StatusApproved,
			day(2025, time.March, 10), day(2025, time.March, 10)),
	}

	b, err := leave.ComputeBalance(emp, reqs, 2025)
	require.NoError(t, err)

	assert.Equal(t, "1", b.UsedVacationDays.String())
	assert.Equal(t, "19", b.RemainingVacationDays.String())
}

func TestComputeBalance_SickLeaveSeparatePool(t *testing.T) {
	emp := allotted(20, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategorySickLeave, leave.StatusApproved,
			day(2025, time.March, 10), day(2025, time.March, 12)),
	}

	b, err := leave.ComputeBalance(emp, reqs, 2025)
	require.NoError(t, err)

	assert.Equal(t, "3", b.UsedSickLeaveDays.String())
	assert.Equal(t, "7", b.RemainingSickLeaveDays.String())
	assert.Equal(t, "20", b.RemainingVacationDays.String(), "sick leave never touches vacation")
}

func TestComputeBalance_RemoteNeverDebits(t *testing.T) {
	emp := allotted(20, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategoryRemote, leave.StatusApproved,
			day(2025, time.March, 10), day(2025, time.March, 14)),
	}

	b, err := leave.ComputeBalance(emp, reqs, 2025)
	require.NoError(t, err)

	assert.Equal(t, "20", b.RemainingVacationDays.String())
	assert.Equal(t, "10", b.RemainingSickLeaveDays.String())
}

// =============================================================================
// FILTERS
// =============================================================================

func TestComputeBalance_TerminalRequestsIgnored(t *testing.T) {
	emp := allotted(20, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategoryVacation, leave.StatusRejected,
			day(2025, time.June, 9), day(2025, time.June, 13)),
		request("r2", leave.CategoryVacation, leave.StatusCancelled,
			day(2025, time.July, 7), day(2025, time.July, 11)),
	}

	b, err := leave.ComputeBalance(emp, reqs, 2025)
	require.NoError(t, err)

	assert.Equal(t, "0", b.UsedVacationDays.String())
	assert.Equal(t, "0", b.PendingVacationDays.String())
	assert.Equal(t, "20", b.RemainingVacationDays.String())
}

func TestComputeBalance_CrossYearRequestCountsForNeitherYear(t *testing.T) {
	// GIVEN: an approved vacation spanning Dec 28 2024 - Jan 3 2025
	// THEN: neither year's balance records it

	emp := allotted(20, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategoryVacation, leave.StatusApproved,
			day(2024, time.December, 28), day(2025, time.January, 3)),
	}

	for _, year := range []int{2024, 2025} {
		b, err := leave.ComputeBalance(emp, reqs, year)
		require.NoError(t, err)
		assert.Equal(t, "0", b.UsedVacationDays.String(), "year %d", year)
		assert.Equal(t, "20", b.RemainingVacationDays.String(), "year %d", year)
	}
}

func TestComputeBalance_OtherYearRequestIgnored(t *testing.T) {
	emp := allotted(20, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategoryVacation, leave.StatusApproved,
			day(2024, time.June, 10), day(2024, time.June, 14)),
	}

	b, err := leave.ComputeBalance(emp, reqs, 2025)
	require.NoError(t, err)
	assert.Equal(t, "20", b.RemainingVacationDays.String())
}

// =============================================================================
// EDGES
// =============================================================================

func TestComputeBalance_NegativeRemainingNotClamped(t *testing.T) {
	// GIVEN: a 2-day allotment and a full approved week
	emp := allotted(2, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategoryVacation, leave.StatusApproved,
			day(2025, time.June, 9), day(2025, time.June, 13)),
	}

	b, err := leave.ComputeBalance(emp, reqs, 2025)
	require.NoError(t, err)

	assert.Equal(t, "-3", b.RemainingVacationDays.String())
}

func TestComputeBalance_CorruptReversedRange(t *testing.T) {
	emp := allotted(20, 0, 10)
	reqs := []leave.Request{
		request("r1", leave.CategoryVacation, leave.StatusApproved,
			day(2025, time.June, 13), day(2025, time.June, 9)),
	}

	_, err := leave.ComputeBalance(emp, reqs, 2025)
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)
	assert.Contains(t, err.Error(), "r1")
}

func TestComputeBalance_NoRequests(t *testing.T) {
	b, err := leave.ComputeBalance(allotted(20, 0, 10), nil, 2025)
	require.NoError(t, err)

	assert.Equal(t, 2025, b.Year)
	assert.Equal(t, org.EmployeeID(1), b.EmployeeID)
	assert.Equal(t, "20", b.RemainingVacationDays.String())
	assert.Equal(t, "10", b.RemainingSickLeaveDays.String())
}
