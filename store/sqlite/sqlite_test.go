package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/people-engine/leave"
	"github.com/warp/people-engine/org"
	"github.com/warp/people-engine/profile"
	"github.com/warp/people-engine/store/sqlite"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedEmployee(t *testing.T, store *sqlite.Store, id org.EmployeeID) org.Employee {
	t.Helper()
	e := org.Employee{
		ID:        id,
		FirstName: "Dana",
		LastName:  "Example",
		Position:  "Software Engineer",
		HireDate:  time.Date(2020, time.January, 6, 0, 0, 0, 0, time.UTC),
		Status:    org.StatusActive,
		Allotments: org.Allotments{
			AnnualVacationDays:  decimal.RequireFromString("20"),
			BonusVacationDays:   decimal.RequireFromString("2.5"),
			AnnualSickLeaveDays: decimal.RequireFromString("10"),
		},
	}
	require.NoError(t, store.SaveEmployee(context.Background(), e))
	return e
}

func pendingRequest(id string, employeeID org.EmployeeID, start, end time.Time) leave.Request {
	now := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	return leave.Request{
		ID:         id,
		EmployeeID: employeeID,
		Category:   leave.CategoryVacation,
		StartDate:  start,
		EndDate:    end,
		Status:     leave.StatusPending,
		Reason:     "trip",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployeeRoundTrip(t *testing.T) {
	store := newStore(t)
	want := seedEmployee(t, store, 1)

	got, err := store.GetEmployee(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "Dana Example", got.FullName())
	assert.Equal(t, org.StatusActive, got.Status)
	assert.True(t, want.HireDate.Equal(got.HireDate))
	assert.Nil(t, got.ManagerID)
	assert.Nil(t, got.TeamID)

	// Allotments survive as exact decimals, not floats.
	assert.Equal(t, "20", got.Allotments.AnnualVacationDays.String())
	assert.Equal(t, "2.5", got.Allotments.BonusVacationDays.String())
	assert.Equal(t, "10", got.Allotments.AnnualSickLeaveDays.String())
}

func TestEmployeeOptionalReferences(t *testing.T) {
	store := newStore(t)
	seedEmployee(t, store, 2)
	require.NoError(t, store.SaveDepartment(context.Background(), org.Department{ID: 100, Name: "Engineering"}))
	require.NoError(t, store.SaveTeam(context.Background(), org.Team{ID: 10, Name: "Platform", DepartmentID: 100}))

	e := seedEmployee(t, store, 1)
	managerID := org.EmployeeID(2)
	teamID := org.TeamID(10)
	e.ManagerID = &managerID
	e.TeamID = &teamID
	e.Role = org.RoleTeamLead
	require.NoError(t, store.SaveEmployee(context.Background(), e))

	got, err := store.GetEmployee(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, got.ManagerID)
	assert.Equal(t, org.EmployeeID(2), *got.ManagerID)
	require.NotNil(t, got.TeamID)
	assert.Equal(t, org.TeamID(10), *got.TeamID)
	assert.Equal(t, org.RoleTeamLead, got.Role)
}

func TestGetEmployee_NotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.GetEmployee(context.Background(), 404)
	assert.ErrorIs(t, err, org.ErrEmployeeNotFound)
}

// =============================================================================
// TEAM DETAIL
// =============================================================================

func TestGetTeamDetail_JoinsLeadAndHead(t *testing.T) {
	store := newStore(t)
	seedEmployee(t, store, 4) // lead
	seedEmployee(t, store, 5) // head

	leadID, headID := org.EmployeeID(4), org.EmployeeID(5)
	require.NoError(t, store.SaveDepartment(context.Background(), org.Department{ID: 100, Name: "Engineering", HeadID: &headID}))
	require.NoError(t, store.SaveTeam(context.Background(), org.Team{ID: 10, Name: "Platform", LeadID: &leadID, DepartmentID: 100}))

	detail, err := store.GetTeamDetail(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, "Platform", detail.Team.Name)
	require.NotNil(t, detail.Lead)
	assert.Equal(t, org.EmployeeID(4), detail.Lead.ID)
	require.NotNil(t, detail.Department)
	assert.Equal(t, "Engineering", detail.Department.Name)
	require.NotNil(t, detail.Head)
	assert.Equal(t, org.EmployeeID(5), detail.Head.ID)
}

func TestGetTeamDetail_DanglingLeadTolerated(t *testing.T) {
	// A lead id pointing at a deleted employee yields a nil lead, not an
	// error: lineage resolution must stay usable on stale org data.
	store := newStore(t)

	leadID := org.EmployeeID(99)
	require.NoError(t, store.SaveDepartment(context.Background(), org.Department{ID: 100, Name: "Engineering"}))
	require.NoError(t, store.SaveTeam(context.Background(), org.Team{ID: 10, Name: "Platform", LeadID: &leadID, DepartmentID: 100}))

	detail, err := store.GetTeamDetail(context.Background(), 10)
	require.NoError(t, err)

	assert.Nil(t, detail.Lead)
	assert.Nil(t, detail.Head)
}

func TestGetTeamDetail_NotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.GetTeamDetail(context.Background(), 404)
	assert.ErrorIs(t, err, org.ErrTeamNotFound)
}

// =============================================================================
// SKILLS AND PROJECTS
// =============================================================================

func TestSkillsAndProjects(t *testing.T) {
	store := newStore(t)
	seedEmployee(t, store, 1)

	ctx := context.Background()
	require.NoError(t, store.AddSkill(ctx, 1, profile.Skill{Name: "Go", Level: "advanced"}))
	require.NoError(t, store.AddSkill(ctx, 1, profile.Skill{Name: "SQL", Level: "intermediate"}))
	require.NoError(t, store.AddSkill(ctx, 1, profile.Skill{Name: "Go", Level: "expert"}), "re-adding upgrades the level")

	require.NoError(t, store.AddProjectAssignment(ctx, 1,
		profile.ProjectAssignment{ProjectID: 7, ProjectName: "Atlas", RoleName: "developer"}, true))
	require.NoError(t, store.AddProjectAssignment(ctx, 1,
		profile.ProjectAssignment{ProjectID: 8, ProjectName: "Borealis", RoleName: "reviewer"}, false))

	skills, err := store.GetSkills(ctx, 1)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	for _, s := range skills {
		if s.Name == "Go" {
			assert.Equal(t, "expert", s.Level)
		}
	}

	projects, err := store.GetActiveProjectAssignments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, projects, 1, "inactive assignments are excluded")
	assert.Equal(t, "Atlas", projects[0].ProjectName)
}

func TestSkillsAndProjects_EmptyNotNil(t *testing.T) {
	// An employee with no rows yields empty non-nil slices, matching the
	// memory store, so composite readers serialize [] rather than null.
	store := newStore(t)
	seedEmployee(t, store, 1)

	ctx := context.Background()

	skills, err := store.GetSkills(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, skills)
	assert.Empty(t, skills)

	projects, err := store.GetActiveProjectAssignments(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestDetailedProfile_EmptyCollectionsNotNil(t *testing.T) {
	// The aggregator's degradation preset must survive the sqlite path too.
	store := newStore(t)
	seedEmployee(t, store, 1)

	agg := profile.NewAggregator(store, nil)
	agg.Now = func() time.Time {
		return time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	}

	p, err := agg.GetDetailedProfile(context.Background(), 1)
	require.NoError(t, err)

	assert.NotNil(t, p.Skills)
	assert.Empty(t, p.Skills)
	assert.NotNil(t, p.CurrentProjects)
	assert.Empty(t, p.CurrentProjects)
}

// =============================================================================
// TIME-OFF REQUESTS
// =============================================================================

func TestRequestRoundTrip(t *testing.T) {
	store := newStore(t)
	seedEmployee(t, store, 1)

	ctx := context.Background()
	want := pendingRequest("r1", 1, day(2025, time.June, 9), day(2025, time.June, 13))
	require.NoError(t, store.SaveRequest(ctx, want))

	got, err := store.GetRequest(ctx, "r1")
	require.NoError(t, err)

	assert.Equal(t, want.EmployeeID, got.EmployeeID)
	assert.Equal(t, leave.CategoryVacation, got.Category)
	assert.Equal(t, leave.StatusPending, got.Status)
	assert.True(t, want.StartDate.Equal(got.StartDate))
	assert.True(t, want.EndDate.Equal(got.EndDate))
	assert.Equal(t, "trip", got.Reason)
	assert.Nil(t, got.ApproverID)
	assert.Nil(t, got.ApprovedAt)
}

func TestUpdateRequest_ApprovalStamps(t *testing.T) {
	store := newStore(t)
	seedEmployee(t, store, 1)

	ctx := context.Background()
	req := pendingRequest("r1", 1, day(2025, time.June, 9), day(2025, time.June, 13))
	require.NoError(t, store.SaveRequest(ctx, req))

	approverID := org.EmployeeID(7)
	approvedAt := time.Date(2025, time.May, 2, 10, 0, 0, 0, time.UTC)
	req.Status = leave.StatusApproved
	req.ApproverID = &approverID
	req.ApprovedAt = &approvedAt
	require.NoError(t, store.UpdateRequest(ctx, req))

	got, err := store.GetRequest(ctx, "r1")
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, got.Status)
	require.NotNil(t, got.ApproverID)
	assert.Equal(t, org.EmployeeID(7), *got.ApproverID)
	require.NotNil(t, got.ApprovedAt)
	assert.True(t, approvedAt.Equal(*got.ApprovedAt))
}

func TestUpdateRequest_Unknown(t *testing.T) {
	store := newStore(t)

	err := store.UpdateRequest(context.Background(), pendingRequest("ghost", 1, day(2025, time.June, 9), day(2025, time.June, 13)))
	assert.ErrorIs(t, err, leave.ErrRequestNotFound)
}

func TestGetRequest_Unknown(t *testing.T) {
	store := newStore(t)

	_, err := store.GetRequest(context.Background(), "ghost")
	assert.ErrorIs(t, err, leave.ErrRequestNotFound)
}

func TestGetTimeOffRequests_IntersectionFilter(t *testing.T) {
	// Requests intersecting [from, to] are returned, including ranges
	// that merely touch the window edges.
	store := newStore(t)
	seedEmployee(t, store, 1)
	seedEmployee(t, store, 2)

	ctx := context.Background()
	require.NoError(t, store.SaveRequest(ctx, pendingRequest("inside", 1, day(2025, time.June, 9), day(2025, time.June, 13))))
	require.NoError(t, store.SaveRequest(ctx, pendingRequest("touching", 1, day(2025, time.May, 28), day(2025, time.June, 1))))
	require.NoError(t, store.SaveRequest(ctx, pendingRequest("before", 1, day(2025, time.May, 5), day(2025, time.May, 9))))
	require.NoError(t, store.SaveRequest(ctx, pendingRequest("other-employee", 2, day(2025, time.June, 9), day(2025, time.June, 13))))

	got, err := store.GetTimeOffRequests(ctx, 1, day(2025, time.June, 1), day(2025, time.June, 30))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "touching", got[0].ID, "ordered by start date")
	assert.Equal(t, "inside", got[1].ID)
}

func TestListOpenRequests_ExcludesTerminal(t *testing.T) {
	store := newStore(t)
	seedEmployee(t, store, 1)

	ctx := context.Background()
	pending := pendingRequest("p", 1, day(2025, time.June, 9), day(2025, time.June, 13))
	require.NoError(t, store.SaveRequest(ctx, pending))

	approved := pendingRequest("a", 1, day(2025, time.July, 7), day(2025, time.July, 11))
	approved.Status = leave.StatusApproved
	require.NoError(t, store.SaveRequest(ctx, approved))

	rejected := pendingRequest("x", 1, day(2025, time.August, 4), day(2025, time.August, 8))
	rejected.Status = leave.StatusRejected
	require.NoError(t, store.SaveRequest(ctx, rejected))

	open, err := store.ListOpenRequests(ctx, 1)
	require.NoError(t, err)

	require.Len(t, open, 2)
	for _, req := range open {
		assert.True(t, req.Status.Live(), "request %s", req.ID)
	}
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func TestAppendAuditEntry(t *testing.T) {
	store := newStore(t)
	seedEmployee(t, store, 1)

	ctx := context.Background()
	require.NoError(t, store.SaveRequest(ctx, pendingRequest("r1", 1, day(2025, time.June, 9), day(2025, time.June, 13))))

	err := store.Append(ctx, leave.AuditEntry{
		ID:         "a1",
		RequestID:  "r1",
		EmployeeID: 1,
		ActorID:    1,
		Action:     leave.AuditSubmitted,
		At:         time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
}
