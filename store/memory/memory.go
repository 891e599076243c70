/*
Package memory provides an in-memory implementation of the engine's
storage interfaces (for testing/dev).

IMPLEMENTS:
  org.Lookup, profile.Lookup, leave.RequestStore, leave.AuditLog

CONCURRENCY:
  A single RWMutex guards all maps. Reads return copies so callers can
  never alias internal state.
*/
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/people-engine/calendar"
	"github.com/warp/people-engine/leave"
	"github.com/warp/people-engine/org"
	"github.com/warp/people-engine/profile"
)

// Store is the in-memory backing store.
type Store struct {
	mu          sync.RWMutex
	employees   map[org.EmployeeID]org.Employee
	teams       map[org.TeamID]org.Team
	departments map[org.DepartmentID]org.Department
	skills      map[org.EmployeeID][]profile.Skill
	projects    map[org.EmployeeID][]profile.ProjectAssignment
	requests    map[string]leave.Request
	audit       []leave.AuditEntry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		employees:   make(map[org.EmployeeID]org.Employee),
		teams:       make(map[org.TeamID]org.Team),
		departments: make(map[org.DepartmentID]org.Department),
		skills:      make(map[org.EmployeeID][]profile.Skill),
		projects:    make(map[org.EmployeeID][]profile.ProjectAssignment),
		requests:    make(map[string]leave.Request),
	}
}

// =============================================================================
// SEEDING (dev and test fixtures)
// =============================================================================

func (s *Store) PutEmployee(e org.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *Store) PutTeam(t org.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
}

func (s *Store) PutDepartment(d org.Department) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments[d.ID] = d
}

func (s *Store) PutSkills(id org.EmployeeID, skills ...profile.Skill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills[id] = append(s.skills[id], skills...)
}

func (s *Store) PutProjects(id org.EmployeeID, assignments ...profile.ProjectAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[id] = append(s.projects[id], assignments...)
}

// =============================================================================
// ORG LOOKUP (org.Lookup)
// =============================================================================

func (s *Store) GetEmployee(_ context.Context, id org.EmployeeID) (*org.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok {
		return nil, org.ErrEmployeeNotFound
	}
	return &e, nil
}

func (s *Store) GetTeamDetail(_ context.Context, id org.TeamID) (*org.TeamDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	if !ok {
		return nil, org.ErrTeamNotFound
	}

	detail := &org.TeamDetail{Team: t}
	if t.LeadID != nil {
		if lead, ok := s.employees[*t.LeadID]; ok {
			detail.Lead = &lead
		}
	}
	if dept, ok := s.departments[t.DepartmentID]; ok {
		detail.Department = &dept
		if dept.HeadID != nil {
			if head, ok := s.employees[*dept.HeadID]; ok {
				detail.Head = &head
			}
		}
	}
	return detail, nil
}

// =============================================================================
// PROFILE LOOKUP (profile.Lookup)
// =============================================================================

func (s *Store) GetSkills(_ context.Context, id org.EmployeeID) ([]profile.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]profile.Skill, len(s.skills[id]))
	copy(out, s.skills[id])
	return out, nil
}

func (s *Store) GetActiveProjectAssignments(_ context.Context, id org.EmployeeID) ([]profile.ProjectAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]profile.ProjectAssignment, len(s.projects[id]))
	copy(out, s.projects[id])
	return out, nil
}

func (s *Store) GetTimeOffRequests(_ context.Context, id org.EmployeeID, from, to time.Time) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []leave.Request
	for _, req := range s.requests {
		if req.EmployeeID != id {
			continue
		}
		if calendar.RangesOverlap(req.StartDate, req.EndDate, from, to) {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

// =============================================================================
// REQUEST STORE (leave.RequestStore)
// =============================================================================

func (s *Store) SaveRequest(_ context.Context, req leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = req
	return nil
}

func (s *Store) UpdateRequest(_ context.Context, req leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[req.ID]; !ok {
		return leave.ErrRequestNotFound
	}
	s.requests[req.ID] = req
	return nil
}

func (s *Store) GetRequest(_ context.Context, id string) (*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, leave.ErrRequestNotFound
	}
	return &req, nil
}

func (s *Store) ListRequests(ctx context.Context, id org.EmployeeID, from, to time.Time) ([]leave.Request, error) {
	return s.GetTimeOffRequests(ctx, id, from, to)
}

func (s *Store) ListOpenRequests(_ context.Context, id org.EmployeeID) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []leave.Request
	for _, req := range s.requests {
		if req.EmployeeID == id && req.Status.Live() {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

// =============================================================================
// AUDIT LOG (leave.AuditLog)
// =============================================================================

func (s *Store) Append(_ context.Context, entry leave.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
	return nil
}

// AuditEntries returns a copy of the audit trail, oldest first.
func (s *Store) AuditEntries() []leave.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]leave.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

func sortRequests(reqs []leave.Request) {
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].StartDate.Equal(reqs[j].StartDate) {
			return reqs[i].ID < reqs[j].ID
		}
		return reqs[i].StartDate.Before(reqs[j].StartDate)
	})
}
