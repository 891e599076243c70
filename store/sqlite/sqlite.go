/*
Package sqlite provides a SQLite-backed implementation of the engine's
storage interfaces.

PURPOSE:
  Implements the lookup capability and request persistence over SQLite.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  org.Lookup:         employee and team/department graph reads
  profile.Lookup:     skills, project assignments, time-off records
  leave.RequestStore: request persistence and open-request queries
  leave.AuditLog:     append-only transition trail

KEY TABLES:
  employees:           directory records with manager/team pointers and allotments
  teams, departments:  organizational structure
  skills:              per-employee skills
  project_assignments: project membership with an active flag
  time_off_requests:   approval-state-carrying leave records
  audit_log:           append-only request transition trail

DATE STORAGE:
  Calendar dates (hire date, request ranges) are stored as YYYY-MM-DD.
  Instants (created_at, approved_at) are stored as RFC3339 UTC.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - org/types.go: the Lookup interface this satisfies
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/people-engine/leave"
	"github.com/warp/people-engine/org"
	"github.com/warp/people-engine/profile"
)

const dayFormat = "2006-01-02"

// Store implements the engine's storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent across the pool.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS departments (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		head_id INTEGER
	);

	CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		lead_id INTEGER,
		department_id INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_teams_department
		ON teams(department_id);

	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT '',
		hire_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		role TEXT NOT NULL DEFAULT '',
		manager_id INTEGER,
		team_id INTEGER,
		annual_vacation_days TEXT NOT NULL DEFAULT '0',
		bonus_vacation_days TEXT NOT NULL DEFAULT '0',
		annual_sick_leave_days TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_employees_manager
		ON employees(manager_id);
	CREATE INDEX IF NOT EXISTS idx_employees_team
		ON employees(team_id);

	CREATE TABLE IF NOT EXISTS skills (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		level TEXT NOT NULL DEFAULT '',
		UNIQUE(employee_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_skills_employee
		ON skills(employee_id);

	CREATE TABLE IF NOT EXISTS project_assignments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL,
		project_id INTEGER NOT NULL,
		project_name TEXT NOT NULL,
		role_name TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_employee_active
		ON project_assignments(employee_id, active);

	CREATE TABLE IF NOT EXISTS time_off_requests (
		id TEXT PRIMARY KEY,
		employee_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT NOT NULL DEFAULT '',
		rejection_note TEXT NOT NULL DEFAULT '',
		approver_id INTEGER,
		approved_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee
		ON time_off_requests(employee_id);
	CREATE INDEX IF NOT EXISTS idx_requests_employee_status
		ON time_off_requests(employee_id, status);
	CREATE INDEX IF NOT EXISTS idx_requests_employee_dates
		ON time_off_requests(employee_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		employee_id INTEGER NOT NULL,
		actor_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_request
		ON audit_log(request_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ORG GRAPH WRITES (HR administration, outside the engine core)
// =============================================================================

// SaveEmployee inserts or replaces an employee record.
func (s *Store) SaveEmployee(ctx context.Context, e org.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees
		(id, first_name, last_name, position, hire_date, status, role,
		 manager_id, team_id, annual_vacation_days, bonus_vacation_days, annual_sick_leave_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.FirstName, e.LastName, e.Position,
		e.HireDate.Format(dayFormat), string(e.Status), string(e.Role),
		nullEmployeeID(e.ManagerID), nullTeamID(e.TeamID),
		e.Allotments.AnnualVacationDays.String(),
		e.Allotments.BonusVacationDays.String(),
		e.Allotments.AnnualSickLeaveDays.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// SaveTeam inserts or replaces a team record.
func (s *Store) SaveTeam(ctx context.Context, t org.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO teams (id, name, lead_id, department_id)
		VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, nullEmployeeID(t.LeadID), t.DepartmentID,
	)
	if err != nil {
		return fmt.Errorf("failed to save team: %w", err)
	}
	return nil
}

// SaveDepartment inserts or replaces a department record.
func (s *Store) SaveDepartment(ctx context.Context, d org.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO departments (id, name, head_id)
		VALUES (?, ?, ?)`,
		d.ID, d.Name, nullEmployeeID(d.HeadID),
	)
	if err != nil {
		return fmt.Errorf("failed to save department: %w", err)
	}
	return nil
}

// AddSkill records a skill for an employee.
func (s *Store) AddSkill(ctx context.Context, id org.EmployeeID, skill profile.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO skills (employee_id, name, level)
		VALUES (?, ?, ?)`,
		id, skill.Name, skill.Level,
	)
	if err != nil {
		return fmt.Errorf("failed to add skill: %w", err)
	}
	return nil
}

// AddProjectAssignment records a project assignment for an employee.
func (s *Store) AddProjectAssignment(ctx context.Context, id org.EmployeeID, pa profile.ProjectAssignment, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_assignments (employee_id, project_id, project_name, role_name, active)
		VALUES (?, ?, ?, ?, ?)`,
		id, pa.ProjectID, pa.ProjectName, pa.RoleName, active,
	)
	if err != nil {
		return fmt.Errorf("failed to add project assignment: %w", err)
	}
	return nil
}

// =============================================================================
// ORG LOOKUP (org.Lookup)
// =============================================================================

// GetEmployee returns the employee or org.ErrEmployeeNotFound.
func (s *Store) GetEmployee(ctx context.Context, id org.EmployeeID) (*org.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getEmployee(ctx, id)
}

func (s *Store) getEmployee(ctx context.Context, id org.EmployeeID) (*org.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, position, hire_date, status, role,
		       manager_id, team_id,
		       annual_vacation_days, bonus_vacation_days, annual_sick_leave_days
		FROM employees WHERE id = ?`, id)

	var (
		e                       org.Employee
		hireDate, status, role  string
		managerID, teamID       sql.NullInt64
		annual, bonus, sickDays string
	)
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Position,
		&hireDate, &status, &role, &managerID, &teamID,
		&annual, &bonus, &sickDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, org.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	e.Status = org.EmployeeStatus(status)
	e.Role = org.Role(role)
	if e.HireDate, err = time.Parse(dayFormat, hireDate); err != nil {
		return nil, fmt.Errorf("invalid hire_date for employee %d: %w", id, err)
	}
	if managerID.Valid {
		mid := org.EmployeeID(managerID.Int64)
		e.ManagerID = &mid
	}
	if teamID.Valid {
		tid := org.TeamID(teamID.Int64)
		e.TeamID = &tid
	}
	if e.Allotments, err = parseAllotments(annual, bonus, sickDays); err != nil {
		return nil, fmt.Errorf("invalid allotments for employee %d: %w", id, err)
	}
	return &e, nil
}

// GetTeamDetail returns the team joined with its lead, department, and
// department head, or org.ErrTeamNotFound.
func (s *Store) GetTeamDetail(ctx context.Context, id org.TeamID) (*org.TeamDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, lead_id, department_id
		FROM teams WHERE id = ?`, id)

	var (
		t      org.Team
		leadID sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.Name, &leadID, &t.DepartmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, org.ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if leadID.Valid {
		lid := org.EmployeeID(leadID.Int64)
		t.LeadID = &lid
	}

	detail := &org.TeamDetail{Team: t}

	// Dangling lead/head references resolve to nil rather than failing
	// the whole lookup.
	if t.LeadID != nil {
		lead, err := s.getEmployee(ctx, *t.LeadID)
		if err != nil && !errors.Is(err, org.ErrEmployeeNotFound) {
			return nil, err
		}
		detail.Lead = lead
	}

	deptRow := s.db.QueryRowContext(ctx, `
		SELECT id, name, head_id FROM departments WHERE id = ?`, t.DepartmentID)
	var (
		d      org.Department
		headID sql.NullInt64
	)
	err = deptRow.Scan(&d.ID, &d.Name, &headID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	if err == nil {
		if headID.Valid {
			hid := org.EmployeeID(headID.Int64)
			d.HeadID = &hid
		}
		detail.Department = &d
		if d.HeadID != nil {
			head, err := s.getEmployee(ctx, *d.HeadID)
			if err != nil && !errors.Is(err, org.ErrEmployeeNotFound) {
				return nil, err
			}
			detail.Head = head
		}
	}

	return detail, nil
}

// =============================================================================
// PROFILE LOOKUP (profile.Lookup)
// =============================================================================

// GetSkills returns the employee's skills, alphabetically.
func (s *Store) GetSkills(ctx context.Context, id org.EmployeeID) ([]profile.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, level FROM skills
		WHERE employee_id = ?
		ORDER BY name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	// Empty results stay non-nil so callers see []: parity with store/memory.
	skills := []profile.Skill{}
	for rows.Next() {
		var sk profile.Skill
		if err := rows.Scan(&sk.Name, &sk.Level); err != nil {
			return nil, err
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

// GetActiveProjectAssignments returns the employee's active assignments.
func (s *Store) GetActiveProjectAssignments(ctx context.Context, id org.EmployeeID) ([]profile.ProjectAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, project_name, role_name
		FROM project_assignments
		WHERE employee_id = ? AND active = TRUE
		ORDER BY project_name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list project assignments: %w", err)
	}
	defer rows.Close()

	assignments := []profile.ProjectAssignment{}
	for rows.Next() {
		var pa profile.ProjectAssignment
		if err := rows.Scan(&pa.ProjectID, &pa.ProjectName, &pa.RoleName); err != nil {
			return nil, err
		}
		assignments = append(assignments, pa)
	}
	return assignments, rows.Err()
}

// GetTimeOffRequests returns the employee's requests intersecting [from, to].
func (s *Store) GetTimeOffRequests(ctx context.Context, id org.EmployeeID, from, to time.Time) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, category, start_date, end_date, status,
		       reason, rejection_note, approver_id, approved_at, created_at, updated_at
		FROM time_off_requests
		WHERE employee_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date, id`,
		id, to.Format(dayFormat), from.Format(dayFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// =============================================================================
// REQUEST STORE (leave.RequestStore)
// =============================================================================

// SaveRequest inserts a new request.
func (s *Store) SaveRequest(ctx context.Context, req leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_off_requests
		(id, employee_id, category, start_date, end_date, status,
		 reason, rejection_note, approver_id, approved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.EmployeeID, string(req.Category),
		req.StartDate.Format(dayFormat), req.EndDate.Format(dayFormat),
		string(req.Status), req.Reason, req.RejectionNote,
		nullEmployeeID(req.ApproverID), nullTime(req.ApprovedAt),
		req.CreatedAt.UTC().Format(time.RFC3339),
		req.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

// UpdateRequest rewrites an existing request's mutable fields.
func (s *Store) UpdateRequest(ctx context.Context, req leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE time_off_requests
		SET status = ?, rejection_note = ?, approver_id = ?, approved_at = ?, updated_at = ?
		WHERE id = ?`,
		string(req.Status), req.RejectionNote,
		nullEmployeeID(req.ApproverID), nullTime(req.ApprovedAt),
		req.UpdatedAt.UTC().Format(time.RFC3339),
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return leave.ErrRequestNotFound
	}
	return nil
}

// GetRequest returns a request by id or leave.ErrRequestNotFound.
func (s *Store) GetRequest(ctx context.Context, id string) (*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, category, start_date, end_date, status,
		       reason, rejection_note, approver_id, approved_at, created_at, updated_at
		FROM time_off_requests WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	defer rows.Close()

	reqs, err := scanRequests(rows)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, leave.ErrRequestNotFound
	}
	return &reqs[0], nil
}

// ListRequests returns the employee's requests intersecting [from, to].
func (s *Store) ListRequests(ctx context.Context, id org.EmployeeID, from, to time.Time) ([]leave.Request, error) {
	return s.GetTimeOffRequests(ctx, id, from, to)
}

// ListOpenRequests returns the employee's pending and approved requests.
func (s *Store) ListOpenRequests(ctx context.Context, id org.EmployeeID) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, category, start_date, end_date, status,
		       reason, rejection_note, approver_id, approved_at, created_at, updated_at
		FROM time_off_requests
		WHERE employee_id = ? AND status IN ('pending', 'approved')
		ORDER BY start_date, id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list open requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// =============================================================================
// AUDIT LOG (leave.AuditLog)
// =============================================================================

// Append records an audit entry. Append-only: no update or delete exists.
func (s *Store) Append(ctx context.Context, entry leave.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, request_id, employee_id, actor_id, action, note, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RequestID, entry.EmployeeID, entry.ActorID,
		string(entry.Action), entry.Note, entry.At.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func scanRequests(rows *sql.Rows) ([]leave.Request, error) {
	var reqs []leave.Request
	for rows.Next() {
		var (
			req                  leave.Request
			category, status     string
			startDate, endDate   string
			approverID           sql.NullInt64
			approvedAt           sql.NullString
			createdAt, updatedAt string
		)
		err := rows.Scan(&req.ID, &req.EmployeeID, &category, &startDate, &endDate,
			&status, &req.Reason, &req.RejectionNote, &approverID, &approvedAt,
			&createdAt, &updatedAt)
		if err != nil {
			return nil, err
		}

		req.Category = leave.Category(category)
		req.Status = leave.Status(status)
		if req.StartDate, err = time.Parse(dayFormat, startDate); err != nil {
			return nil, fmt.Errorf("invalid start_date for request %s: %w", req.ID, err)
		}
		if req.EndDate, err = time.Parse(dayFormat, endDate); err != nil {
			return nil, fmt.Errorf("invalid end_date for request %s: %w", req.ID, err)
		}
		if approverID.Valid {
			aid := org.EmployeeID(approverID.Int64)
			req.ApproverID = &aid
		}
		if approvedAt.Valid {
			t, err := time.Parse(time.RFC3339, approvedAt.String)
			if err != nil {
				return nil, fmt.Errorf("invalid approved_at for request %s: %w", req.ID, err)
			}
			req.ApprovedAt = &t
		}
		if req.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at for request %s: %w", req.ID, err)
		}
		if req.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("invalid updated_at for request %s: %w", req.ID, err)
		}

		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func parseAllotments(annual, bonus, sick string) (org.Allotments, error) {
	var (
		a   org.Allotments
		err error
	)
	if a.AnnualVacationDays, err = decimal.NewFromString(annual); err != nil {
		return a, err
	}
	if a.BonusVacationDays, err = decimal.NewFromString(bonus); err != nil {
		return a, err
	}
	if a.AnnualSickLeaveDays, err = decimal.NewFromString(sick); err != nil {
		return a, err
	}
	return a, nil
}

func nullEmployeeID(id *org.EmployeeID) any {
	if id == nil {
		return nil
	}
	return int64(*id)
}

func nullTeamID(id *org.TeamID) any {
	if id == nil {
		return nil
	}
	return int64(*id)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
