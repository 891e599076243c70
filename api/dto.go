/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/people-engine/leave"
	"github.com/warp/people-engine/org"
	"github.com/warp/people-engine/profile"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	HireDate  string `json:"hire_date"`
	Status    string `json:"status"`
}

// LineageNodeDTO is one node of a resolved reporting chain.
type LineageNodeDTO struct {
	EmployeeID int64  `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Role       string `json:"role"`
}

// BalanceDTO represents a computed leave balance.
type BalanceDTO struct {
	EmployeeID int64 `json:"employee_id"`
	Year       int   `json:"year"`

	TotalVacationDays     string `json:"total_vacation_days"`
	UsedVacationDays      string `json:"used_vacation_days"`
	PendingVacationDays   string `json:"pending_vacation_days"`
	RemainingVacationDays string `json:"remaining_vacation_days"`

	TotalSickLeaveDays     string `json:"total_sick_leave_days"`
	UsedSickLeaveDays      string `json:"used_sick_leave_days"`
	RemainingSickLeaveDays string `json:"remaining_sick_leave_days"`
}

// SkillDTO represents one employee skill.
type SkillDTO struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// ProjectAssignmentDTO represents one active project assignment.
type ProjectAssignmentDTO struct {
	ProjectID   int64  `json:"project_id"`
	ProjectName string `json:"project_name"`
	RoleName    string `json:"role_name,omitempty"`
}

// ProfileDTO is the composite employee read model.
type ProfileDTO struct {
	Employee        EmployeeDTO            `json:"employee"`
	Skills          []SkillDTO             `json:"skills"`
	CurrentProjects []ProjectAssignmentDTO `json:"current_projects"`
	Lineage         []LineageNodeDTO       `json:"lineage"`
	LeaveBalance    BalanceDTO             `json:"leave_balance"`
}

// TimeOffRequestDTO represents a time-off request in responses.
type TimeOffRequestDTO struct {
	ID            string `json:"id"`
	EmployeeID    int64  `json:"employee_id"`
	Category      string `json:"category"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	RejectionNote string `json:"rejection_note,omitempty"`
	ApproverID    *int64 `json:"approver_id,omitempty"`
	ApprovedAt    string `json:"approved_at,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// SubmitRequestDTO is the request body to submit time off.
type SubmitRequestDTO struct {
	Category  string `json:"category"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Reason    string `json:"reason,omitempty"`
}

// DecisionDTO is the request body for approve/reject/cancel.
type DecisionDTO struct {
	ActorID int64  `json:"actor_id"`
	Note    string `json:"note,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e org.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        int64(e.ID),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Position:  e.Position,
		HireDate:  e.HireDate.Format("2006-01-02"),
		Status:    string(e.Status),
	}
}

func toLineageDTOs(nodes []org.LineageNode) []LineageNodeDTO {
	dtos := make([]LineageNodeDTO, len(nodes))
	for i, n := range nodes {
		dtos[i] = LineageNodeDTO{
			EmployeeID: int64(n.EmployeeID),
			FirstName:  n.FirstName,
			LastName:   n.LastName,
			Position:   n.Position,
			Role:       string(n.Role),
		}
	}
	return dtos
}

func toBalanceDTO(b leave.Balance) BalanceDTO {
	return BalanceDTO{
		EmployeeID:             int64(b.EmployeeID),
		Year:                   b.Year,
		TotalVacationDays:      b.TotalVacationDays.String(),
		UsedVacationDays:       b.UsedVacationDays.String(),
		PendingVacationDays:    b.PendingVacationDays.String(),
		RemainingVacationDays:  b.RemainingVacationDays.String(),
		TotalSickLeaveDays:     b.TotalSickLeaveDays.String(),
		UsedSickLeaveDays:      b.UsedSickLeaveDays.String(),
		RemainingSickLeaveDays: b.RemainingSickLeaveDays.String(),
	}
}

func toRequestDTO(req leave.Request) TimeOffRequestDTO {
	dto := TimeOffRequestDTO{
		ID:            req.ID,
		EmployeeID:    int64(req.EmployeeID),
		Category:      string(req.Category),
		StartDate:     req.StartDate.Format("2006-01-02"),
		EndDate:       req.EndDate.Format("2006-01-02"),
		Status:        string(req.Status),
		Reason:        req.Reason,
		RejectionNote: req.RejectionNote,
		CreatedAt:     req.CreatedAt.Format(time.RFC3339),
	}
	if req.ApproverID != nil {
		id := int64(*req.ApproverID)
		dto.ApproverID = &id
	}
	if req.ApprovedAt != nil {
		dto.ApprovedAt = req.ApprovedAt.Format(time.RFC3339)
	}
	return dto
}

func toRequestDTOs(reqs []leave.Request) []TimeOffRequestDTO {
	dtos := make([]TimeOffRequestDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = toRequestDTO(req)
	}
	return dtos
}

func toProfileDTO(p *profile.Profile) ProfileDTO {
	skills := make([]SkillDTO, len(p.Skills))
	for i, sk := range p.Skills {
		skills[i] = SkillDTO{Name: sk.Name, Level: sk.Level}
	}
	projects := make([]ProjectAssignmentDTO, len(p.CurrentProjects))
	for i, pa := range p.CurrentProjects {
		projects[i] = ProjectAssignmentDTO{
			ProjectID:   pa.ProjectID,
			ProjectName: pa.ProjectName,
			RoleName:    pa.RoleName,
		}
	}
	return ProfileDTO{
		Employee:        toEmployeeDTO(p.Employee),
		Skills:          skills,
		CurrentProjects: projects,
		Lineage:         toLineageDTOs(p.Lineage),
		LeaveBalance:    toBalanceDTO(p.LeaveBalance),
	}
}
