/*
workflow.go - Request lifecycle state machine

PURPOSE:
  Owns every mutation of time-off requests: submission, approval,
  rejection, cancellation. The accounting code (balance.go, conflict.go)
  never writes; this collaborator is the single writer.

TRANSITIONS ENFORCED:
  pending  -> approved (stamps approver id + time)
  pending  -> rejected (records rejection note)
  pending  -> cancelled
  approved -> cancelled
  anything else -> ErrInvalidTransition

SUBMISSION:
  Submit validates the range, runs the conflict predicate against the
  employee's open requests, and persists a new pending request with a
  generated uuid. A conflicting range yields ErrConflict; the caller
  translates that into its own refusal.

AUDIT:
  Every transition is appended to the audit log when one is configured.
  The audit trail is append-only and is never read back by the engine.

SEE ALSO:
  - conflict.go: the predicate Submit consults
  - store/sqlite, store/memory: RequestStore implementations
*/
package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/people-engine/calendar"
	"github.com/warp/people-engine/org"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrRequestNotFound is returned when a request id does not exist.
	ErrRequestNotFound = errors.New("time-off request not found")

	// ErrInvalidTransition is returned for a state change the request
	// state machine does not allow.
	ErrInvalidTransition = errors.New("invalid request state transition")

	// ErrConflict is returned when a candidate request overlaps an
	// existing live request for the same employee.
	ErrConflict = errors.New("time-off request conflicts with an existing request")

	// ErrInvalidCategory is returned when a submission names an unknown
	// leave category.
	ErrInvalidCategory = errors.New("invalid leave category")
)

// ConflictError carries the overlapping request alongside ErrConflict.
type ConflictError struct {
	Existing Request
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested range overlaps %s request %s (%s..%s)",
		e.Existing.Status, e.Existing.ID,
		e.Existing.StartDate.Format("2006-01-02"), e.Existing.EndDate.Format("2006-01-02"))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// =============================================================================
// STORE AND AUDIT INTERFACES
// =============================================================================

// RequestStore persists time-off requests. Implementations must map
// their "no rows" condition onto ErrRequestNotFound.
type RequestStore interface {
	SaveRequest(ctx context.Context, req Request) error
	UpdateRequest(ctx context.Context, req Request) error
	GetRequest(ctx context.Context, id string) (*Request, error)

	// ListRequests returns the employee's requests intersecting
	// [from, to], any status.
	ListRequests(ctx context.Context, employeeID org.EmployeeID, from, to time.Time) ([]Request, error)

	// ListOpenRequests returns the employee's live (pending or approved)
	// requests. This is what the conflict predicate evaluates.
	ListOpenRequests(ctx context.Context, employeeID org.EmployeeID) ([]Request, error)
}

// AuditAction identifies a lifecycle event in the audit trail.
type AuditAction string

const (
	AuditSubmitted AuditAction = "request_submitted"
	AuditApproved  AuditAction = "request_approved"
	AuditRejected  AuditAction = "request_rejected"
	AuditCancelled AuditAction = "request_cancelled"
)

// AuditEntry records who transitioned which request, when.
type AuditEntry struct {
	ID         string
	RequestID  string
	EmployeeID org.EmployeeID
	ActorID    org.EmployeeID
	Action     AuditAction
	Note       string
	At         time.Time
}

// AuditLog stores audit entries. Append-only.
type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error
}

// =============================================================================
// WORKFLOW
// =============================================================================

// Workflow is the request state machine collaborator.
type Workflow struct {
	Store  RequestStore
	Audit  AuditLog    // optional
	Logger *zap.Logger // optional
	Now    func() time.Time
}

// NewWorkflow creates a workflow over the given store.
func NewWorkflow(store RequestStore, audit AuditLog, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{Store: store, Audit: audit, Logger: logger, Now: time.Now}
}

// Submission is the input to Submit.
type Submission struct {
	EmployeeID org.EmployeeID
	Category   Category
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// Submit validates and persists a new pending request.
// Returns calendar.ErrInvalidRange for a reversed range, ErrInvalidCategory
// for an unknown category, and a *ConflictError (wrapping ErrConflict) when
// the range overlaps an existing live request.
func (w *Workflow) Submit(ctx context.Context, sub Submission) (*Request, error) {
	if !sub.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, sub.Category)
	}
	if calendar.DayOf(sub.StartDate).After(calendar.DayOf(sub.EndDate)) {
		return nil, calendar.ErrInvalidRange
	}

	open, err := w.Store.ListOpenRequests(ctx, sub.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("list open requests: %w", err)
	}
	if existing := FirstConflict(sub.StartDate, sub.EndDate, open); existing != nil {
		return nil, &ConflictError{Existing: *existing}
	}

	now := w.Now().UTC()
	req := Request{
		ID:         uuid.NewString(),
		EmployeeID: sub.EmployeeID,
		Category:   sub.Category,
		StartDate:  calendar.DayOf(sub.StartDate),
		EndDate:    calendar.DayOf(sub.EndDate),
		Status:     StatusPending,
		Reason:     sub.Reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := w.Store.SaveRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("save request: %w", err)
	}

	w.audit(ctx, req, sub.EmployeeID, AuditSubmitted, sub.Reason)
	w.Logger.Info("time-off request submitted",
		zap.String("request_id", req.ID),
		zap.Int64("employee_id", int64(req.EmployeeID)),
		zap.String("category", string(req.Category)))
	return &req, nil
}

// Approve transitions a pending request to approved, stamping the
// approver id and approval time.
func (w *Workflow) Approve(ctx context.Context, requestID string, approverID org.EmployeeID) (*Request, error) {
	return w.transition(ctx, requestID, StatusApproved, approverID, "", func(req *Request, at time.Time) {
		req.ApproverID = &approverID
		req.ApprovedAt = &at
	})
}

// Reject transitions a pending request to rejected with a note.
func (w *Workflow) Reject(ctx context.Context, requestID string, approverID org.EmployeeID, note string) (*Request, error) {
	return w.transition(ctx, requestID, StatusRejected, approverID, note, func(req *Request, _ time.Time) {
		req.RejectionNote = note
	})
}

// Cancel transitions a pending or approved request to cancelled.
func (w *Workflow) Cancel(ctx context.Context, requestID string, actorID org.EmployeeID) (*Request, error) {
	return w.transition(ctx, requestID, StatusCancelled, actorID, "", nil)
}

func (w *Workflow) transition(ctx context.Context, requestID string, to Status, actorID org.EmployeeID, note string, mutate func(*Request, time.Time)) (*Request, error) {
	req, err := w.Store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !canTransition(req.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, to)
	}

	now := w.Now().UTC()
	req.Status = to
	req.UpdatedAt = now
	if mutate != nil {
		mutate(req, now)
	}

	if err := w.Store.UpdateRequest(ctx, *req); err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}

	w.audit(ctx, *req, actorID, actionFor(to), note)
	w.Logger.Info("time-off request transitioned",
		zap.String("request_id", req.ID),
		zap.String("status", string(to)))
	return req, nil
}

func actionFor(s Status) AuditAction {
	switch s {
	case StatusApproved:
		return AuditApproved
	case StatusRejected:
		return AuditRejected
	default:
		return AuditCancelled
	}
}

// audit appends an entry when a log is configured. Audit failures are
// logged, not escalated: the transition itself already committed.
func (w *Workflow) audit(ctx context.Context, req Request, actorID org.EmployeeID, action AuditAction, note string) {
	if w.Audit == nil {
		return
	}
	entry := AuditEntry{
		ID:         uuid.NewString(),
		RequestID:  req.ID,
		EmployeeID: req.EmployeeID,
		ActorID:    actorID,
		Action:     action,
		Note:       note,
		At:         w.Now().UTC(),
	}
	if err := w.Audit.Append(ctx, entry); err != nil {
		w.Logger.Warn("audit append failed",
			zap.String("request_id", req.ID),
			zap.Error(err))
	}
}
