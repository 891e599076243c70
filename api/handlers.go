/*
handlers.go - HTTP API handlers for the people engine

PURPOSE:
  Exposes the engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates to the engine packages. All semantics
  live in org/leave/profile; this layer only translates.

ENDPOINTS:
  Employees:
    GET  /api/employees/{id}/profile   Composite profile
    GET  /api/employees/{id}/balance   Leave balance (?year=YYYY)
    GET  /api/employees/{id}/lineage   Reporting chain
    GET  /api/employees/{id}/requests  Time-off requests (?year=YYYY)
    POST /api/employees/{id}/requests  Submit a time-off request

  Requests:
    POST /api/requests/{id}/approve    Approve (pending only)
    POST /api/requests/{id}/reject     Reject (pending only)
    POST /api/requests/{id}/cancel     Cancel (pending or approved)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid input, reversed date range, unknown category
  - 404: employee/team/request not found
  - 409: scheduling conflict, invalid state transition
  - 500: internal errors

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/people-engine/calendar"
	"github.com/warp/people-engine/leave"
	"github.com/warp/people-engine/org"
	"github.com/warp/people-engine/profile"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Lookup     profile.Lookup
	Aggregator *profile.Aggregator
	Workflow   *leave.Workflow
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewHandler creates a handler over the given lookup and workflow.
func NewHandler(lookup profile.Lookup, workflow *leave.Workflow, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Lookup:     lookup,
		Aggregator: profile.NewAggregator(lookup, logger),
		Workflow:   workflow,
		Logger:     logger,
		Now:        time.Now,
	}
}

// =============================================================================
// EMPLOYEE READ HANDLERS
// =============================================================================

// GetProfile returns the composite profile for one employee.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	p, err := h.Aggregator.GetDetailedProfile(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to build profile", err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

// GetBalance returns the employee's leave balance for a year
// (default: the current year).
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	year := h.yearParam(r)

	employee, err := h.Lookup.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}

	requests, err := h.Lookup.GetTimeOffRequests(r.Context(), id,
		calendar.StartOfYear(year), calendar.EndOfYear(year))
	if err != nil {
		h.writeDomainError(w, "Failed to list requests", err)
		return
	}

	balance, err := leave.ComputeBalance(*employee, requests, year)
	if err != nil {
		h.writeDomainError(w, "Failed to compute balance", err)
		return
	}

	writeJSON(w, http.StatusOK, toBalanceDTO(balance))
}

// GetLineage returns the employee's reporting chain.
func (h *Handler) GetLineage(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	lineage, err := org.ResolveLineage(r.Context(), id, h.Lookup)
	if err != nil {
		h.writeDomainError(w, "Failed to resolve lineage", err)
		return
	}

	writeJSON(w, http.StatusOK, toLineageDTOs(lineage))
}

// ListRequests returns the employee's time-off requests for a year.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	year := h.yearParam(r)

	requests, err := h.Lookup.GetTimeOffRequests(r.Context(), id,
		calendar.StartOfYear(year), calendar.EndOfYear(year))
	if err != nil {
		h.writeDomainError(w, "Failed to list requests", err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestDTOs(requests))
}

// =============================================================================
// REQUEST LIFECYCLE HANDLERS
// =============================================================================

// SubmitRequest creates a new pending time-off request.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	var dto SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := time.Parse("2006-01-02", dto.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := time.Parse("2006-01-02", dto.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}

	// The subject must exist before a request can be filed for them.
	if _, err := h.Lookup.GetEmployee(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}

	req, err := h.Workflow.Submit(r.Context(), leave.Submission{
		EmployeeID: id,
		Category:   leave.Category(dto.Category),
		StartDate:  start,
		EndDate:    end,
		Reason:     dto.Reason,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to submit request", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRequestDTO(*req))
}

// ApproveRequest approves a pending request.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(requestID string, d DecisionDTO) (*leave.Request, error) {
		return h.Workflow.Approve(r.Context(), requestID, org.EmployeeID(d.ActorID))
	})
}

// RejectRequest rejects a pending request with a note.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(requestID string, d DecisionDTO) (*leave.Request, error) {
		return h.Workflow.Reject(r.Context(), requestID, org.EmployeeID(d.ActorID), d.Note)
	})
}

// CancelRequest cancels a pending or approved request.
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(requestID string, d DecisionDTO) (*leave.Request, error) {
		return h.Workflow.Cancel(r.Context(), requestID, org.EmployeeID(d.ActorID))
	})
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(string, DecisionDTO) (*leave.Request, error)) {
	requestID := chi.URLParam(r, "id")

	var dto DecisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req, err := fn(requestID, dto)
	if err != nil {
		h.writeDomainError(w, "Failed to transition request", err)
		return
	}

	writeJSON(w, http.StatusOK, toRequestDTO(*req))
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeIDParam(w http.ResponseWriter, r *http.Request) (org.EmployeeID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return 0, false
	}
	return org.EmployeeID(id), true
}

func (h *Handler) yearParam(r *http.Request) int {
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			return year
		}
	}
	return h.Now().UTC().Year()
}

// writeDomainError maps engine errors onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case org.IsNotFound(err), errors.Is(err, leave.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, leave.ErrConflict), errors.Is(err, leave.ErrInvalidTransition):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, calendar.ErrInvalidRange), errors.Is(err, leave.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error("internal error", zap.String("message", message), zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
