/*
lineage.go - Cycle-safe resolution of an employee's reporting chain

PURPOSE:
  Produces the ordered human hierarchy for one employee: the employee
  first, then each manager up the chain (most-immediate first), then
  the team lead and department head when not already on the chain.

SAFETY INVARIANT:
  The manager pointer is self-referential and the store does not
  guarantee acyclicity. The walk keeps an explicit visited set and
  stops the moment it would revisit an id. This bounds the traversal
  at O(chain length) lookups regardless of how malformed the data is.
  Recursion and call-stack depth are never relied on.

STOP CONDITIONS (manager walk):
  - manager pointer is nil: end of chain
  - pointee already visited: cycle in stored data, stop quietly
  - pointee missing: dangling reference, stop quietly

  Cycles and dangling references are data-integrity defects in the
  collaborator store, not caller errors, so neither fails resolution.

OUTPUT GUARANTEES:
  - the subject appears exactly once, first, with role "self"
  - no employee id appears twice
  - at most |employees| nodes even on fully cyclic data

SEE ALSO:
  - role.go: how manager nodes get their relationship role
  - profile/profile.go: runs this concurrently with balance lookups
*/
package org

import (
	"context"
	"fmt"
)

// LineageNode is one node of a resolved reporting chain. Produced fresh
// on every query; never persisted.
type LineageNode struct {
	EmployeeID EmployeeID
	FirstName  string
	LastName   string
	Position   string
	Role       RelationshipRole
}

// ResolveLineage walks the employee's management chain and team/department
// structure into an ordered, deduplicated sequence of lineage nodes.
// Returns ErrEmployeeNotFound (wrapped) if the subject does not exist.
func ResolveLineage(ctx context.Context, id EmployeeID, lookup Lookup) ([]LineageNode, error) {
	subject, err := lookup.GetEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve lineage for %d: %w", id, err)
	}

	visited := make(map[EmployeeID]bool)
	chain := []LineageNode{toNode(subject, RelationshipSelf)}
	visited[subject.ID] = true

	// Manager chain, most-immediate first.
	next := subject.ManagerID
	for next != nil {
		if visited[*next] {
			break // cycle in stored data
		}
		manager, err := lookup.GetEmployee(ctx, *next)
		if err != nil {
			if IsNotFound(err) {
				break // dangling reference
			}
			return nil, fmt.Errorf("resolve lineage for %d: %w", id, err)
		}
		visited[manager.ID] = true
		chain = append(chain, toNode(manager, classifyManager(manager)))
		next = manager.ManagerID
	}

	// Team lead and department head, appended only when not already on
	// the manager chain.
	if subject.TeamID != nil {
		detail, err := lookup.GetTeamDetail(ctx, *subject.TeamID)
		if err != nil {
			if !IsNotFound(err) {
				return nil, fmt.Errorf("resolve lineage for %d: %w", id, err)
			}
			// dangling team reference: lineage is still usable
		} else {
			if detail.Lead != nil && !visited[detail.Lead.ID] {
				visited[detail.Lead.ID] = true
				chain = append(chain, toNode(detail.Lead, RelationshipTeamLead))
			}
			if detail.Head != nil && !visited[detail.Head.ID] {
				visited[detail.Head.ID] = true
				chain = append(chain, toNode(detail.Head, RelationshipDepartmentHead))
			}
		}
	}

	return chain, nil
}

func toNode(e *Employee, role RelationshipRole) LineageNode {
	return LineageNode{
		EmployeeID: e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Position:   e.Position,
		Role:       role,
	}
}
