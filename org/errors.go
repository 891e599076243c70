/*
errors.go - Sentinel errors for the org graph

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, org.ErrEmployeeNotFound) {
        // 404, not 500
    }

  Store implementations must map their "no rows" condition onto these
  sentinels so the engine stays storage-agnostic.
*/
package org

import "errors"

var (
	// ErrEmployeeNotFound is returned when a referenced employee does not
	// exist. Surfaced to the caller, never retried.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrTeamNotFound is returned when a referenced team does not exist.
	ErrTeamNotFound = errors.New("team not found")

	// ErrDepartmentNotFound is returned when a referenced department does
	// not exist.
	ErrDepartmentNotFound = errors.New("department not found")
)

// IsNotFound reports whether the error indicates a missing graph node.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrDepartmentNotFound)
}
