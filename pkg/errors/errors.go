// Package errors holds the error kinds shared by the report pipeline and the services
// that expose it. Callers wrap them with context and match with errors.Is.
package errors

import "errors"

var (
	// ErrNotFound an identifier (career, period, teacher) does not resolve to a record
	ErrNotFound = errors.New("record not found")

	// ErrEmptyRoster no teachers were assigned in the requested career and period
	ErrEmptyRoster = errors.New("no teachers found for career and period")

	// ErrPartialData score retrieval failed for one or more teachers; recovered locally
	// with zeroed scores and never returned to HTTP callers
	ErrPartialData = errors.New("score retrieval failed for some teachers")

	// ErrRenderFailure the document template is missing or malformed
	ErrRenderFailure = errors.New("report rendering failed")
)
