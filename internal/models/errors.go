package models

import "errors"

// Sentinel errors shared across services and handlers. Wrap with
// fmt.Errorf("...: %w", Err...) and test with errors.Is.
var (
	// ErrValidation covers malformed requests: wrong file count, wrong
	// file type, unknown tool.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized covers missing or invalid credentials and tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers unknown ids, reaped records and ownership
	// mismatches. Ownership mismatch deliberately looks identical to a
	// missing record so existence never leaks across owners.
	ErrNotFound = errors.New("not found")

	// ErrEngine covers the PDF engine rejecting its input.
	ErrEngine = errors.New("processing failed")

	// ErrStorage covers blob store or database failures.
	ErrStorage = errors.New("storage failure")
)
