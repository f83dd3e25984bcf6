// Package common defines shared constants and sentinel errors used across
// the client and server layers. Callers should match these with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Remote delivery classification (see the sync engine's retry policy).
	ErrTransient  = errors.New("transient delivery failure")
	ErrValidation = errors.New("validation rejected")

	// Local persistence degraded: the merge succeeded in memory but the
	// backing medium did not accept the write.
	ErrDegraded = errors.New("local persistence unavailable")

	// Queue-level errors.
	ErrAttemptsExceeded = errors.New("attempt ceiling exceeded")

	// Workflow errors.
	ErrFinalized    = errors.New("inspection already finalized")
	ErrInvalidToken = errors.New("invalid verification token")
)
