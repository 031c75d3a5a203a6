// Package effort contains the pure business logic for colonization efforts.
// This is part of the Functional Core - no I/O, only pure functions.
package effort

import (
	"errors"
	"fmt"
)

var (
	// ErrEffortNotFound is returned when an effort ID is absent from the ledger.
	ErrEffortNotFound = errors.New("effort not found")
	// ErrEffortAlreadyCompleted is returned when an operation targets a completed effort.
	ErrEffortAlreadyCompleted = errors.New("effort already completed")
)

// StateContext provides the context needed to evaluate effort guards.
// Populated by the caller from the current ledger state.
type StateContext struct {
	EffortID     string
	EffortExists bool
	IsCompleted  bool
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
	Err     error  // Sentinel identifying the failure (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
// The returned error wraps Err so callers can match it with errors.Is.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Err == nil {
		return fmt.Errorf("%s", r.Reason)
	}
	return fmt.Errorf("%w: %s", r.Err, r.Reason)
}

// CanAccessEffort evaluates whether an effort can be read or changed.
// Rule: the effort must exist and must not be completed. Completed efforts
// are terminal and hidden from single-effort lookups.
func CanAccessEffort(ctx StateContext) GuardResult {
	if !ctx.EffortExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("no effort with ID %s", ctx.EffortID),
			Err:     ErrEffortNotFound,
		}
	}
	if ctx.IsCompleted {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("effort %s is completed", ctx.EffortID),
			Err:     ErrEffortAlreadyCompleted,
		}
	}
	return GuardResult{Allowed: true}
}

// CanSetRequirements evaluates whether an effort's materials can be replaced.
func CanSetRequirements(ctx StateContext) GuardResult {
	return CanAccessEffort(ctx)
}

// CanDeliver evaluates whether a delivery can be applied to an effort.
func CanDeliver(ctx StateContext) GuardResult {
	return CanAccessEffort(ctx)
}
