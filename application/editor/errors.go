package editor

import (
	pkgerrors "github.com/coltranesx/Project-Area/pkg/errors"
)

var (
	// ErrImportInFlight rejects a second import, and any document change,
	// while an import is pending.
	ErrImportInFlight = pkgerrors.NewConflictError("an import is in progress").WithCode("IMPORT_IN_FLIGHT")

	// ErrResetCancelled is returned when the user declined the reset prompt.
	ErrResetCancelled = pkgerrors.NewCancelledError("reset").WithCode("RESET_CANCELLED")
)

// outcome classifies a command result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case pkgerrors.IsCancelled(err):
		return "cancelled"
	case pkgerrors.IsConflict(err):
		return "rejected"
	case pkgerrors.IsImportInvalid(err):
		return "invalid"
	default:
		return "error"
	}
}
