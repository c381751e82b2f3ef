package core

import "errors"

// Admin-facing error taxonomy. Authorization and not-found errors abort a
// command before any mutation; invariant violations abort before mutation;
// best-effort failures (audit writes, identity-provider side calls) are
// logged and never surfaced as command failures.
var (
	// ErrInvalidCredential means the bearer token failed verification.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrNotAuthorized means the verified subject is not an admin.
	ErrNotAuthorized = errors.New("not authorized")

	ErrUserNotFound    = errors.New("user not found")
	ErrLicenseNotFound = errors.New("license not found")

	ErrCannotBanAdmin    = errors.New("cannot ban an admin user")
	ErrCannotDeleteAdmin = errors.New("cannot delete an admin user")

	ErrInvalidPlan     = errors.New("unknown plan")
	ErrInvalidValidity = errors.New("validityDays must be positive")
	ErrInvalidDaysOld  = errors.New("daysOld must be positive")
)
