package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrEndpointRequired = errors.New("endpoint is required")
	ErrConfigRequired   = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrNoPaths   = errors.New("no paths provided")
	ErrEmptyPath = errors.New("path is required")
	ErrEmptyKey  = errors.New("object key is required")
)

// ErrTransferAborted marks a transfer that was cancelled on purpose, by a
// pause or a task cancel. The engine never reports it as a task failure.
var ErrTransferAborted = errors.New("transfer aborted")

// ErrTaskNotFound is returned by engine operations on an unknown task id.
var ErrTaskNotFound = errors.New("task not found")
