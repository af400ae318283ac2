package vcp

import "errors"

// Session and registry errors.
var (
	// ErrNoDatabase means a session was requested without a local database.
	ErrNoDatabase = errors.New("no local database")

	// ErrClientAlreadyAttached means Attach was called with a client while
	// the session already holds a different one.
	ErrClientAlreadyAttached = errors.New("a different client is already attached")

	// ErrSessionDetached means the operation lost a race with session
	// teardown and was not submitted.
	ErrSessionDetached = errors.New("session is detached")

	// ErrNotAttached means a client command was issued on a session with
	// no attached client.
	ErrNotAttached = errors.New("no client attached")

	// ErrNotDiscovered means the remote characteristic the command needs
	// was not found during discovery.
	ErrNotDiscovered = errors.New("characteristic not discovered")

	// ErrStateUnknown means the remote state (and with it the change
	// counter) has not been read yet, so a control-point operand cannot
	// be built.
	ErrStateUnknown = errors.New("remote state not yet known")
)
