package domain

import "errors"

var (
	// ErrValidation marks client-correctable input errors (bad file type,
	// missing fields, malformed values).
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks lookups for records that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration marks fatal startup misconfiguration; a component
	// wrapping it is unusable, not degraded.
	ErrConfiguration = errors.New("configuration error")

	// ErrRecipientLoad marks a failure to read or parse the recipient
	// source. It fails the whole dispatch batch: no recipients could even
	// be attempted.
	ErrRecipientLoad = errors.New("recipient load error")
)
