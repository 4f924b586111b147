package domain

import (
	"github.com/allisson/votesafe/internal/errors"
)

var (
	// ErrAuditEntryNotFound indicates no entry exists with the requested ID.
	ErrAuditEntryNotFound = errors.Wrap(errors.ErrNotFound, "audit entry not found")

	// ErrInvalidEventType indicates an unknown event type.
	ErrInvalidEventType = errors.Wrap(errors.ErrInvalidInput, "invalid event type")

	// ErrActionRequired indicates an entry was recorded without an action.
	ErrActionRequired = errors.Wrap(errors.ErrInvalidInput, "action is required")

	// ErrAuditTamperDetected indicates a stored entry no longer matches its integrity hash.
	ErrAuditTamperDetected = errors.New("audit tamper detected")
)
