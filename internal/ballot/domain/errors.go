package domain

import (
	"github.com/allisson/votesafe/internal/errors"
)

var (
	// ErrAlreadyVoted indicates the voter already cast a ballot in the election.
	ErrAlreadyVoted = errors.Wrap(errors.ErrConflict, "voter already cast a ballot in this election")

	// ErrBallotNotFound indicates the ballot does not exist.
	ErrBallotNotFound = errors.Wrap(errors.ErrNotFound, "ballot not found")
)

// Reasons recorded for ballots rejected by the tally.
const (
	RejectMalformed         = "malformed"
	RejectKeyNotFound       = "key_not_found"
	RejectDecryptionFailed  = "decryption_failed"
	RejectIntegrityMismatch = "integrity_mismatch"
)
