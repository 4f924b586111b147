// Package domain defines cast ballots and election participation.
//
// A ballot never references its voter. Participation records who voted in
// which election, without any link to the ballot, so a voter can cast at
// most one ballot per election while the ballot box stays anonymous.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ballot is one sealed vote. EncryptedVote holds the serialized
// cryptoDomain.EncryptedVote and is parsed only when tallying.
type Ballot struct {
	ID            uuid.UUID
	ElectionID    string
	EncryptedVote string
	CastAt        time.Time
}

// Participation marks that a voter has cast a ballot in an election.
type Participation struct {
	ElectionID string
	UserID     uuid.UUID
	CastAt     time.Time
}

// CastInput holds the parameters of a vote.
type CastInput struct {
	ElectionID  string
	CandidateID string
	UserID      uuid.UUID
}

// Receipt is returned to the voter after a successful cast. It proves the
// ballot was accepted without revealing the choice.
type Receipt struct {
	BallotID   uuid.UUID
	ElectionID string
	KeyVersion uint
	CastAt     time.Time
}

// RejectedBallot is a ballot the tally could not count.
type RejectedBallot struct {
	BallotID uuid.UUID
	Reason   string
}

// TallyResult is the outcome of counting an election.
type TallyResult struct {
	ElectionID string
	Counts     map[string]int
	Counted    int
	Rejected   []RejectedBallot
	TalliedAt  time.Time
}
