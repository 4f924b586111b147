package dto

import (
	"sort"
	"time"

	ballotDomain "github.com/allisson/votesafe/internal/ballot/domain"
)

// ReceiptResponse acknowledges a stored ballot. It does not reveal the choice.
type ReceiptResponse struct {
	BallotID   string    `json:"ballot_id"`
	ElectionID string    `json:"election_id"`
	KeyVersion uint      `json:"key_version"`
	CastAt     time.Time `json:"cast_at"`
}

// MapReceiptToResponse converts a domain receipt to an API response.
func MapReceiptToResponse(receipt *ballotDomain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		BallotID:   receipt.BallotID.String(),
		ElectionID: receipt.ElectionID,
		KeyVersion: receipt.KeyVersion,
		CastAt:     receipt.CastAt,
	}
}

// ParticipationResponse tells a voter whether they already voted.
type ParticipationResponse struct {
	ElectionID string `json:"election_id"`
	Voted      bool   `json:"voted"`
}

// TurnoutResponse is the number of ballots stored for an election.
type TurnoutResponse struct {
	ElectionID string `json:"election_id"`
	Ballots    int    `json:"ballots"`
}

// CandidateCount is one line of a tally.
type CandidateCount struct {
	CandidateID string `json:"candidate_id"`
	Votes       int    `json:"votes"`
}

// RejectedBallotResponse names a ballot left out of the tally.
type RejectedBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Reason   string `json:"reason"`
}

// TallyResponse is the result of counting an election.
type TallyResponse struct {
	ElectionID string                   `json:"election_id"`
	Results    []CandidateCount         `json:"results"`
	Counted    int                      `json:"counted"`
	Rejected   []RejectedBallotResponse `json:"rejected"`
	TalliedAt  time.Time                `json:"tallied_at"`
}

// MapTallyResultToResponse converts a tally to an API response.
// Results are ordered by votes descending, then by candidate id.
func MapTallyResultToResponse(result *ballotDomain.TallyResult) TallyResponse {
	results := make([]CandidateCount, 0, len(result.Counts))
	for candidate, votes := range result.Counts {
		results = append(results, CandidateCount{CandidateID: candidate, Votes: votes})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Votes != results[j].Votes {
			return results[i].Votes > results[j].Votes
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	rejected := make([]RejectedBallotResponse, 0, len(result.Rejected))
	for _, r := range result.Rejected {
		rejected = append(rejected, RejectedBallotResponse{BallotID: r.BallotID.String(), Reason: r.Reason})
	}

	return TallyResponse{
		ElectionID: result.ElectionID,
		Results:    results,
		Counted:    result.Counted,
		Rejected:   rejected,
		TalliedAt:  result.TalliedAt,
	}
}
