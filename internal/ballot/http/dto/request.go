// Package dto provides data transfer objects for the ballot endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/votesafe/internal/validation"
)

// CastBallotRequest carries the voter's choice. The election comes from the path.
type CastBallotRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Validate checks if the cast ballot request is valid.
func (r *CastBallotRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CandidateID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Identifier,
			validation.Length(1, 128),
		),
	)
}
