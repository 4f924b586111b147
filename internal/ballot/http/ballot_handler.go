// Package http provides HTTP handlers for casting and counting ballots.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	authHTTP "github.com/allisson/votesafe/internal/auth/http"
	ballotDomain "github.com/allisson/votesafe/internal/ballot/domain"
	"github.com/allisson/votesafe/internal/ballot/http/dto"
	ballotUseCase "github.com/allisson/votesafe/internal/ballot/usecase"
	apperrors "github.com/allisson/votesafe/internal/errors"
	"github.com/allisson/votesafe/internal/httputil"
	customValidation "github.com/allisson/votesafe/internal/validation"
)

// AdminActorID is recorded as the actor of tallies requested over the admin API.
const AdminActorID = "admin"

// BallotHandler handles HTTP requests for ballots.
type BallotHandler struct {
	ballotUseCase ballotUseCase.BallotUseCase
	logger        *slog.Logger
}

// NewBallotHandler creates a new ballot handler.
func NewBallotHandler(ballotUseCase ballotUseCase.BallotUseCase, logger *slog.Logger) *BallotHandler {
	return &BallotHandler{
		ballotUseCase: ballotUseCase,
		logger:        logger,
	}
}

// CastHandler stores an encrypted ballot for the authenticated voter.
// POST /v1/elections/:election_id/ballots
// Returns 201 Created with a receipt, or 409 Conflict if the voter already voted.
func (h *BallotHandler) CastHandler(c *gin.Context) {
	session, ok := authHTTP.GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	electionID, ok := h.electionID(c)
	if !ok {
		return
	}

	var req dto.CastBallotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	receipt, err := h.ballotUseCase.Cast(c.Request.Context(), &ballotDomain.CastInput{
		ElectionID:  electionID,
		CandidateID: req.CandidateID,
		UserID:      session.UserID,
	})
	if err != nil {
		if errors.Is(err, ballotDomain.ErrAlreadyVoted) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "already_voted",
				"message": "a ballot was already cast for this election",
			})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapReceiptToResponse(receipt))
}

// ParticipationHandler reports whether the authenticated voter has voted.
// GET /v1/elections/:election_id/participation
func (h *BallotHandler) ParticipationHandler(c *gin.Context) {
	session, ok := authHTTP.GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	electionID, ok := h.electionID(c)
	if !ok {
		return
	}

	voted, err := h.ballotUseCase.HasVoted(c.Request.Context(), electionID, session.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ParticipationResponse{ElectionID: electionID, Voted: voted})
}

// TurnoutHandler returns the number of ballots stored for an election.
// GET /v1/elections/:election_id/turnout
func (h *BallotHandler) TurnoutHandler(c *gin.Context) {
	electionID, ok := h.electionID(c)
	if !ok {
		return
	}

	count, err := h.ballotUseCase.Turnout(c.Request.Context(), electionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.TurnoutResponse{ElectionID: electionID, Ballots: count})
}

// TallyHandler decrypts and counts every ballot of an election.
// POST /v1/admin/elections/:election_id/tally
func (h *BallotHandler) TallyHandler(c *gin.Context) {
	electionID, ok := h.electionID(c)
	if !ok {
		return
	}

	result, err := h.ballotUseCase.Tally(c.Request.Context(), electionID, AdminActorID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTallyResultToResponse(result))
}

func (h *BallotHandler) electionID(c *gin.Context) (string, bool) {
	electionID := c.Param("election_id")
	err := validation.Validate(electionID,
		validation.Required,
		customValidation.NotBlank,
		customValidation.Identifier,
		validation.Length(1, 128),
	)
	if err != nil {
		httputil.HandleBadRequestGin(c, errors.New("invalid election id"), h.logger)
		return "", false
	}
	return electionID, true
}
