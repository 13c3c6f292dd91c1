package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCastVote     = "vote cast successfully"
	MessageSuccessGetUserVotes = "votes retrieved successfully"

	MessageFailedCastVote     = "failed to cast vote"
	MessageFailedGetUserVotes = "failed to retrieve votes"

	ErrBelowMinimum       = errors.New("points used is below the points required per vote")
	ErrNotAMultiple       = errors.New("points used must be a multiple of points per vote")
	ErrInsufficientPoints = errors.New("insufficient points")
)

type (
	CastVoteRequest struct {
		CandidateID string `json:"candidate_id" validate:"required"`
		PointsUsed  int    `json:"points_used" validate:"required,gt=0"`
	}

	Vote struct {
		ID            string    `json:"id"`
		UserID        string    `json:"user_id"`
		CandidateID   string    `json:"candidate_id"`
		CandidateName string    `json:"candidate_name,omitempty"`
		PointsUsed    int       `json:"points_used"`
		VotesReceived int       `json:"votes_received"`
		CreatedAt     time.Time `json:"created_at"`
	}
)
