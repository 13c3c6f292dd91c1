package domain

import "errors"

var (
	MessageSuccessGetCandidateVotes = "candidate votes retrieved successfully"
	MessageFailedGetCandidateVotes  = "failed to retrieve candidate votes"

	ErrCandidateNotFound = errors.New("candidate not found")
	ErrEventNotStarted   = errors.New("event has not started")
	ErrEventEnded        = errors.New("event has ended")
)

type CandidateVoteCount struct {
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	EventID       string `json:"event_id"`
	TotalPoints   int    `json:"total_points"`
	PointsPerVote int    `json:"points_per_vote"`
	Votes         int    `json:"votes"`
}
