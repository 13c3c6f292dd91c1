package vote

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/entities"
	"Go-Voting-Backend/internal/metrics"
	"Go-Voting-Backend/pkg/event"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type (
	VoteService interface {
		CastVote(ctx context.Context, req domain.CastVoteRequest, userID string) (*domain.Vote, error)
		GetUserVotes(ctx context.Context, userID string, page, limit int) ([]*domain.Vote, int64, error)
	}

	voteService struct {
		voteRepository VoteRepository
		eventService   event.EventService
		metrics        *metrics.Metrics
		now            func() time.Time
	}
)

func NewVoteService(voteRepository VoteRepository, eventService event.EventService, m *metrics.Metrics) VoteService {
	return &voteService{
		voteRepository: voteRepository,
		eventService:   eventService,
		metrics:        m,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *voteService) CastVote(ctx context.Context, req domain.CastVoteRequest, userID string) (*domain.Vote, error) {
	vote, err := s.castVote(ctx, req, userID)
	if err != nil {
		s.metrics.Vote(domain.ErrorCode(err), 0)
		return nil, err
	}
	s.metrics.Vote("ok", vote.PointsUsed)
	return vote, nil
}

func (s *voteService) castVote(ctx context.Context, req domain.CastVoteRequest, userID string) (*domain.Vote, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	// Resolve candidate and check the event window
	res, err := s.eventService.Resolve(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if err := event.CheckVotable(res.Event, s.now()); err != nil {
		return nil, err
	}

	ppv := event.PointsPerVote(res.Event)
	if req.PointsUsed < ppv {
		return nil, domain.ErrBelowMinimum
	}
	if req.PointsUsed%ppv != 0 {
		return nil, domain.ErrNotAMultiple
	}

	balance, err := s.voteRepository.GetUserBalance(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if balance < req.PointsUsed {
		return nil, domain.ErrInsufficientPoints
	}

	vote := &entities.Vote{
		UserID:      userUUID,
		CandidateID: res.Candidate.ID,
		PointsUsed:  req.PointsUsed,
	}
	if err := s.voteRepository.CastVote(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrInsufficientPoints) {
			return nil, err
		}
		return nil, fmt.Errorf("cast vote for candidate %s: %w", res.Candidate.ID, err)
	}

	log.Infow("vote cast", "candidate_id", res.Candidate.ID, "points_used", req.PointsUsed)

	return &domain.Vote{
		ID:            vote.ID.String(),
		UserID:        vote.UserID.String(),
		CandidateID:   vote.CandidateID.String(),
		CandidateName: res.Candidate.Name,
		PointsUsed:    vote.PointsUsed,
		VotesReceived: event.VotesForPoints(vote.PointsUsed, ppv),
		CreatedAt:     vote.CreatedAt,
	}, nil
}

func (s *voteService) GetUserVotes(ctx context.Context, userID string, page, limit int) ([]*domain.Vote, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	votes, count, err := s.voteRepository.GetUserVotes(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Vote, 0, len(votes))
	for _, v := range votes {
		item := &domain.Vote{
			ID:          v.ID.String(),
			UserID:      v.UserID.String(),
			CandidateID: v.CandidateID.String(),
			PointsUsed:  v.PointsUsed,
			CreatedAt:   v.CreatedAt,
		}
		var ev *entities.Event
		if v.Candidate != nil {
			item.CandidateName = v.Candidate.Name
			if v.Candidate.Category != nil {
				ev = v.Candidate.Category.Event
			}
		}
		item.VotesReceived = event.VotesForPoints(v.PointsUsed, event.PointsPerVote(ev))
		result = append(result, item)
	}
	return result, count, nil
}
