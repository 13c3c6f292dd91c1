package event

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/entities"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type (
	EventService interface {
		Resolve(ctx context.Context, candidateID string) (*Resolution, error)
		CandidateVoteCount(ctx context.Context, candidateID string) (*domain.CandidateVoteCount, error)
	}

	// Resolution is a candidate together with the category and event that
	// govern how votes for it are priced.
	Resolution struct {
		Candidate *entities.Candidate
		Category  *entities.Category
		Event     *entities.Event
	}

	eventService struct {
		eventRepository EventRepository
	}
)

func NewEventService(eventRepository EventRepository) EventService {
	return &eventService{
		eventRepository: eventRepository,
	}
}

func (s *eventService) Resolve(ctx context.Context, candidateID string) (*Resolution, error) {
	id, err := uuid.Parse(candidateID)
	if err != nil {
		return nil, domain.ErrCandidateNotFound
	}

	candidate, err := s.eventRepository.GetCandidateWithEvent(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("resolve candidate %s: %w", id, err)
	}
	if candidate.Category == nil || candidate.Category.Event == nil {
		return nil, domain.ErrCandidateNotFound
	}

	return &Resolution{
		Candidate: candidate,
		Category:  candidate.Category,
		Event:     candidate.Category.Event,
	}, nil
}

func (s *eventService) CandidateVoteCount(ctx context.Context, candidateID string) (*domain.CandidateVoteCount, error) {
	res, err := s.Resolve(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	total, err := s.eventRepository.SumPointsByCandidate(ctx, res.Candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("sum votes for candidate %s: %w", res.Candidate.ID, err)
	}

	ppv := PointsPerVote(res.Event)
	return &domain.CandidateVoteCount{
		CandidateID:   res.Candidate.ID.String(),
		CandidateName: res.Candidate.Name,
		EventID:       res.Event.ID.String(),
		TotalPoints:   total,
		PointsPerVote: ppv,
		Votes:         VotesForPoints(total, ppv),
	}, nil
}

// PointsPerVote is the event's exchange rate, never less than one.
func PointsPerVote(ev *entities.Event) int {
	if ev == nil || ev.PointsPerVote < 1 {
		return 1
	}
	return ev.PointsPerVote
}

// VotesForPoints converts spent points to counted votes. Every displayed vote
// count goes through here.
func VotesForPoints(totalPointsUsed, pointsPerVote int) int {
	if pointsPerVote < 1 {
		pointsPerVote = 1
	}
	if totalPointsUsed <= 0 {
		return 0
	}
	return totalPointsUsed / pointsPerVote
}

// CheckVotable reports whether votes may be cast for ev at now.
func CheckVotable(ev *entities.Event, now time.Time) error {
	switch {
	case ev.Status == entities.EventStatusUpcoming, now.Before(ev.StartDate):
		return domain.ErrEventNotStarted
	case ev.Status == entities.EventStatusEnded, !ev.IsActive, now.After(ev.EndDate):
		return domain.ErrEventEnded
	}
	return nil
}
