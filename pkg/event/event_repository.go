package event

import (
	"Go-Voting-Backend/entities"
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	EventRepository interface {
		GetCandidateWithEvent(ctx context.Context, candidateID uuid.UUID) (*entities.Candidate, error)
		SumPointsByCandidate(ctx context.Context, candidateID uuid.UUID) (int, error)
	}

	eventRepository struct {
		db *gorm.DB
	}
)

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{
		db: db,
	}
}

func (r *eventRepository) GetCandidateWithEvent(ctx context.Context, candidateID uuid.UUID) (*entities.Candidate, error) {
	var candidate entities.Candidate
	if err := r.db.WithContext(ctx).
		Preload("Category.Event").
		Where("id = ?", candidateID).
		First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *eventRepository) SumPointsByCandidate(ctx context.Context, candidateID uuid.UUID) (int, error) {
	var total int
	if err := r.db.WithContext(ctx).
		Model(&entities.Vote{}).
		Where("candidate_id = ?", candidateID).
		Select("COALESCE(SUM(points_used), 0)").
		Row().Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
