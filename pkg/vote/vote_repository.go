package vote

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/entities"
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	VoteRepository interface {
		GetUserBalance(ctx context.Context, userID uuid.UUID) (int, error)
		CastVote(ctx context.Context, vote *entities.Vote) error
		GetUserVotes(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Vote, int64, error)
	}

	voteRepository struct {
		db *gorm.DB
	}
)

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) GetUserBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Select("id", "points").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return 0, err
	}
	return user.Points, nil
}

// CastVote debits the voter and records the vote in one transaction. The
// debit only applies while the balance covers it.
func (r *voteRepository) CastVote(ctx context.Context, vote *entities.Vote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.User{}).
			Where("id = ? AND points >= ?", vote.UserID, vote.PointsUsed).
			Update("points", gorm.Expr("points - ?", vote.PointsUsed))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInsufficientPoints
		}

		return tx.Create(vote).Error
	})
}

func (r *voteRepository) GetUserVotes(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Vote, int64, error) {
	var votes []*entities.Vote
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Vote{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Candidate.Category.Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&votes).Error; err != nil {
		return nil, 0, err
	}

	return votes, count, nil
}
