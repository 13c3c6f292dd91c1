package points

import (
	"Go-Voting-Backend/entities"
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type (
	PointsRepository interface {
		// Packages
		GetPackages(ctx context.Context) ([]*entities.Package, error)

		// User points
		GetUserBalance(ctx context.Context, userID uuid.UUID) (int, error)
		GetUserPointStats(ctx context.Context, userID uuid.UUID) (*PointStats, error)

		// Package history
		GetPackageHistories(ctx context.Context, userID uuid.UUID) ([]*entities.PackageHistory, error)
		DeactivateExpiredPackageHistories(ctx context.Context, now time.Time) (int64, error)
	}

	PointStats struct {
		Balance        int
		TotalPurchased int
		TotalSpent     int
		VotesCast      int64
	}

	pointsRepository struct {
		db *gorm.DB
	}
)

func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &pointsRepository{
		db: db,
	}
}

func (r *pointsRepository) GetPackages(ctx context.Context) ([]*entities.Package, error) {
	var packages []*entities.Package
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("points ASC").
		Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *pointsRepository) GetUserBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Select("id", "points").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return 0, err
	}
	return user.Points, nil
}

func (r *pointsRepository) GetUserPointStats(ctx context.Context, userID uuid.UUID) (*PointStats, error) {
	balance, err := r.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &PointStats{Balance: balance}

	// Get total purchased
	if err := r.db.WithContext(ctx).
		Model(&entities.PointPurchase{}).
		Where("user_id = ? AND payment_status = ?", userID, entities.PaymentStatusSuccess).
		Select("COALESCE(SUM(points), 0)").
		Row().Scan(&stats.TotalPurchased); err != nil {
		return nil, err
	}

	// Get total spent
	if err := r.db.WithContext(ctx).
		Model(&entities.Vote{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points_used), 0)").
		Row().Scan(&stats.TotalSpent); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Vote{}).
		Where("user_id = ?", userID).
		Count(&stats.VotesCast).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *pointsRepository) GetPackageHistories(ctx context.Context, userID uuid.UUID) ([]*entities.PackageHistory, error) {
	var histories []*entities.PackageHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *pointsRepository) DeactivateExpiredPackageHistories(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.PackageHistory{}).
		Where("is_active = ? AND valid_until <= ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
