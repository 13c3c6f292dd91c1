package points

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/internal/metrics"
	"context"
	"errors"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type (
	PointsService interface {
		GetPackages(ctx context.Context) ([]*domain.Package, error)
		GetUserPoints(ctx context.Context, userID string) (*domain.UserPoints, error)
		GetPackageHistory(ctx context.Context, userID string) ([]*domain.PackageHistory, error)
		ExpirePackageHistories(ctx context.Context) (int64, error)
	}

	pointsService struct {
		pointsRepository PointsRepository
		metrics          *metrics.Metrics
		now              func() time.Time
	}
)

func NewPointsService(pointsRepository PointsRepository, m *metrics.Metrics) PointsService {
	return &pointsService{
		pointsRepository: pointsRepository,
		metrics:          m,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *pointsService) GetPackages(ctx context.Context) ([]*domain.Package, error) {
	packages, err := s.pointsRepository.GetPackages(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Package, 0, len(packages))
	for _, pkg := range packages {
		result = append(result, &domain.Package{
			ID:           pkg.ID.String(),
			Name:         pkg.Name,
			Points:       pkg.Points,
			Price:        pkg.Price,
			ValidityDays: pkg.ValidityDays,
			Description:  pkg.Description,
			IsPopular:    pkg.IsPopular,
		})
	}

	return result, nil
}

func (s *pointsService) GetUserPoints(ctx context.Context, userID string) (*domain.UserPoints, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	stats, err := s.pointsRepository.GetUserPointStats(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &domain.UserPoints{
		Balance:        stats.Balance,
		TotalPurchased: stats.TotalPurchased,
		TotalSpent:     stats.TotalSpent,
		VotesCast:      stats.VotesCast,
	}, nil
}

// GetPackageHistory reports activity against the current clock rather than
// the stored flag, which only the expiry sweep refreshes.
func (s *pointsService) GetPackageHistory(ctx context.Context, userID string) ([]*domain.PackageHistory, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	histories, err := s.pointsRepository.GetPackageHistories(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]*domain.PackageHistory, 0, len(histories))
	for _, h := range histories {
		result = append(result, &domain.PackageHistory{
			ID:              h.ID.String(),
			PackageID:       h.PackageID,
			PointPurchaseID: h.PointPurchaseID.String(),
			PointsReceived:  h.PointsReceived,
			ValidUntil:      h.ValidUntil,
			IsActive:        h.IsActive && now.Before(h.ValidUntil),
			CreatedAt:       h.CreatedAt,
		})
	}
	return result, nil
}

func (s *pointsService) ExpirePackageHistories(ctx context.Context) (int64, error) {
	n, err := s.pointsRepository.DeactivateExpiredPackageHistories(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Infow("package histories expired", "count", n)
	}
	s.metrics.HistoriesExpired(n)
	return n, nil
}
