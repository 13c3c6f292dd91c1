package purchase

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/entities"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"strings"
	"time"
)

const pgUniqueViolation = "23505"

type (
	PurchaseRepository interface {
		// Point purchases
		CreatePointPurchase(ctx context.Context, purchase *entities.PointPurchase) error
		GetPointPurchaseByID(ctx context.Context, id uuid.UUID) (*entities.PointPurchase, error)
		GetPointPurchaseByMerchantOrderID(ctx context.Context, merchantOrderID string) (*entities.PointPurchase, error)
		GetUserPointPurchases(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.PointPurchase, int64, error)
		AttachPaymentSession(ctx context.Context, id uuid.UUID, reference, paymentURL string) error
		Settle(ctx context.Context, purchase *entities.PointPurchase, settlement Settlement) (bool, error)

		// Lookups
		GetPackageByID(ctx context.Context, id uuid.UUID) (*entities.Package, error)
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	}

	// Settlement is the terminal outcome applied to a pending purchase. History
	// is required when Status is success.
	Settlement struct {
		Status     string
		Reference  string
		ResultCode string
		SettledAt  time.Time
		History    *entities.PackageHistory
	}

	purchaseRepository struct {
		db *gorm.DB
	}
)

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

func (r *purchaseRepository) CreatePointPurchase(ctx context.Context, purchase *entities.PointPurchase) error {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateOrder
		}
		return err
	}
	return nil
}

func (r *purchaseRepository) GetPointPurchaseByID(ctx context.Context, id uuid.UUID) (*entities.PointPurchase, error) {
	var purchase entities.PointPurchase
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) GetPointPurchaseByMerchantOrderID(ctx context.Context, merchantOrderID string) (*entities.PointPurchase, error) {
	var purchase entities.PointPurchase
	if err := r.db.WithContext(ctx).
		Preload("Package", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("merchant_order_id = ?", merchantOrderID).
		First(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) GetUserPointPurchases(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.PointPurchase, int64, error) {
	var purchases []*entities.PointPurchase
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.PointPurchase{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, count, nil
}

func (r *purchaseRepository) AttachPaymentSession(ctx context.Context, id uuid.UUID, reference, paymentURL string) error {
	return r.db.WithContext(ctx).
		Model(&entities.PointPurchase{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reference":   reference,
			"payment_url": paymentURL,
		}).Error
}

// Settle moves a pending purchase to its terminal status. On success the
// user's balance is credited and the history row inserted in the same
// transaction. It reports false when the purchase had already left pending.
func (r *purchaseRepository) Settle(ctx context.Context, purchase *entities.PointPurchase, settlement Settlement) (bool, error) {
	switch settlement.Status {
	case entities.PaymentStatusSuccess:
		if settlement.History == nil {
			return false, fmt.Errorf("settle %s: missing package history", purchase.MerchantOrderID)
		}
	case entities.PaymentStatusFailed:
	default:
		return false, fmt.Errorf("settle %s: unsupported status %q", purchase.MerchantOrderID, settlement.Status)
	}

	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"payment_status": settlement.Status,
			"result_code":    settlement.ResultCode,
			"settled_at":     settlement.SettledAt,
		}
		if settlement.Reference != "" {
			updates["reference"] = settlement.Reference
		}

		// Only the delivery that flips pending may apply effects.
		res := tx.Model(&entities.PointPurchase{}).
			Where("id = ? AND payment_status = ?", purchase.ID, entities.PaymentStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if settlement.Status == entities.PaymentStatusSuccess {
			res = tx.Model(&entities.User{}).
				Where("id = ?", purchase.UserID).
				Update("points", gorm.Expr("points + ?", purchase.Points))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return domain.ErrUserNotFound
			}

			history := settlement.History
			history.UserID = purchase.UserID
			history.PointPurchaseID = purchase.ID
			if err := tx.Create(history).Error; err != nil {
				return err
			}
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *purchaseRepository) GetPackageByID(ctx context.Context, id uuid.UUID) (*entities.Package, error) {
	var pkg entities.Package
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *purchaseRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
