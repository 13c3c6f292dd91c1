package purchase

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/entities"
	"Go-Voting-Backend/internal/metrics"
	"Go-Voting-Backend/pkg/duitku"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
	"time"
)

const defaultValidityDays = 30

type (
	CallbackService interface {
		HandleCallback(ctx context.Context, cb domain.DuitkuCallback) (*domain.ReconciliationResult, error)
	}

	// Notifier tells a user their points arrived.
	Notifier interface {
		SendPurchaseReceipt(ctx context.Context, user *entities.User, purchase *entities.PointPurchase) error
	}

	// Archiver keeps a copy of settled callbacks for audit.
	Archiver interface {
		ArchiveCallback(ctx context.Context, cb domain.DuitkuCallback) error
	}

	CallbackConfig struct {
		DefaultValidityDays int
	}

	callbackService struct {
		purchaseRepository PurchaseRepository
		duitkuService      duitku.DuitkuService
		notifier           Notifier
		archiver           Archiver
		metrics            *metrics.Metrics
		cfg                CallbackConfig
		now                func() time.Time
	}
)

// NewCallbackService wires the reconciler. notifier and archiver may be nil.
func NewCallbackService(
	purchaseRepository PurchaseRepository,
	duitkuService duitku.DuitkuService,
	notifier Notifier,
	archiver Archiver,
	m *metrics.Metrics,
	cfg CallbackConfig,
) CallbackService {
	if cfg.DefaultValidityDays <= 0 {
		cfg.DefaultValidityDays = defaultValidityDays
	}
	return &callbackService{
		purchaseRepository: purchaseRepository,
		duitkuService:      duitkuService,
		notifier:           notifier,
		archiver:           archiver,
		metrics:            m,
		cfg:                cfg,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func (s *callbackService) HandleCallback(ctx context.Context, cb domain.DuitkuCallback) (*domain.ReconciliationResult, error) {
	// Authenticate before touching any state
	if !s.duitkuService.ValidateCallbackSignature(cb) {
		log.Warnw("rejected payment callback with invalid signature",
			"merchant_order_id", cb.MerchantOrderID)
		s.metrics.Callback(metrics.CallbackRejected)
		return nil, domain.ErrInvalidSignature
	}

	purchase, err := s.purchaseRepository.GetPointPurchaseByMerchantOrderID(ctx, cb.MerchantOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorw("payment callback for unknown order",
				"merchant_order_id", cb.MerchantOrderID, "result_code", cb.ResultCode)
			s.metrics.Callback(metrics.CallbackRejected)
			return nil, domain.ErrUnknownOrder
		}
		return nil, fmt.Errorf("lookup order %s: %w", cb.MerchantOrderID, err)
	}

	result := &domain.ReconciliationResult{
		MerchantOrderID: purchase.MerchantOrderID,
		Status:          purchase.PaymentStatus,
	}

	if purchase.IsTerminal() {
		log.Infow("payment callback replay ignored",
			"merchant_order_id", purchase.MerchantOrderID, "status", purchase.PaymentStatus)
		s.metrics.Callback(metrics.CallbackReplay)
		return result, nil
	}

	if cb.Amount != purchase.Amount {
		log.Errorw("payment callback amount mismatch",
			"merchant_order_id", purchase.MerchantOrderID, "expected", purchase.Amount, "got", cb.Amount)
		s.metrics.Callback(metrics.CallbackRejected)
		return nil, domain.ErrAmountMismatch
	}

	status := duitku.StatusFromResultCode(cb.ResultCode)
	if status == entities.PaymentStatusPending {
		s.metrics.Callback(metrics.CallbackPending)
		return result, nil
	}

	now := s.now()
	settlement := Settlement{
		Status:     status,
		Reference:  cb.Reference,
		ResultCode: cb.ResultCode,
		SettledAt:  now,
	}
	if status == entities.PaymentStatusSuccess {
		settlement.History = s.packageHistory(purchase, now)
	}

	applied, err := s.purchaseRepository.Settle(ctx, purchase, settlement)
	if err != nil {
		return nil, fmt.Errorf("settle order %s: %w", purchase.MerchantOrderID, err)
	}
	if !applied {
		// A concurrent delivery settled it first
		s.metrics.Callback(metrics.CallbackReplay)
		if latest, err := s.purchaseRepository.GetPointPurchaseByMerchantOrderID(ctx, purchase.MerchantOrderID); err == nil {
			result.Status = latest.PaymentStatus
		}
		return result, nil
	}

	result.Status = status
	result.NewlySettled = true
	purchase.PaymentStatus = status
	purchase.SettledAt = &now

	if status == entities.PaymentStatusFailed {
		log.Infow("point purchase failed", "merchant_order_id", purchase.MerchantOrderID, "result_code", cb.ResultCode)
		s.metrics.Callback(metrics.CallbackFailed)
		return result, nil
	}

	log.Infow("point purchase settled",
		"merchant_order_id", purchase.MerchantOrderID, "points", purchase.Points)
	s.metrics.Callback(metrics.CallbackSettled)
	s.metrics.PointsCredited(purchase.Points)
	s.afterSettle(ctx, purchase, cb)

	return result, nil
}

func (s *callbackService) packageHistory(purchase *entities.PointPurchase, now time.Time) *entities.PackageHistory {
	days := s.cfg.DefaultValidityDays
	packageID := ""
	if purchase.PackageID != nil {
		packageID = purchase.PackageID.String()
		if purchase.Package != nil && purchase.Package.ValidityDays > 0 {
			days = purchase.Package.ValidityDays
		}
	}

	validUntil := now.AddDate(0, 0, days)
	return &entities.PackageHistory{
		UserID:          purchase.UserID,
		PackageID:       packageID,
		PointPurchaseID: purchase.ID,
		PointsReceived:  purchase.Points,
		ValidUntil:      validUntil,
		IsActive:        now.Before(validUntil),
	}
}

// afterSettle runs side effects that must never undo a committed settlement.
func (s *callbackService) afterSettle(ctx context.Context, purchase *entities.PointPurchase, cb domain.DuitkuCallback) {
	if s.archiver != nil {
		if err := s.archiver.ArchiveCallback(ctx, cb); err != nil {
			log.Warnw("failed to archive payment callback",
				"merchant_order_id", purchase.MerchantOrderID, "error", err)
		}
	}

	if s.notifier == nil {
		return
	}
	user, err := s.purchaseRepository.GetUserByID(ctx, purchase.UserID)
	if err != nil {
		log.Warnw("failed to load user for purchase receipt",
			"merchant_order_id", purchase.MerchantOrderID, "error", err)
		return
	}
	if err := s.notifier.SendPurchaseReceipt(ctx, user, purchase); err != nil {
		log.Warnw("failed to send purchase receipt",
			"merchant_order_id", purchase.MerchantOrderID, "error", err)
	}
}
