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
	"github.com/google/uuid"
	"gorm.io/gorm"
	"strconv"
	"strings"
	"time"
)

const (
	orderIDPrefix    = "VOTE-"
	maxOrderIDLength = 50
)

type (
	PurchaseService interface {
		Initiate(ctx context.Context, req domain.PurchaseRequest, userID string) (*domain.PurchaseResponse, error)
		GetPurchase(ctx context.Context, purchaseID string, userID string) (*domain.PointPurchase, error)
		GetUserPurchases(ctx context.Context, userID string, page, limit int) ([]*domain.PointPurchase, int64, error)
	}

	PurchaseConfig struct {
		MinAmount int64
		MinPoints int
	}

	purchaseService struct {
		purchaseRepository PurchaseRepository
		duitkuService      duitku.DuitkuService
		metrics            *metrics.Metrics
		cfg                PurchaseConfig
		now                func() time.Time
		newOrderID         func(userID string, now time.Time) string
	}
)

func NewPurchaseService(
	purchaseRepository PurchaseRepository,
	duitkuService duitku.DuitkuService,
	m *metrics.Metrics,
	cfg PurchaseConfig,
) PurchaseService {
	if cfg.MinAmount <= 0 {
		cfg.MinAmount = 10000
	}
	if cfg.MinPoints <= 0 {
		cfg.MinPoints = 1
	}
	return &purchaseService{
		purchaseRepository: purchaseRepository,
		duitkuService:      duitkuService,
		metrics:            m,
		cfg:                cfg,
		now:                func() time.Time { return time.Now().UTC() },
		newOrderID:         GenerateMerchantOrderID,
	}
}

func (s *purchaseService) Initiate(ctx context.Context, req domain.PurchaseRequest, userID string) (*domain.PurchaseResponse, error) {
	resp, err := s.initiate(ctx, req, userID)
	if err != nil {
		s.metrics.Purchase(domain.ErrorCode(err))
		return nil, err
	}
	s.metrics.Purchase("ok")
	return resp, nil
}

func (s *purchaseService) initiate(ctx context.Context, req domain.PurchaseRequest, userID string) (*domain.PurchaseResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	if req.UserID != "" && req.UserID != userID {
		return nil, domain.ErrUserNotAllowed
	}

	// Resolve the package, whose points and price win over the request
	points, amount := req.Points, req.Amount
	var packageID *uuid.UUID
	productDetails := fmt.Sprintf("%d voting points", points)
	if req.PackageID != "" {
		pkg, err := s.activePackage(ctx, req.PackageID)
		if err != nil {
			return nil, err
		}
		if (points != 0 && points != pkg.Points) || (amount != 0 && amount != pkg.Price) {
			return nil, fmt.Errorf("%w: points and amount must match package %s", domain.ErrInvalidRequest, pkg.Name)
		}
		points, amount = pkg.Points, pkg.Price
		packageID = &pkg.ID
		productDetails = fmt.Sprintf("%s (%d voting points)", pkg.Name, pkg.Points)
	}

	if amount < s.cfg.MinAmount {
		return nil, fmt.Errorf("%w: amount must be at least %d", domain.ErrInvalidRequest, s.cfg.MinAmount)
	}
	if points < s.cfg.MinPoints {
		return nil, fmt.Errorf("%w: points must be at least %d", domain.ErrInvalidRequest, s.cfg.MinPoints)
	}

	user, err := s.purchaseRepository.GetUserByID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	phone := req.PhoneNumber
	if phone == "" {
		phone = user.PhoneNumber
	}

	// Persist the pending row before any gateway state exists
	purchase := &entities.PointPurchase{
		MerchantOrderID: s.newOrderID(userID, s.now()),
		UserID:          userUUID,
		PackageID:       packageID,
		Points:          points,
		Amount:          amount,
		PaymentStatus:   entities.PaymentStatusPending,
		PaymentMethod:   req.PaymentMethod,
		PhoneNumber:     phone,
	}
	if err := s.purchaseRepository.CreatePointPurchase(ctx, purchase); err != nil {
		if errors.Is(err, domain.ErrDuplicateOrder) {
			log.Warnw("merchant order id collision", "merchant_order_id", purchase.MerchantOrderID)
		}
		return nil, err
	}

	// Request payment session
	session, err := s.duitkuService.CreatePaymentSession(ctx, domain.PaymentSessionRequest{
		MerchantOrderID: purchase.MerchantOrderID,
		Amount:          amount,
		ProductDetails:  productDetails,
		Email:           user.Email,
		CustomerName:    user.Name,
		PhoneNumber:     phone,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		log.Warnw("payment session request failed, purchase left pending",
			"merchant_order_id", purchase.MerchantOrderID, "error", err)
		return nil, err
	}

	// The callback reconciles by merchant order id, so a failed attach is not fatal
	if err := s.purchaseRepository.AttachPaymentSession(ctx, purchase.ID, session.Reference, session.PaymentURL); err != nil {
		log.Errorw("failed to attach payment session",
			"merchant_order_id", purchase.MerchantOrderID, "error", err)
	}

	log.Infow("point purchase initiated",
		"merchant_order_id", purchase.MerchantOrderID, "points", points, "amount", amount)

	return &domain.PurchaseResponse{
		PointPurchaseID: purchase.ID.String(),
		MerchantOrderID: purchase.MerchantOrderID,
		PaymentURL:      session.PaymentURL,
		Reference:       session.Reference,
	}, nil
}

func (s *purchaseService) activePackage(ctx context.Context, packageID string) (*entities.Package, error) {
	id, err := uuid.Parse(packageID)
	if err != nil {
		return nil, domain.ErrInvalidPackage
	}
	pkg, err := s.purchaseRepository.GetPackageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidPackage
		}
		return nil, err
	}
	if !pkg.IsActive {
		return nil, domain.ErrInvalidPackage
	}
	return pkg, nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, purchaseID string, userID string) (*domain.PointPurchase, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	id, err := uuid.Parse(purchaseID)
	if err != nil {
		return nil, domain.ErrPurchaseNotFound
	}

	purchase, err := s.purchaseRepository.GetPointPurchaseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, err
	}
	// Other users' purchases are reported as missing
	if purchase.UserID != userUUID {
		return nil, domain.ErrPurchaseNotFound
	}

	return toPointPurchase(purchase), nil
}

func (s *purchaseService) GetUserPurchases(ctx context.Context, userID string, page, limit int) ([]*domain.PointPurchase, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	purchases, count, err := s.purchaseRepository.GetUserPointPurchases(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.PointPurchase, 0, len(purchases))
	for _, p := range purchases {
		result = append(result, toPointPurchase(p))
	}
	return result, count, nil
}

func toPointPurchase(p *entities.PointPurchase) *domain.PointPurchase {
	out := &domain.PointPurchase{
		ID:              p.ID.String(),
		MerchantOrderID: p.MerchantOrderID,
		Points:          p.Points,
		Amount:          p.Amount,
		PaymentStatus:   p.PaymentStatus,
		PaymentMethod:   p.PaymentMethod,
		Reference:       p.Reference,
		PaymentURL:      p.PaymentURL,
		SettledAt:       p.SettledAt,
		CreatedAt:       p.CreatedAt,
	}
	if p.PackageID != nil {
		out.PackageID = p.PackageID.String()
	}
	return out
}

// GenerateMerchantOrderID builds a gateway order reference from the clock,
// the owner and a random suffix. The store's unique index is the final
// guard against collisions.
func GenerateMerchantOrderID(userID string, now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ts) > 10 {
		ts = ts[len(ts)-10:]
	}

	owner := alphanumeric(userID, 8)
	suffix := strings.ToUpper(alphanumeric(uuid.NewString(), 8))

	id := orderIDPrefix + ts + "-" + owner + "-" + suffix
	if len(id) > maxOrderIDLength {
		id = id[:maxOrderIDLength]
	}
	return id
}

func alphanumeric(s string, n int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() == n {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
