package purchase

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/entities"
	"Go-Voting-Backend/internal/metrics"
	"Go-Voting-Backend/internal/testutil"
	"Go-Voting-Backend/pkg/duitku"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	testMerchantCode = "DS1234"
	testAPIKey       = "secret-api-key"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (n *recordingNotifier) SendPurchaseReceipt(ctx context.Context, user *entities.User, purchase *entities.PointPurchase) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, user.Email+":"+purchase.MerchantOrderID)
	if n.fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type recordingArchiver struct {
	mu       sync.Mutex
	archived []domain.DuitkuCallback
}

func (a *recordingArchiver) ArchiveCallback(ctx context.Context, cb domain.DuitkuCallback) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.archived = append(a.archived, cb)
	return nil
}

func (a *recordingArchiver) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.archived)
}

type fixture struct {
	db          *gorm.DB
	repo        PurchaseRepository
	purchases   PurchaseService
	callbacks   CallbackService
	notifier    *recordingNotifier
	archiver    *recordingArchiver
	metrics     *metrics.Metrics
	gatewayDown atomic.Bool
	inquiries   atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:       testutil.NewDB(t),
		notifier: &recordingNotifier{},
		archiver: &recordingArchiver{},
		metrics:  metrics.New(prometheus.NewRegistry()),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.inquiries.Add(1)
		if f.gatewayDown.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var req domain.DuitkuInquiryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Signature != duitku.Sign(testMerchantCode, req.MerchantOrderID, req.PaymentAmount, testAPIKey) {
			_ = json.NewEncoder(w).Encode(domain.DuitkuInquiryResponse{StatusCode: "01", StatusMessage: "invalid signature"})
			return
		}
		_ = json.NewEncoder(w).Encode(domain.DuitkuInquiryResponse{
			MerchantCode:  testMerchantCode,
			Reference:     "REF-" + req.MerchantOrderID,
			PaymentURL:    "https://sandbox.duitku.com/pay/" + req.MerchantOrderID,
			Amount:        strconv.FormatInt(req.PaymentAmount, 10),
			StatusCode:    "00",
			StatusMessage: "SUCCESS",
		})
	}))
	t.Cleanup(srv.Close)

	gateway := duitku.NewDuitkuService(duitku.Config{
		MerchantCode: testMerchantCode,
		APIKey:       testAPIKey,
		BaseURL:      srv.URL,
	}, nil)

	f.repo = NewPurchaseRepository(f.db)
	f.purchases = NewPurchaseService(f.repo, gateway, f.metrics, PurchaseConfig{MinAmount: 10000, MinPoints: 1})
	f.callbacks = NewCallbackService(f.repo, gateway, f.notifier, f.archiver, f.metrics, CallbackConfig{DefaultValidityDays: 30})
	return f
}

func signedCallback(merchantOrderID string, amount int64, resultCode string) domain.DuitkuCallback {
	raw := strconv.FormatInt(amount, 10)
	return domain.DuitkuCallback{
		MerchantCode:    testMerchantCode,
		Amount:          amount,
		RawAmount:       raw,
		MerchantOrderID: merchantOrderID,
		ResultCode:      resultCode,
		Reference:       "REF-" + merchantOrderID,
		PaymentMethod:   "OV",
		Signature:       duitku.CallbackSignature(testMerchantCode, raw, merchantOrderID, testAPIKey),
	}
}

func (f *fixture) purchase(t *testing.T, merchantOrderID string) *entities.PointPurchase {
	t.Helper()
	var p entities.PointPurchase
	if err := f.db.Where("merchant_order_id = ?", merchantOrderID).First(&p).Error; err != nil {
		t.Fatalf("load purchase %s: %v", merchantOrderID, err)
	}
	return &p
}

func (f *fixture) historyCount(t *testing.T, purchaseID any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&entities.PackageHistory{}).Where("point_purchase_id = ?", purchaseID).Count(&n).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	return n
}
