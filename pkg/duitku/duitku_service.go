package duitku

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/entities"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	inquiryPath         = "/webapi/api/merchant/v2/inquiry"
	defaultExpiryPeriod = 60
	defaultTimeout      = 30 * time.Second
	maxResponseBytes    = 1 << 20
)

type (
	DuitkuService interface {
		CreatePaymentSession(ctx context.Context, req domain.PaymentSessionRequest) (*domain.PaymentSession, error)
		ValidateCallbackSignature(cb domain.DuitkuCallback) bool
		MerchantCode() string
	}

	Config struct {
		MerchantCode string
		APIKey       string
		BaseURL      string
		CallbackURL  string
		ReturnURL    string
		ExpiryPeriod int
		Timeout      time.Duration
	}

	duitkuService struct {
		cfg    Config
		client *http.Client
	}
)

// NewDuitkuService builds a gateway client. A nil httpClient gets one with
// cfg.Timeout applied.
func NewDuitkuService(cfg Config, httpClient *http.Client) DuitkuService {
	if cfg.ExpiryPeriod <= 0 {
		cfg.ExpiryPeriod = defaultExpiryPeriod
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &duitkuService{
		cfg:    cfg,
		client: httpClient,
	}
}

func (s *duitkuService) MerchantCode() string {
	return s.cfg.MerchantCode
}

func (s *duitkuService) CreatePaymentSession(ctx context.Context, req domain.PaymentSessionRequest) (*domain.PaymentSession, error) {
	items := req.Items
	if len(items) == 0 {
		items = []domain.DuitkuItemDetail{{
			Name:     req.ProductDetails,
			Price:    req.Amount,
			Quantity: 1,
		}}
	}

	payload := domain.DuitkuInquiryRequest{
		MerchantCode:    s.cfg.MerchantCode,
		PaymentAmount:   req.Amount,
		PaymentMethod:   req.PaymentMethod,
		MerchantOrderID: req.MerchantOrderID,
		ProductDetails:  req.ProductDetails,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		CustomerVaName:  SanitizeCustomerName(req.CustomerName),
		ItemDetails:     items,
		CallbackURL:     s.cfg.CallbackURL,
		ReturnURL:       s.cfg.ReturnURL,
		Signature:       Sign(s.cfg.MerchantCode, req.MerchantOrderID, req.Amount, s.cfg.APIKey),
		ExpiryPeriod:    s.cfg.ExpiryPeriod,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode inquiry: %v", domain.ErrGatewayError, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+inquiryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrGatewayError, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayError, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGatewayError, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http status %d", domain.ErrGatewayError, resp.StatusCode)
	}

	var out domain.DuitkuInquiryResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrGatewayError, err)
	}
	if out.StatusCode != domain.DuitkuStatusAccepted {
		return nil, fmt.Errorf("%w: gateway status %s %s", domain.ErrGatewayError, out.StatusCode, out.StatusMessage)
	}

	return &domain.PaymentSession{
		PaymentURL: out.PaymentURL,
		Reference:  out.Reference,
		StatusCode: out.StatusCode,
		VANumber:   out.VANumber,
	}, nil
}

func (s *duitkuService) ValidateCallbackSignature(cb domain.DuitkuCallback) bool {
	if cb.Signature == "" {
		return false
	}
	amount := cb.RawAmount
	if amount == "" {
		amount = strconv.FormatInt(cb.Amount, 10)
	}
	expected := CallbackSignature(s.cfg.MerchantCode, amount, cb.MerchantOrderID, s.cfg.APIKey)
	return signaturesEqual(expected, cb.Signature)
}

// StatusFromResultCode maps a callback result code to a payment status.
func StatusFromResultCode(code string) string {
	switch code {
	case domain.DuitkuResultSuccess:
		return entities.PaymentStatusSuccess
	case domain.DuitkuResultPending:
		return entities.PaymentStatusPending
	default:
		return entities.PaymentStatusFailed
	}
}
