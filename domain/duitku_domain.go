package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DuitkuResultSuccess = "00"
	DuitkuResultPending = "01"

	DuitkuStatusAccepted = "00"

	CallbackResponseSuccess          = "SUCCESS"
	CallbackResponseInvalidSignature = "INVALID_SIGNATURE"
	CallbackResponseError            = "ERROR"
)

var (
	ErrInvalidSignature = errors.New("invalid callback signature")
	ErrUnknownOrder     = errors.New("unknown merchant order id")
	ErrAmountMismatch   = errors.New("callback amount does not match order")
	ErrInvalidCallback  = errors.New("malformed callback payload")
)

type (
	// DuitkuCallbackRequest is the form body the gateway posts back, bound as-is.
	DuitkuCallbackRequest struct {
		MerchantCode    string `form:"merchantCode" validate:"required"`
		Amount          string `form:"amount" validate:"required,numeric"`
		MerchantOrderID string `form:"merchantOrderId" validate:"required,merchant_order_id"`
		ProductDetail   string `form:"productDetail"`
		AdditionalParam string `form:"additionalParam"`
		PaymentCode     string `form:"paymentCode"`
		ResultCode      string `form:"resultCode" validate:"required"`
		MerchantUserID  string `form:"merchantUserId"`
		Reference       string `form:"reference"`
		Signature       string `form:"signature" validate:"required"`
		PaymentMethod   string `form:"paymentMethod"`
		VANumber        string `form:"vaNumber"`
		Issuer          string `form:"issuer"`
	}

	// DuitkuCallback is the coerced callback used by business logic. RawAmount
	// keeps the exact string the gateway signed.
	DuitkuCallback struct {
		MerchantCode    string `json:"merchantCode"`
		Amount          int64  `json:"amount"`
		RawAmount       string `json:"-"`
		MerchantOrderID string `json:"merchantOrderId"`
		ProductDetail   string `json:"productDetail"`
		AdditionalParam string `json:"additionalParam"`
		PaymentCode     string `json:"paymentCode"`
		ResultCode      string `json:"resultCode"`
		MerchantUserID  string `json:"merchantUserId"`
		Reference       string `json:"reference"`
		Signature       string `json:"-"`
		PaymentMethod   string `json:"paymentMethod"`
		VANumber        string `json:"vaNumber"`
		Issuer          string `json:"issuer"`
	}

	DuitkuItemDetail struct {
		Name     string `json:"name"`
		Price    int64  `json:"price"`
		Quantity int    `json:"quantity"`
	}

	DuitkuInquiryRequest struct {
		MerchantCode    string             `json:"merchantCode"`
		PaymentAmount   int64              `json:"paymentAmount"`
		PaymentMethod   string             `json:"paymentMethod"`
		MerchantOrderID string             `json:"merchantOrderId"`
		ProductDetails  string             `json:"productDetails"`
		Email           string             `json:"email"`
		PhoneNumber     string             `json:"phoneNumber,omitempty"`
		CustomerVaName  string             `json:"customerVaName"`
		ItemDetails     []DuitkuItemDetail `json:"itemDetails"`
		CallbackURL     string             `json:"callbackUrl"`
		ReturnURL       string             `json:"returnUrl"`
		Signature       string             `json:"signature"`
		ExpiryPeriod    int                `json:"expiryPeriod"`
	}

	DuitkuInquiryResponse struct {
		MerchantCode  string `json:"merchantCode"`
		Reference     string `json:"reference"`
		PaymentURL    string `json:"paymentUrl"`
		VANumber      string `json:"vaNumber"`
		Amount        string `json:"amount"`
		StatusCode    string `json:"statusCode"`
		StatusMessage string `json:"statusMessage"`
	}

	PaymentSessionRequest struct {
		MerchantOrderID string
		Amount          int64
		ProductDetails  string
		Email           string
		CustomerName    string
		PhoneNumber     string
		PaymentMethod   string
		Items           []DuitkuItemDetail
	}

	PaymentSession struct {
		PaymentURL string
		Reference  string
		StatusCode string
		VANumber   string
	}
)

// ParseDuitkuCallback coerces a bound callback request into its typed form.
// Field presence is expected to be checked by the validator beforehand.
func ParseDuitkuCallback(req DuitkuCallbackRequest) (DuitkuCallback, error) {
	raw := strings.TrimSpace(req.Amount)
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || amount < 0 {
		return DuitkuCallback{}, fmt.Errorf("%w: amount %q", ErrInvalidCallback, req.Amount)
	}
	if req.MerchantOrderID == "" || req.Signature == "" || req.ResultCode == "" {
		return DuitkuCallback{}, ErrInvalidCallback
	}

	return DuitkuCallback{
		MerchantCode:    req.MerchantCode,
		Amount:          amount,
		RawAmount:       raw,
		MerchantOrderID: req.MerchantOrderID,
		ProductDetail:   req.ProductDetail,
		AdditionalParam: req.AdditionalParam,
		PaymentCode:     req.PaymentCode,
		ResultCode:      req.ResultCode,
		MerchantUserID:  req.MerchantUserID,
		Reference:       req.Reference,
		Signature:       req.Signature,
		PaymentMethod:   req.PaymentMethod,
		VANumber:        req.VANumber,
		Issuer:          req.Issuer,
	}, nil
}
