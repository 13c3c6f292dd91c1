package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessInitiatePurchase = "point purchase initiated successfully"
	MessageSuccessGetPurchase      = "point purchase retrieved successfully"
	MessageSuccessGetPurchases     = "point purchases retrieved successfully"

	MessageFailedInitiatePurchase = "failed to initiate point purchase"
	MessageFailedGetPurchase      = "failed to retrieve point purchase"
	MessageFailedGetPurchases     = "failed to retrieve point purchases"

	ErrInvalidPackage   = errors.New("invalid package")
	ErrDuplicateOrder   = errors.New("duplicate merchant order id, please retry")
	ErrGatewayError     = errors.New("payment gateway unavailable, please retry")
	ErrPurchaseNotFound = errors.New("point purchase not found")
)

type (
	PurchaseRequest struct {
		UserID        string `json:"user_id" validate:"omitempty,uuid"`
		PackageID     string `json:"package_id" validate:"omitempty,uuid"`
		Points        int    `json:"points" validate:"gte=0"`
		Amount        int64  `json:"amount" validate:"gte=0"`
		PaymentMethod string `json:"payment_method" validate:"required,alphanum,max=10"`
		PhoneNumber   string `json:"phone_number" validate:"omitempty,max=20"`
	}

	PurchaseResponse struct {
		PointPurchaseID string `json:"point_purchase_id"`
		MerchantOrderID string `json:"merchant_order_id"`
		PaymentURL      string `json:"payment_url"`
		Reference       string `json:"reference"`
	}

	PointPurchase struct {
		ID              string     `json:"id"`
		MerchantOrderID string     `json:"merchant_order_id"`
		PackageID       string     `json:"package_id,omitempty"`
		Points          int        `json:"points"`
		Amount          int64      `json:"amount"`
		PaymentStatus   string     `json:"payment_status"`
		PaymentMethod   string     `json:"payment_method"`
		Reference       string     `json:"reference,omitempty"`
		PaymentURL      string     `json:"payment_url,omitempty"`
		SettledAt       *time.Time `json:"settled_at,omitempty"`
		CreatedAt       time.Time  `json:"created_at"`
	}

	ReconciliationResult struct {
		MerchantOrderID string `json:"merchant_order_id"`
		Status          string `json:"status"`
		NewlySettled    bool   `json:"newly_settled"`
	}
)
