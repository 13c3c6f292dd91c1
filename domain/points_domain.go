package domain

import "time"

var (
	MessageSuccessGetUserPoints     = "user points retrieved successfully"
	MessageSuccessGetPackages       = "packages retrieved successfully"
	MessageSuccessGetPackageHistory = "package history retrieved successfully"

	MessageFailedGetUserPoints     = "failed to retrieve user points"
	MessageFailedGetPackages       = "failed to retrieve packages"
	MessageFailedGetPackageHistory = "failed to retrieve package history"
)

type (
	Package struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Points       int    `json:"points"`
		Price        int64  `json:"price"`
		ValidityDays int    `json:"validity_days"`
		Description  string `json:"description,omitempty"`
		IsPopular    bool   `json:"is_popular"`
	}

	UserPoints struct {
		Balance        int   `json:"balance"`
		TotalPurchased int   `json:"total_purchased"`
		TotalSpent     int   `json:"total_spent"`
		VotesCast      int64 `json:"votes_cast"`
	}

	PackageHistory struct {
		ID              string    `json:"id"`
		PackageID       string    `json:"package_id"`
		PointPurchaseID string    `json:"point_purchase_id"`
		PointsReceived  int       `json:"points_received"`
		ValidUntil      time.Time `json:"valid_until"`
		IsActive        bool      `json:"is_active"`
		CreatedAt       time.Time `json:"created_at"`
	}
)
