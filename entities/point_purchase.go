package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

type Package struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Points       int       `gorm:"not null" json:"points"`
	Price        int64     `gorm:"not null" json:"price"`
	ValidityDays int       `gorm:"not null;default:30" json:"validity_days"`
	Description  string    `json:"description,omitempty"`
	IsPopular    bool      `json:"is_popular"`
	IsActive     bool      `gorm:"not null" json:"is_active"`

	Timestamp
}

// PointPurchase is one attempt to turn money into points through the gateway.
type PointPurchase struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MerchantOrderID string     `gorm:"size:50;uniqueIndex;not null" json:"merchant_order_id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	PackageID       *uuid.UUID `gorm:"type:uuid" json:"package_id,omitempty"`
	Points          int        `gorm:"not null" json:"points"`
	Amount          int64      `gorm:"not null" json:"amount"`
	PaymentStatus   string     `gorm:"size:10;not null;default:pending;index" json:"payment_status"` // pending, success, failed
	PaymentMethod   string     `gorm:"size:10;not null" json:"payment_method"`
	Reference       string     `gorm:"size:100" json:"reference,omitempty"`
	PaymentURL      string     `json:"payment_url,omitempty"`
	PhoneNumber     string     `gorm:"size:20" json:"phone_number,omitempty"`
	ResultCode      string     `gorm:"size:5" json:"result_code,omitempty"`
	SettledAt       *time.Time `json:"settled_at,omitempty"`

	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Package *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	Timestamp
}

func (p *PointPurchase) IsTerminal() bool {
	return p.PaymentStatus == PaymentStatusSuccess || p.PaymentStatus == PaymentStatusFailed
}

// PackageHistory is the entitlement granted by one settled purchase. PackageID
// is empty for custom purchases.
type PackageHistory struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PackageID       string    `gorm:"size:36;not null;default:''" json:"package_id"`
	PointPurchaseID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"point_purchase_id"`
	PointsReceived  int       `gorm:"not null" json:"points_received"`
	ValidUntil      time.Time `gorm:"index" json:"valid_until"`
	IsActive        bool      `gorm:"not null" json:"is_active"`

	Timestamp
}

func (p *Package) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (p *PointPurchase) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (h *PackageHistory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
