package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Affiliate status lifecycle tags.
const (
	AffiliateStatusActive   = "active"
	AffiliateStatusInactive = "inactive"
)

// Affiliate is the local mirror row for one referral discount code. The code
// itself lives on the Shopify price rule; CommissionPercent is mirror-only
// business data and is never transmitted to the remote platform.
type Affiliate struct {
	ID                uint64          `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"type:varchar(100);not null" json:"name" validate:"required,min=2,max=100"`
	Email             string          `gorm:"type:varchar(150);default:''" json:"email" validate:"omitempty,email"`
	Code              string          `gorm:"uniqueIndex;type:varchar(50);not null" json:"code" validate:"required,min=2,max=50"`
	DiscountPercent   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	CommissionPercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_percent"`
	Status            string          `gorm:"type:varchar(20);default:'active'" json:"status"`
	RemoteRuleID      *int64          `gorm:"index" json:"remote_rule_id,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Affiliate model
func (Affiliate) TableName() string {
	return "affiliates"
}

// IsProvisioned reports whether the row is linked to a remote price rule.
// A nil RemoteRuleID marks the pending/failed-provisioning window.
func (a *Affiliate) IsProvisioned() bool {
	return a.RemoteRuleID != nil
}
