package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionEvent records one attributed order-created webhook delivery.
// Unmatched deliveries are stored too so the panel can show raw volume.
type CommissionEvent struct {
	ID                uint64          `gorm:"primaryKey" json:"id"`
	UUID              string          `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	OrderNumber       string          `gorm:"type:varchar(50);default:''" json:"order_number"`
	Code              string          `gorm:"type:varchar(50);index;default:''" json:"code"`
	AffiliateID       *uint64         `gorm:"index" json:"affiliate_id,omitempty"`
	OrderTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"order_total"`
	CommissionPercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_percent"`
	CommissionAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"commission_amount"`
	Matched           bool            `gorm:"default:false" json:"matched"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the CommissionEvent model
func (CommissionEvent) TableName() string {
	return "commission_events"
}
