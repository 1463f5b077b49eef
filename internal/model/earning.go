package model

import (
	"time"
)

// Earning 每笔成功交易产生一条分成记录，比例在成交时快照，之后不再重算
type Earning struct {
	ID                   int64      `gorm:"primaryKey" json:"id"`
	TransactionID        int64      `gorm:"not null;uniqueIndex" json:"transaction_id"`
	PerformerID          int64      `gorm:"not null;index" json:"performer_id"`
	UserID               int64      `gorm:"not null;index" json:"user_id"`
	Type                 string     `gorm:"size:32;not null" json:"type"`
	GrossPrice           float64    `gorm:"type:decimal(12,2);not null" json:"gross_price"`
	SiteCommissionRate   float64    `gorm:"type:decimal(4,2);not null" json:"site_commission_rate"`
	SiteCommissionAmount float64    `gorm:"type:decimal(12,2);not null" json:"site_commission_amount"`
	NetPrice             float64    `gorm:"type:decimal(12,2);not null" json:"net_price"`
	IsPaid               bool       `gorm:"default:false;index" json:"is_paid"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
	CreatedAt            time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (Earning) TableName() string {
	return "earnings"
}
