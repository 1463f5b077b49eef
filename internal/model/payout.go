package model

import (
	"time"
)

// 提现状态
const (
	PayoutPending  = "pending"
	PayoutApproved = "approved"
	PayoutRejected = "rejected"
	PayoutDone     = "done"
)

type PayoutRequest struct {
	ID                  int64     `gorm:"primaryKey" json:"id"`
	RequestCode         string    `gorm:"size:64;uniqueIndex;not null" json:"request_code"`
	PerformerID         int64     `gorm:"not null;index" json:"performer_id"`
	RequestTokens       float64   `gorm:"type:decimal(12,2);not null" json:"request_tokens"`
	TokenConversionRate float64   `gorm:"type:decimal(8,4);not null" json:"token_conversion_rate"`
	Note                string    `gorm:"size:500" json:"note,omitempty"`
	Status              string    `gorm:"size:16;default:pending;index" json:"status"`
	CreatedAt           time.Time `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (PayoutRequest) TableName() string {
	return "payout_requests"
}
