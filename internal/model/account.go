package model

import (
	"time"
)

type Account struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	UserID       int64   `gorm:"not null;uniqueIndex" json:"user_id"`
	Email        string  `gorm:"size:100" json:"email,omitempty"`
	TokenBalance float64 `gorm:"type:decimal(12,2);not null;default:0" json:"token_balance"`
	// 累计有效订阅数（用于个人统计，仅在 0→1 激活时递增）
	SubscriptionCount int       `gorm:"default:0" json:"subscription_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
