package model

import (
	"time"
)

// 订阅类型
const (
	SubscriptionFree    = "free"
	SubscriptionMonthly = "monthly"
	SubscriptionYearly  = "yearly"
)

// 订阅状态（存储提示，有效性判断还需 now < expired_at）
const (
	SubscriptionActive      = "active"
	SubscriptionDeactivated = "deactivated"
)

// Subscription 每个 (user, performer) 对只有一行，续费刷新而不是新建
type Subscription struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	UserID             int64     `gorm:"not null;uniqueIndex:idx_user_performer" json:"user_id"`
	PerformerID        int64     `gorm:"not null;uniqueIndex:idx_user_performer" json:"performer_id"`
	SubscriptionType   string    `gorm:"size:16;not null" json:"subscription_type"`
	Status             string    `gorm:"size:16;default:active;index" json:"status"`
	StartRecurringDate time.Time `json:"start_recurring_date"`
	NextRecurringDate  time.Time `json:"next_recurring_date"`
	ExpiredAt          time.Time `gorm:"index" json:"expired_at"`
	TransactionID      int64     `json:"transaction_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsEffective 有效订阅 = active 且未过期，所有读取方都必须用同一条规则
func (s *Subscription) IsEffective(now time.Time) bool {
	return s.Status == SubscriptionActive && now.Before(s.ExpiredAt)
}
