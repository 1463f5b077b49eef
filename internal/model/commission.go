package model

import (
	"time"
)

// CommissionSetting 表演者级抽成覆盖，空指针表示使用平台默认
type CommissionSetting struct {
	ID                      int64     `gorm:"primaryKey" json:"id"`
	PerformerID             int64     `gorm:"not null;uniqueIndex" json:"performer_id"`
	MonthlySubscriptionRate *float64  `gorm:"type:decimal(4,2)" json:"monthly_subscription_rate,omitempty"`
	YearlySubscriptionRate  *float64  `gorm:"type:decimal(4,2)" json:"yearly_subscription_rate,omitempty"`
	VideoRate               *float64  `gorm:"type:decimal(4,2)" json:"video_rate,omitempty"`
	GalleryRate             *float64  `gorm:"type:decimal(4,2)" json:"gallery_rate,omitempty"`
	ProductRate             *float64  `gorm:"type:decimal(4,2)" json:"product_rate,omitempty"`
	FeedRate                *float64  `gorm:"type:decimal(4,2)" json:"feed_rate,omitempty"`
	TipRate                 *float64  `gorm:"type:decimal(4,2)" json:"tip_rate,omitempty"`
	StreamRate              *float64  `gorm:"type:decimal(4,2)" json:"stream_rate,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (CommissionSetting) TableName() string {
	return "commission_settings"
}

// Performer 表演者档案中引擎需要读取的部分
type Performer struct {
	ID                           int64     `gorm:"primaryKey" json:"id"`
	Username                     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email                        string    `gorm:"size:100" json:"email"`
	MonthlySubscriptionPrice     float64   `gorm:"type:decimal(12,2);default:0" json:"monthly_subscription_price"`
	YearlySubscriptionPrice      float64   `gorm:"type:decimal(12,2);default:0" json:"yearly_subscription_price"`
	DurationFreeSubscriptionDays int       `gorm:"default:0" json:"duration_free_subscription_days"`
	CreatedAt                    time.Time `json:"created_at"`
	UpdatedAt                    time.Time `json:"updated_at"`
}

func (Performer) TableName() string {
	return "performers"
}
