package model

import (
	"time"
)

// PerformerStat 表演者维度的统计计数，由事件监听器异步维护
type PerformerStat struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	PerformerID     int64     `gorm:"not null;uniqueIndex" json:"performer_id"`
	SubscriberCount int       `gorm:"default:0" json:"subscriber_count"`
	TotalGross      float64   `gorm:"type:decimal(14,2);default:0" json:"total_gross"`
	TotalNet        float64   `gorm:"type:decimal(14,2);default:0" json:"total_net"`
	SaleCount       int       `gorm:"default:0" json:"sale_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (PerformerStat) TableName() string {
	return "performer_stats"
}
