package model

import (
	"time"
)

type Coupon struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	PerformerID int64     `gorm:"not null;index" json:"performer_id"`
	Discount    float64   `gorm:"type:decimal(4,2);not null" json:"discount"` // 0-0.99
	ExpiredDate time.Time `json:"expired_date"`
	MaxUses     int       `gorm:"default:0" json:"max_uses"` // 0 表示不限次数
	UsedCount   int       `gorm:"default:0" json:"used_count"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// Usable 未停用、未过期、未用尽
func (c *Coupon) Usable(now time.Time) bool {
	if !c.Active || now.After(c.ExpiredDate) {
		return false
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return false
	}
	return true
}
