package model

import (
	"time"
)

// 购买类型
const (
	TypeMonthlySubscription = "monthly_subscription"
	TypeYearlySubscription  = "yearly_subscription"
	TypeFreeSubscription    = "free_subscription"
	TypeVideo               = "video"
	TypeGallery             = "gallery"
	TypeProduct             = "product"
	TypeFeed                = "feed"
	TypeTip                 = "tip"
	TypeStream              = "stream"
	TypeStreamTip           = "stream_tip"
)

// 交易状态
const (
	StatusPending  = "pending"
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"
)

type Transaction struct {
	ID             int64                `gorm:"primaryKey" json:"id"`
	OrderNumber    string               `gorm:"size:64;uniqueIndex;not null" json:"order_number"`
	BuyerID        int64                `gorm:"not null;index" json:"buyer_id"`
	PerformerID    int64                `gorm:"not null;index" json:"performer_id"`
	Type           string               `gorm:"size:32;not null;index" json:"type"`
	TargetID       int64                `gorm:"not null;index" json:"target_id"`
	Products       []TransactionProduct `gorm:"foreignKey:TransactionID" json:"products"`
	OriginalPrice  float64              `gorm:"type:decimal(12,2);not null" json:"original_price"`
	CouponCode     string               `gorm:"size:32" json:"coupon_code,omitempty"`
	CouponDiscount float64              `gorm:"type:decimal(4,2);default:0" json:"coupon_discount"`
	TotalPrice     float64              `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status         string               `gorm:"size:16;default:pending;index" json:"status"`
	CreatedAt      time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// IsSubscription 是否为订阅类交易
func (t *Transaction) IsSubscription() bool {
	switch t.Type {
	case TypeMonthlySubscription, TypeYearlySubscription, TypeFreeSubscription:
		return true
	}
	return false
}

// IsTip 打赏类交易不做重复购买去重
func (t *Transaction) IsTip() bool {
	return t.Type == TypeTip || t.Type == TypeStreamTip
}

type TransactionProduct struct {
	ID            int64   `gorm:"primaryKey" json:"id"`
	TransactionID int64   `gorm:"not null;index" json:"transaction_id"`
	Name          string  `gorm:"size:255;not null" json:"name"`
	UnitPrice     float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity      int     `gorm:"not null;default:1" json:"quantity"`
	ProductType   string  `gorm:"size:32" json:"product_type"` // physical, digital
}

func (TransactionProduct) TableName() string {
	return "transaction_products"
}
