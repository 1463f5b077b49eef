package model

import (
	"time"
)

// 内容类型
const (
	ContentVideo   = "video"
	ContentGallery = "gallery"
	ContentProduct = "product"
	ContentFeed    = "feed"
	ContentStream  = "stream"
)

// 商品形态
const (
	ProductPhysical = "physical"
	ProductDigital  = "digital"
)

// Content 目录元数据，购买校验和权限判定都从这里取 is_sale/price/stock
type Content struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	PerformerID       int64     `gorm:"not null;index" json:"performer_id"`
	Type              string    `gorm:"size:16;not null;index" json:"type"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Price             float64   `gorm:"type:decimal(12,2);default:0" json:"price"`
	IsSale            bool      `gorm:"default:false" json:"is_sale"`
	SubscriptionGated bool      `gorm:"default:false" json:"subscription_gated"`
	ProductType       string    `gorm:"size:16" json:"product_type,omitempty"`
	Stock             int       `gorm:"default:0" json:"stock"`
	DownloadURL       string    `gorm:"size:500" json:"download_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Content) TableName() string {
	return "contents"
}
