package model

import (
	"github.com/lib/pq"
)

// ==================== 状态常量 ====================

const (
	ListingStatusActive   = "active"
	ListingStatusInactive = "inactive"
	ListingStatusSold     = "sold"
)

// ==================== 数据库模型 ====================

// Listing 已发布的商品
type Listing struct {
	BaseModel
	UserID      int64  `gorm:"index;not null;comment:卖家ID"`
	Title       string `gorm:"size:100;not null;comment:标题"`
	Category    string `gorm:"size:64;index;comment:类目"`
	Subcategory string `gorm:"size:64;comment:子类目"`
	Condition   string `gorm:"size:20;comment:成色"`
	// 价格以最小货币单位存整数，展示时除以 100
	PriceAmount  int64          `gorm:"default:0;comment:价格(分)"`
	CurrencyCode string         `gorm:"size:3;default:KES;comment:货币代码"`
	Description  string         `gorm:"type:text;comment:描述"`
	Location     string         `gorm:"size:255;comment:位置"`
	Brand        string         `gorm:"size:64;comment:品牌"`
	Tags         pq.StringArray `gorm:"type:text[];comment:标签"`
	CoverURL     string         `gorm:"size:2048;comment:封面图URL"`
	Status       string         `gorm:"size:20;index;default:active;comment:状态"`

	// 关联
	Images []ListingImage `gorm:"foreignKey:ListingID"`
}

func (*Listing) TableName() string {
	return "listings"
}

// ListingImage 商品图片，Position 0 为主图
type ListingImage struct {
	BaseModel
	ListingID int64  `gorm:"index;not null;comment:商品ID"`
	URL       string `gorm:"size:2048;not null;comment:图片URL"`
	Position  int    `gorm:"index;comment:排序位置"`
}

func (*ListingImage) TableName() string {
	return "listing_images"
}

// ==================== 辅助方法 ====================

// GetPrice 获取价格（浮点数）
func (l *Listing) GetPrice() float64 {
	return float64(l.PriceAmount) / 100
}

// SetPrice 设置价格（浮点数）
func (l *Listing) SetPrice(price float64) {
	l.PriceAmount = int64(price * 100)
}
