package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated       OrderStatus = "created"
	OrderStatusEditRequested OrderStatus = "edit_requested"
	OrderStatusPacked        OrderStatus = "packed"
	OrderStatusShipped       OrderStatus = "shipped"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountPercent DiscountType = "percent"
)

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DealerID   uint      `gorm:"index;not null" json:"dealer_id"`
	Dealer     Dealer    `json:"-"`
	ManagerID  uint      `gorm:"index;not null" json:"manager_id"`
	Manager    User      `json:"-"`
	RegionID   *uint     `gorm:"index" json:"region_id"`
	Region     *Region   `json:"-"`
	SupplierID *uint     `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier `json:"-"`

	DiscountType  DiscountType    `gorm:"size:10;not null;default:none" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"discount_value"`

	Status OrderStatus `gorm:"size:20;not null;index" json:"status"`

	// Kendi günü içinde sıra numarası; oluşturulurken bir kez atanır
	DailySeq int `gorm:"not null" json:"daily_seq"`
	// Görünen numara, format NNN-dd.MM.yyyy (örn. 007-05.03.2025)
	HumanID string `gorm:"size:20;not null;index" json:"human_id"`

	// Kalem düzenleme kapısı; onaylanmış düzenleme talebiyle açılır
	Editable bool `gorm:"not null;default:false" json:"editable"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `json:"-"`

	Qty int `gorm:"not null" json:"qty"`

	// Paketleme anında üründen kopyalanan birim maliyet (USD)
	CogsUsdSnapshot decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"cogs_usd_snapshot"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
