package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product: kapı modeli. Stok sayaçları (stock_ok/stock_defect) SADECE stok
// servisi üzerinden değişir; handler'lar doğrudan yazmaz.
type Product struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:150;not null;unique" json:"name"`
	Barcode string `gorm:"size:50;index" json:"barcode"`

	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `json:"-"`
	SupplierID *uint     `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier `json:"-"`

	// Sağlam ve defolu adet
	StockOk     int `gorm:"not null;default:0" json:"stock_ok"`
	StockDefect int `gorm:"not null;default:0" json:"stock_defect"`

	// Ağırlıklı ortalama alış maliyeti (USD). Sadece sağlam alış girişleri günceller.
	AvgCostUsd decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"avg_cost_usd"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
