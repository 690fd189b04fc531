package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyUZS Currency = "UZS"
)

// StockEntry: tedarikçiden mal alış girişi (fatura başlığı)
type StockEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SupplierID uint      `gorm:"index;not null" json:"supplier_id"`
	Supplier   Supplier  `json:"-"`
	Date       time.Time `gorm:"index;not null" json:"date"`

	Currency Currency `gorm:"size:3;not null;default:USD" json:"currency"`
	// UZS girişlerde zorunlu USD kuru; USD girişlerde kullanılmaz
	Rate decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"rate"`

	Note string `gorm:"size:255" json:"note"`

	Items []StockEntryItem `gorm:"foreignKey:EntryID" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StockEntryItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	EntryID   uint    `gorm:"index;not null" json:"entry_id"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `json:"-"`

	Qty int `gorm:"not null" json:"qty"`
	// Giriş para birimindeki birim fiyat
	Price    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	IsDefect bool            `gorm:"not null;default:false" json:"is_defect"`

	CreatedAt time.Time `json:"created_at"`
}
