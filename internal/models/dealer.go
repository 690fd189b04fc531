package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dealer: kapı satın alan bayi
type Dealer struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:150;not null" json:"name"`
	Phone    string  `gorm:"size:30" json:"phone"`
	RegionID *uint   `gorm:"index" json:"region_id"`
	Region   *Region `json:"-"`

	// Cari bakiye (USD). Pozitif = bayinin alacağı, negatif = borcu.
	BalanceUsd decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"balance_usd"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DealerBalanceAdjustment: bakiyeye elle müdahale kaydı (sayım farkı, af vb.)
type DealerBalanceAdjustment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DealerID uint   `gorm:"index;not null" json:"dealer_id"`
	Dealer   Dealer `json:"-"`

	AmountUsd decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount_usd"`
	Note      string          `gorm:"size:255;not null" json:"note"`

	CreatedBy uint      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
