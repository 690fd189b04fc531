package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FxRate: günlük USD/UZS kuru
type FxRate struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Date     time.Time       `gorm:"index;not null" json:"date"`
	UsdToUzs decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"usd_to_uzs"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
