package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
)

// Payment: bayiden alınan ödeme. UZS ödemelerde fx_rate zorunludur ve
// amount_usd = amount / fx_rate olarak kaydedilir.
type Payment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	DealerID uint      `gorm:"index;not null" json:"dealer_id"`
	Dealer   Dealer    `json:"-"`
	Date     time.Time `gorm:"index;not null" json:"date"`

	Amount   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency Currency        `gorm:"size:3;not null;default:USD" json:"currency"`
	FxRate   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"fx_rate"`
	// USD karşılığı (kur uygulanmış)
	AmountUsd decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount_usd"`

	Method PaymentMethod `gorm:"size:20;not null;default:cash" json:"method"`
	Note   string        `gorm:"size:255" json:"note"`

	Applications []PaymentApplication `gorm:"foreignKey:PaymentID" json:"applications"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaymentApplication: bir ödemenin siparişlere dağıtımı
type PaymentApplication struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	PaymentID uint  `gorm:"index;not null" json:"payment_id"`
	OrderID   uint  `gorm:"index;not null" json:"order_id"`
	Order     Order `json:"-"`

	AmountUsd decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount_usd"`

	CreatedAt time.Time `json:"created_at"`
}
