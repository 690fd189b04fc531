package stock

import (
	"errors"
	"fmt"
	"time"

	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// UZS girişte kur yok/sıfır — kayıt maliyetlendirilemez
	ErrRateRequired = errors.New("UZS giriş için kur (rate) zorunlu")
	// Referans verilen ürün yok
	ErrProductNotFound = errors.New("ürün bulunamadı")
)

// Apply: verilen transaction içinde tek bir stok hareketini işler.
// Önce değişmez stock_log satırı yazılır, sonra ürün sayaçları atomik
// "stock_ok = stock_ok + ?" ifadesiyle güncellenir. İkisi aynı transaction'da
// olduğu için defter ile sayaçlar birbirinden kopamaz.
func Apply(tx *gorm.DB, productID uint, deltaOk, deltaDefect int, reason models.StockReason, refID string) error {
	if productID == 0 || (deltaOk == 0 && deltaDefect == 0) {
		return nil
	}

	entry := models.StockLog{
		Ts:          time.Now().UTC(),
		ProductID:   productID,
		DeltaOk:     deltaOk,
		DeltaDefect: deltaDefect,
		Reason:      reason,
		RefID:       refID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("stok hareketi yazılamadı: %w", err)
	}

	res := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]interface{}{
			"stock_ok":     gorm.Expr("stock_ok + ?", deltaOk),
			"stock_defect": gorm.Expr("stock_defect + ?", deltaDefect),
		})
	if res.Error != nil {
		return fmt.Errorf("stok sayaçları güncellenemedi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Record: Apply'ı kendi transaction'ı içinde çalıştırır
func Record(productID uint, deltaOk, deltaDefect int, reason models.StockReason, refID string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return Apply(tx, productID, deltaOk, deltaDefect, reason, refID)
	})
}

// UnitCostUsd: giriş kalemi birim fiyatını USD'ye çevirir.
// USD girişte fiyat aynen kullanılır; UZS girişte kur zorunludur.
func UnitCostUsd(currency models.Currency, price, rate decimal.Decimal) (decimal.Decimal, error) {
	switch currency {
	case models.CurrencyUZS:
		if rate.IsZero() {
			return decimal.Zero, ErrRateRequired
		}
		return price.Div(rate), nil
	default:
		return price, nil
	}
}

// NewAvgCost: ağırlıklı ortalama maliyet.
// newAvg = (A*Q + c*q) / (Q+q); Q+q <= 0 ise A korunur.
// Q alıştan ÖNCEKİ sağlam stok, q alınan adet, c USD birim maliyet.
func NewAvgCost(avg decimal.Decimal, prevQty, qty int, unitCostUsd decimal.Decimal) decimal.Decimal {
	total := prevQty + qty
	if total <= 0 {
		return avg
	}
	prev := decimal.NewFromInt(int64(prevQty))
	incoming := decimal.NewFromInt(int64(qty))
	return avg.Mul(prev).Add(unitCostUsd.Mul(incoming)).Div(decimal.NewFromInt(int64(total)))
}

// ApplyImport: toplu aktarım satırının stok ve maliyet etkisini işler.
// Maliyetli satır ortalamayı alış gibi günceller; ApplyPurchase ile aynı
// sebepten ürün satırı FOR UPDATE ile kilitlenip delta'dan önceki stok okunur.
// Maliyetsiz satır sadece sayaçları oynatır.
func ApplyImport(tx *gorm.DB, productID uint, qtyOk, qtyDefect int, unitCostUsd decimal.Decimal, refID string) error {
	if qtyOk > 0 && !unitCostUsd.IsZero() {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		newAvg := NewAvgCost(product.AvgCostUsd, product.StockOk, qtyOk, unitCostUsd)
		if err := tx.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("avg_cost_usd", newAvg).Error; err != nil {
			return fmt.Errorf("ortalama maliyet güncellenemedi: %w", err)
		}
	}

	return Apply(tx, productID, qtyOk, qtyDefect, models.ReasonImport, refID)
}

// ApplyPurchase: alış kaleminin stok ve maliyet etkisini tek transaction içinde işler.
// Ortalama maliyet, delta uygulanmadan ÖNCEKİ stok üzerinden hesaplanmalı;
// bu yüzden ürün satırı FOR UPDATE ile kilitlenip önce okunur.
// Defolu kalemler ortalama maliyeti etkilemez.
func ApplyPurchase(tx *gorm.DB, productID uint, qty int, unitCostUsd decimal.Decimal, isDefect bool, refID string) error {
	if qty <= 0 {
		return nil
	}

	if isDefect {
		return Apply(tx, productID, 0, qty, models.ReasonPurchase, refID)
	}

	var product models.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	newAvg := NewAvgCost(product.AvgCostUsd, product.StockOk, qty, unitCostUsd)

	if err := Apply(tx, productID, qty, 0, models.ReasonPurchase, refID); err != nil {
		return err
	}

	if err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("avg_cost_usd", newAvg).Error; err != nil {
		return fmt.Errorf("ortalama maliyet güncellenemedi: %w", err)
	}

	return nil
}
