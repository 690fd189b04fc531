package stock

import (
	"errors"
	"testing"

	"maxdoors-backend/internal/models"

	"github.com/shopspring/decimal"
)

func TestNewAvgCost(t *testing.T) {
	// avg=10, eldeki 5 adet; 5 adet 20'den alınırsa yeni ortalama 15 olmalı
	got := NewAvgCost(decimal.NewFromInt(10), 5, 5, decimal.NewFromInt(20))
	if !got.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("NewAvgCost = %s, beklenen 15", got)
	}
}

func TestNewAvgCostFirstPurchase(t *testing.T) {
	// Stok sıfırken ilk alış ortalamayı doğrudan birim maliyete çeker
	got := NewAvgCost(decimal.Zero, 0, 4, decimal.RequireFromString("12.5"))
	if !got.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("NewAvgCost = %s, beklenen 12.5", got)
	}
}

func TestNewAvgCostZeroTotalKeepsOld(t *testing.T) {
	// Q+q <= 0 ise eski ortalama korunur
	got := NewAvgCost(decimal.NewFromInt(10), -3, 3, decimal.NewFromInt(99))
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("NewAvgCost = %s, beklenen 10 (değişmemeli)", got)
	}
}

func TestUnitCostUsdUSD(t *testing.T) {
	got, err := UnitCostUsd(models.CurrencyUSD, decimal.NewFromInt(25), decimal.Zero)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("UnitCostUsd = %s, beklenen 25", got)
	}
}

func TestUnitCostUsdUZS(t *testing.T) {
	// 120000 UZS / 12000 kur = 10 USD
	got, err := UnitCostUsd(models.CurrencyUZS, decimal.NewFromInt(120000), decimal.NewFromInt(12000))
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("UnitCostUsd = %s, beklenen 10", got)
	}
}

func TestUnitCostUsdUZSWithoutRate(t *testing.T) {
	_, err := UnitCostUsd(models.CurrencyUZS, decimal.NewFromInt(120000), decimal.Zero)
	if !errors.Is(err, ErrRateRequired) {
		t.Fatalf("hata = %v, beklenen ErrRateRequired", err)
	}
}
