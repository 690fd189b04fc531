package stock

import (
	"fmt"
	"os"
	"testing"
	"time"

	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Gerçek Postgres gerektirir:
//
//	INTEGRATION_TESTS=1 TEST_DATABASE_DSN="host=localhost ..." go test ./internal/stock/
func setupIntegrationDB(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("INTEGRATION_TESTS=1 değil, atlanıyor")
	}
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN tanımlı değil, atlanıyor")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("veritabanına bağlanılamadı: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.StockLog{}); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}
	database.DB = db
}

func createTestProduct(t *testing.T, name string) *models.Product {
	t.Helper()
	p := models.Product{Name: fmt.Sprintf("%s-%d", name, time.Now().UnixNano())}
	if err := database.DB.Create(&p).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}
	t.Cleanup(func() {
		database.DB.Where("product_id = ?", p.ID).Delete(&models.StockLog{})
		database.DB.Delete(&models.Product{}, p.ID)
	})
	return &p
}

func TestApplyLedgerAndCountersStayInSync(t *testing.T) {
	setupIntegrationDB(t)
	p := createTestProduct(t, "apply-sync")

	if err := Record(p.ID, 10, 0, models.ReasonPurchase, "t1"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := Record(p.ID, -3, 0, models.ReasonOrderPack, "t2"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := Record(p.ID, -2, 2, models.ReasonDefectIn, "t3"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	var got models.Product
	if err := database.DB.First(&got, p.ID).Error; err != nil {
		t.Fatalf("ürün okunamadı: %v", err)
	}
	if got.StockOk != 5 || got.StockDefect != 2 {
		t.Errorf("sayaçlar (ok=%d, defect=%d), beklenen (5, 2)", got.StockOk, got.StockDefect)
	}

	// Defter toplamı sayaçlarla örtüşmeli
	type sums struct {
		Ok     int
		Defect int
	}
	var s sums
	database.DB.Model(&models.StockLog{}).
		Select("COALESCE(SUM(delta_ok),0) AS ok, COALESCE(SUM(delta_defect),0) AS defect").
		Where("product_id = ?", p.ID).
		Scan(&s)
	if s.Ok != got.StockOk || s.Defect != got.StockDefect {
		t.Errorf("defter (%d, %d) sayaçlardan (%d, %d) farklı", s.Ok, s.Defect, got.StockOk, got.StockDefect)
	}
}

func TestApplyUnknownProductRollsBackLedger(t *testing.T) {
	setupIntegrationDB(t)

	const missingID = uint(999999999)
	err := Record(missingID, 5, 0, models.ReasonPurchase, "ghost")
	if err != ErrProductNotFound {
		t.Fatalf("Record = %v, beklenen ErrProductNotFound", err)
	}

	var count int64
	database.DB.Model(&models.StockLog{}).Where("product_id = ?", missingID).Count(&count)
	if count != 0 {
		t.Errorf("başarısız hareket defterde %d satır bıraktı, beklenen 0", count)
	}
}

func TestApplyPurchaseWeightedAverage(t *testing.T) {
	setupIntegrationDB(t)
	p := createTestProduct(t, "avg-cost")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return ApplyPurchase(tx, p.ID, 10, decimal.NewFromInt(5), false, "e1")
	})
	if err != nil {
		t.Fatalf("ApplyPurchase: %v", err)
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return ApplyPurchase(tx, p.ID, 5, decimal.NewFromInt(20), false, "e2")
	})
	if err != nil {
		t.Fatalf("ApplyPurchase: %v", err)
	}

	var got models.Product
	database.DB.First(&got, p.ID)
	if got.StockOk != 15 {
		t.Errorf("stock_ok = %d, beklenen 15", got.StockOk)
	}
	// (5*10 + 20*5) / 15 = 10
	if !got.AvgCostUsd.Equal(decimal.NewFromInt(10)) {
		t.Errorf("avg_cost_usd = %s, beklenen 10", got.AvgCostUsd)
	}

	// Defolu alış sayaçta görünür ama ortalamayı değiştirmez
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return ApplyPurchase(tx, p.ID, 4, decimal.NewFromInt(100), true, "e3")
	})
	if err != nil {
		t.Fatalf("ApplyPurchase (defect): %v", err)
	}
	database.DB.First(&got, p.ID)
	if got.StockDefect != 4 {
		t.Errorf("stock_defect = %d, beklenen 4", got.StockDefect)
	}
	if !got.AvgCostUsd.Equal(decimal.NewFromInt(10)) {
		t.Errorf("defolu alış ortalamayı değiştirdi: %s", got.AvgCostUsd)
	}
}

func TestApplyImportCostedRowUpdatesAverage(t *testing.T) {
	setupIntegrationDB(t)
	p := createTestProduct(t, "import-cost")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return ApplyPurchase(tx, p.ID, 10, decimal.NewFromInt(5), false, "e1")
	})
	if err != nil {
		t.Fatalf("ApplyPurchase: %v", err)
	}

	// Maliyetli aktarım satırı alışla aynı formülü kullanır: (5*10 + 20*5) / 15 = 10
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return ApplyImport(tx, p.ID, 5, 2, decimal.NewFromInt(20), "acilis.xlsx")
	})
	if err != nil {
		t.Fatalf("ApplyImport: %v", err)
	}

	var got models.Product
	database.DB.First(&got, p.ID)
	if got.StockOk != 15 || got.StockDefect != 2 {
		t.Errorf("sayaçlar (ok=%d, defect=%d), beklenen (15, 2)", got.StockOk, got.StockDefect)
	}
	if !got.AvgCostUsd.Equal(decimal.NewFromInt(10)) {
		t.Errorf("avg_cost_usd = %s, beklenen 10", got.AvgCostUsd)
	}

	// Maliyetsiz satır ortalamaya dokunmaz
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return ApplyImport(tx, p.ID, 3, 0, decimal.Zero, "acilis.xlsx")
	})
	if err != nil {
		t.Fatalf("ApplyImport (maliyetsiz): %v", err)
	}
	database.DB.First(&got, p.ID)
	if got.StockOk != 18 {
		t.Errorf("stock_ok = %d, beklenen 18", got.StockOk)
	}
	if !got.AvgCostUsd.Equal(decimal.NewFromInt(10)) {
		t.Errorf("maliyetsiz aktarım ortalamayı değiştirdi: %s", got.AvgCostUsd)
	}

	var reasons []string
	database.DB.Model(&models.StockLog{}).
		Where("product_id = ? AND reason = ?", p.ID, models.ReasonImport).
		Pluck("reason", &reasons)
	if len(reasons) != 2 {
		t.Errorf("import hareketi sayısı = %d, beklenen 2", len(reasons))
	}
}
