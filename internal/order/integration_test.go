package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"
	"maxdoors-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Gerçek Postgres gerektirir:
//
//	INTEGRATION_TESTS=1 TEST_DATABASE_DSN="host=localhost ..." go test ./internal/order/
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
	err = db.AutoMigrate(
		&models.Region{},
		&models.Category{},
		&models.Supplier{},
		&models.User{},
		&models.Dealer{},
		&models.Product{},
		&models.StockLog{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderSequence{},
	)
	if err != nil {
		t.Fatalf("migration hatası: %v", err)
	}
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_order_seq_day_group ON order_sequences (day, group_key)",
	).Error; err != nil {
		t.Fatalf("index oluşturulamadı: %v", err)
	}
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_day_seq ON orders (((created_at AT TIME ZONE 'UTC')::date), daily_seq)",
	).Error; err != nil {
		t.Fatalf("index oluşturulamadı: %v", err)
	}
	database.DB = db
}

func cleanupSequences(t *testing.T, days ...string) {
	t.Helper()
	t.Cleanup(func() {
		database.DB.Where("day IN ?", days).Delete(&models.OrderSequence{})
	})
}

func createTestDealer(t *testing.T) *models.Dealer {
	t.Helper()
	d := models.Dealer{Name: fmt.Sprintf("bayi-%d", time.Now().UnixNano())}
	if err := database.DB.Create(&d).Error; err != nil {
		t.Fatalf("bayi oluşturulamadı: %v", err)
	}
	t.Cleanup(func() { database.DB.Delete(&models.Dealer{}, d.ID) })
	return &d
}

func createTestManager(t *testing.T) *models.User {
	t.Helper()
	u := models.User{
		Name:         "test yönetici",
		Email:        fmt.Sprintf("manager-%d@test.local", time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         models.RoleManager,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("kullanıcı oluşturulamadı: %v", err)
	}
	t.Cleanup(func() { database.DB.Delete(&models.User{}, u.ID) })
	return &u
}

// Alışla stoklanmış ürün: sayaç ve ortalama maliyet dolu gelir
func createStockedProduct(t *testing.T, qty int, unitCost int64) *models.Product {
	t.Helper()
	p := models.Product{Name: fmt.Sprintf("kapı-%d", time.Now().UnixNano())}
	if err := database.DB.Create(&p).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return stock.ApplyPurchase(tx, p.ID, qty, decimal.NewFromInt(unitCost), false, "seed")
	})
	if err != nil {
		t.Fatalf("açılış stoğu yazılamadı: %v", err)
	}
	t.Cleanup(func() {
		database.DB.Where("product_id = ?", p.ID).Delete(&models.StockLog{})
		database.DB.Delete(&models.Product{}, p.ID)
	})
	return &p
}

// Handler'ları rota tablosundaki yollarla, sahte oturumla ayağa kaldırır
func newTestApp(userID uint, role models.UserRole) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, userID)
		c.Locals(auth.CtxUserRoleKey, role)
		return c.Next()
	})
	app.Post("/api/orders", CreateOrderHandler())
	app.Put("/api/orders/:id/status", UpdateOrderStatusHandler())
	app.Delete("/api/orders/:id", DeleteOrderHandler())
	app.Post("/api/orders/:id/items", CreateOrderItemHandler())
	app.Put("/api/order-items/:id", UpdateOrderItemHandler())
	app.Delete("/api/order-items/:id", DeleteOrderItemHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body any, wantStatus int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("gövde kodlanamadı: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s = %d, beklenen %d (gövde: %s)", method, url, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("cevap çözümlenemedi: %v (gövde: %s)", err, raw)
		}
	}
}

func productStockOk(t *testing.T, productID uint) int {
	t.Helper()
	var p models.Product
	if err := database.DB.First(&p, productID).Error; err != nil {
		t.Fatalf("ürün okunamadı: %v", err)
	}
	return p.StockOk
}

func ledgerSum(t *testing.T, productID uint, reason models.StockReason) int {
	t.Helper()
	var sum int
	database.DB.Model(&models.StockLog{}).
		Select("COALESCE(SUM(delta_ok),0)").
		Where("product_id = ? AND reason = ?", productID, reason).
		Scan(&sum)
	return sum
}

func deleteOrderRows(orderID uint) {
	database.DB.Where("order_id = ?", orderID).Delete(&models.OrderItem{})
	database.DB.Delete(&models.Order{}, orderID)
}

func TestNextDailySeqIncrementsAndResetsPerDay(t *testing.T) {
	setupIntegrationDB(t)

	day1 := time.Date(2091, 3, 5, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2091, 3, 6, 10, 0, 0, 0, time.UTC)
	cleanupSequences(t, DayKeyUTC(day1), DayKeyUTC(day2))

	for want := 1; want <= 3; want++ {
		var seq int
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			seq, err = NextDailySeq(tx, day1, "")
			return err
		})
		if err != nil {
			t.Fatalf("NextDailySeq: %v", err)
		}
		if seq != want {
			t.Errorf("seq = %d, beklenen %d", seq, want)
		}
	}

	// Yeni gün → sayaç baştan başlar
	var seq int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		seq, err = NextDailySeq(tx, day2, "")
		return err
	})
	if err != nil {
		t.Fatalf("NextDailySeq: %v", err)
	}
	if seq != 1 {
		t.Errorf("yeni gün seq = %d, beklenen 1", seq)
	}
}

func TestNextDailySeqConcurrentNoDuplicates(t *testing.T) {
	setupIntegrationDB(t)

	day := time.Date(2091, 7, 1, 12, 0, 0, 0, time.UTC)
	cleanupSequences(t, DayKeyUTC(day))

	const workers = 20
	results := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var seq int
			err := database.DB.Transaction(func(tx *gorm.DB) error {
				var err error
				seq, err = NextDailySeq(tx, day, "")
				return err
			})
			if err != nil {
				t.Errorf("NextDailySeq: %v", err)
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int]bool{}
	for seq := range results {
		if seen[seq] {
			t.Errorf("sıra numarası %d iki kez üretildi", seq)
		}
		seen[seq] = true
	}
	if len(seen) != workers {
		t.Errorf("%d benzersiz numara üretildi, beklenen %d", len(seen), workers)
	}
}

func TestNextDailySeqSeparateGroups(t *testing.T) {
	setupIntegrationDB(t)

	day := time.Date(2091, 9, 9, 9, 0, 0, 0, time.UTC)
	cleanupSequences(t, DayKeyUTC(day))

	var seqA, seqB int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if seqA, err = NextDailySeq(tx, day, "a"); err != nil {
			return err
		}
		seqB, err = NextDailySeq(tx, day, "b")
		return err
	})
	if err != nil {
		t.Fatalf("NextDailySeq: %v", err)
	}
	if seqA != 1 || seqB != 1 {
		t.Errorf("gruplar ayrı saymalı: a=%d b=%d, beklenen 1/1", seqA, seqB)
	}
}

// İki ayrı UTC günü, UTC dışı oturum saat diliminde aynı yerel güne düşer.
// Numaralar UTC gününe göre sayıldığı için backstop index de UTC gününe
// bakmalı; yoksa ikinci sipariş sahte unique ihlaliyle reddedilir.
func TestDaySeqIndexUsesUTCDayNotSessionDay(t *testing.T) {
	setupIntegrationDB(t)

	dealer := createTestDealer(t)
	manager := createTestManager(t)

	// UTC+5'te ikisi de 6 Mart: 5 Mart 20:00 UTC → 6 Mart 01:00, 6 Mart 01:00 UTC → 06:00
	tsA := time.Date(2092, 3, 5, 20, 0, 0, 0, time.UTC)
	tsB := time.Date(2092, 3, 6, 1, 0, 0, 0, time.UTC)

	orderA := models.Order{
		DealerID: dealer.ID, ManagerID: manager.ID,
		DiscountType: models.DiscountNone, Status: models.OrderStatusCreated,
		DailySeq: 1, HumanID: FormatHumanID(1, tsA), CreatedAt: tsA,
	}
	orderB := models.Order{
		DealerID: dealer.ID, ManagerID: manager.ID,
		DiscountType: models.DiscountNone, Status: models.OrderStatusCreated,
		DailySeq: 1, HumanID: FormatHumanID(1, tsB), CreatedAt: tsB,
	}
	t.Cleanup(func() {
		deleteOrderRows(orderA.ID)
		deleteOrderRows(orderB.ID)
	})

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET LOCAL TIME ZONE 'Asia/Tashkent'").Error; err != nil {
			return err
		}
		if err := tx.Create(&orderA).Error; err != nil {
			return err
		}
		return tx.Create(&orderB).Error
	})
	if err != nil {
		t.Fatalf("iki ayrı UTC gününün 1 numaralı siparişleri birlikte yazılamadı: %v", err)
	}
}

// Kalem hareketleri stoğu gerçek zamanlı oynatır; packed geçişi İKİNCİ KEZ
// düşmez, sadece birim maliyeti kaleme kopyalar; iptal tam miktarı geri verir.
func TestOrderFlowRealTimeDeltasPackAndCancel(t *testing.T) {
	setupIntegrationDB(t)

	dealer := createTestDealer(t)
	manager := createTestManager(t)
	p1 := createStockedProduct(t, 20, 7)
	p2 := createStockedProduct(t, 10, 3)
	app := newTestApp(manager.ID, models.RoleManager)

	// Oluşturma: ilk kalem anında düşer
	var created OrderResponse
	doJSON(t, app, "POST", "/api/orders", fiber.Map{
		"dealer_id": dealer.ID,
		"items":     []fiber.Map{{"product_id": p1.ID, "qty": 3}},
	}, http.StatusCreated, &created)
	t.Cleanup(func() { deleteOrderRows(created.ID) })

	if created.Status != models.OrderStatusCreated || created.Editable {
		t.Errorf("yeni sipariş status=%s editable=%v, beklenen created/false", created.Status, created.Editable)
	}
	if got := productStockOk(t, p1.ID); got != 17 {
		t.Errorf("oluşturma sonrası stock_ok = %d, beklenen 17", got)
	}
	if len(created.Items) != 1 {
		t.Fatalf("kalem sayısı = %d, beklenen 1", len(created.Items))
	}

	// Miktar artışı: sadece fark düşer (3→5 → −2)
	var item models.OrderItem
	doJSON(t, app, "PUT", fmt.Sprintf("/api/order-items/%d", created.Items[0].ID),
		fiber.Map{"qty": 5}, http.StatusOK, &item)
	if got := productStockOk(t, p1.ID); got != 15 {
		t.Errorf("güncelleme sonrası stock_ok = %d, beklenen 15", got)
	}

	// Kalem ekle + sil: ikinci ürün düşüp geri gelir
	var item2 models.OrderItem
	doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/items", created.ID),
		fiber.Map{"product_id": p2.ID, "qty": 2}, http.StatusCreated, &item2)
	if got := productStockOk(t, p2.ID); got != 8 {
		t.Errorf("kalem ekleme sonrası stock_ok = %d, beklenen 8", got)
	}
	doJSON(t, app, "DELETE", fmt.Sprintf("/api/order-items/%d", item2.ID),
		nil, http.StatusOK, nil)
	if got := productStockOk(t, p2.ID); got != 10 {
		t.Errorf("kalem silme sonrası stock_ok = %d, beklenen 10", got)
	}

	// Paketleme: stok DEĞİŞMEZ, maliyet kaleme kopyalanır
	var packed OrderResponse
	doJSON(t, app, "PUT", fmt.Sprintf("/api/orders/%d/status", created.ID),
		fiber.Map{"status": "packed"}, http.StatusOK, &packed)
	if got := productStockOk(t, p1.ID); got != 15 {
		t.Errorf("paketleme stoğu ikinci kez düştü: stock_ok = %d, beklenen 15", got)
	}
	if len(packed.Items) != 1 || !packed.Items[0].CogsUsdSnapshot.Equal(decimal.NewFromInt(7)) {
		t.Errorf("cogs_usd_snapshot = %v, beklenen 7", packed.Items)
	}
	if sum := ledgerSum(t, p1.ID, models.ReasonOrderPack); sum != -5 {
		t.Errorf("order_pack defter toplamı = %d, beklenen -5", sum)
	}

	// İptal: tam miktar order_cancel sebebiyle geri döner
	var cancelled OrderResponse
	doJSON(t, app, "PUT", fmt.Sprintf("/api/orders/%d/status", created.ID),
		fiber.Map{"status": "cancelled"}, http.StatusOK, &cancelled)
	if got := productStockOk(t, p1.ID); got != 20 {
		t.Errorf("iptal sonrası stock_ok = %d, beklenen 20", got)
	}
	if sum := ledgerSum(t, p1.ID, models.ReasonOrderCancel); sum != 5 {
		t.Errorf("order_cancel defter toplamı = %d, beklenen 5", sum)
	}

	// Kapanmış sipariş kalem kabul etmez
	doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/items", created.ID),
		fiber.Map{"product_id": p1.ID, "qty": 1}, http.StatusConflict, nil)
}

// Silme güvenlik ağı: iptal edilmemiş siparişin kalemleri stoğa geri yazılır;
// iptal edilmiş siparişte stok zaten döndüğü için ikinci kez yazılmaz.
func TestOrderDeleteSafetyNet(t *testing.T) {
	setupIntegrationDB(t)

	dealer := createTestDealer(t)
	manager := createTestManager(t)
	p := createStockedProduct(t, 10, 5)
	app := newTestApp(manager.ID, models.RoleAdmin)

	var o1 OrderResponse
	doJSON(t, app, "POST", "/api/orders", fiber.Map{
		"dealer_id": dealer.ID,
		"items":     []fiber.Map{{"product_id": p.ID, "qty": 4}},
	}, http.StatusCreated, &o1)
	if got := productStockOk(t, p.ID); got != 6 {
		t.Fatalf("stock_ok = %d, beklenen 6", got)
	}

	doJSON(t, app, "DELETE", fmt.Sprintf("/api/orders/%d", o1.ID), nil, http.StatusOK, nil)
	if got := productStockOk(t, p.ID); got != 10 {
		t.Errorf("silme sonrası stock_ok = %d, beklenen 10", got)
	}
	var itemCount int64
	database.DB.Model(&models.OrderItem{}).Where("order_id = ?", o1.ID).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("silinen siparişin %d kalemi kaldı", itemCount)
	}

	// İptal + silme birleşimi stoğu iki kez iade etmez
	var o2 OrderResponse
	doJSON(t, app, "POST", "/api/orders", fiber.Map{
		"dealer_id": dealer.ID,
		"items":     []fiber.Map{{"product_id": p.ID, "qty": 2}},
	}, http.StatusCreated, &o2)
	doJSON(t, app, "PUT", fmt.Sprintf("/api/orders/%d/status", o2.ID),
		fiber.Map{"status": "cancelled"}, http.StatusOK, nil)
	if got := productStockOk(t, p.ID); got != 10 {
		t.Fatalf("iptal sonrası stock_ok = %d, beklenen 10", got)
	}
	doJSON(t, app, "DELETE", fmt.Sprintf("/api/orders/%d", o2.ID), nil, http.StatusOK, nil)
	if got := productStockOk(t, p.ID); got != 10 {
		t.Errorf("iptal edilmiş siparişin silinmesi stoğu tekrar iade etti: stock_ok = %d, beklenen 10", got)
	}
}
