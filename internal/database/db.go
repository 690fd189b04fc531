package database

import (
	"maxdoors-backend/internal/config"
	"maxdoors-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		config.Log().Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Region{},
		&models.Category{},
		&models.Supplier{},
		&models.User{},
		&models.Product{},
		&models.StockLog{},
		&models.StockEntry{},
		&models.StockEntryItem{},
		&models.ReturnEntry{},
		&models.ReturnEntryItem{},
		&models.Dealer{},
		&models.DealerBalanceAdjustment{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderSequence{},
		&models.OrderEditRequest{},
		&models.Payment{},
		&models.PaymentApplication{},
		&models.FxRate{},
		&models.ActivityLog{},
	)
	if err != nil {
		config.Log().Fatalf("AutoMigrate hatası: %v", err)
	}

	// AutoMigrate composite unique index'i her sürümde aynı adla üretmiyor;
	// sayaç upsert'inin ON CONFLICT hedefi olduğu için varlığını garanti et.
	if err := DB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_order_seq_day_group ON order_sequences (day, group_key)",
	).Error; err != nil {
		config.Log().Fatalf("order_sequences unique index oluşturulamadı: %v", err)
	}

	// Aynı günde aynı sıra numarası iki kez yazılmasın (sayaç hatasına karşı son
	// savunma). Gün sınırı sayaçla aynı olmalı: sayaç UTC gününe göre saydığı için
	// buradaki cast de UTC'ye sabitlenir; çıplak ::date oturum saat dilimini
	// kullanır ve UTC dışı veritabanında iki ayrı UTC gününü aynı yerel güne
	// bindirip geçerli siparişi reddederdi.
	if err := DB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_day_seq ON orders (((created_at AT TIME ZONE 'UTC')::date), daily_seq)",
	).Error; err != nil {
		config.Log().Fatalf("orders (gün, daily_seq) unique index oluşturulamadı: %v", err)
	}

	config.Log().Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
