package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DayKeyUTC: numaralandırmada kullanılan UTC takvim günü
func DayKeyUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// NextDailySeq: (gün, grup) sayacını atomik olarak artırıp yeni değeri döndürür.
// "Bugünkü siparişleri say" yöntemi eşzamanlı oluşturmada aynı numarayı iki kez
// üretebildiğinden tek bir upsert kullanılır. Sipariş oluşturma transaction'ının
// içinde çağrılır; sipariş yazılamazsa sayaç artışı da geri alınır.
func NextDailySeq(tx *gorm.DB, createdAt time.Time, groupKey string) (int, error) {
	var seq int
	err := tx.Raw(`
		INSERT INTO order_sequences (day, group_key, counter, created_at, updated_at)
		VALUES (?, ?, 1, NOW(), NOW())
		ON CONFLICT (day, group_key)
		DO UPDATE SET counter = order_sequences.counter + 1, updated_at = NOW()
		RETURNING counter
	`, DayKeyUTC(createdAt), groupKey).Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("sipariş sayacı artırılamadı: %w", err)
	}
	return seq, nil
}

// FormatHumanID: NNN-dd.MM.yyyy (örn. 7. sipariş, 2025-03-05 → "007-05.03.2025")
func FormatHumanID(seq int, createdAt time.Time) string {
	d := createdAt.UTC()
	return fmt.Sprintf("%03d-%02d.%02d.%04d", seq, d.Day(), int(d.Month()), d.Year())
}
