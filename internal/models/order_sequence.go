package models

import "time"

// OrderSequence: gün (+ opsiyonel grup) başına atomik sipariş sayacı.
// "Bugünkü siparişleri say" yaklaşımı eşzamanlı oluşturma altında aynı numarayı
// iki kez üretebildiği için kalıcı sayaç satırı kullanılır; artırma tek bir
// ON CONFLICT upsert ile yapılır.
type OrderSequence struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// UTC takvim günü, format 2006-01-02
	Day string `gorm:"size:10;not null;uniqueIndex:idx_order_seq_day_group" json:"day"`
	// Opsiyonel gruplama anahtarı (örn. depo); boş string = genel sayaç
	GroupKey string `gorm:"size:50;not null;default:'';uniqueIndex:idx_order_seq_day_group" json:"group_key"`

	Counter int `gorm:"not null;default:0" json:"counter"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
