package models

import "time"

type ActivityAction string

const (
	ActivityActionCreate        ActivityAction = "create"
	ActivityActionUpdate        ActivityAction = "update"
	ActivityActionDelete        ActivityAction = "delete"
	ActivityActionBalanceAdjust ActivityAction = "balance_adjust"
)

// ActivityLog: izlenen kayıtların tüm create/update/delete hareketleri.
// Sadece eklenir; yazım hatası tetikleyen işlemi asla geri almaz.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID   uint   `gorm:"index" json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalize

	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action ActivityAction `gorm:"size:20" json:"action"`

	// Önceki ve sonraki hal (JSON). create'te before null; delete'te silinen
	// kayıt after'a yazılır (before null); update ikisini de taşır.
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`
}
