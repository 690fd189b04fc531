package models

import "time"

// ReturnEntry: bayiden gelen iade girişi (başlık)
type ReturnEntry struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	DealerID uint      `gorm:"index;not null" json:"dealer_id"`
	Dealer   Dealer    `json:"-"`
	Date     time.Time `gorm:"index;not null" json:"date"`
	Note     string    `gorm:"size:255" json:"note"`

	Items []ReturnEntryItem `gorm:"foreignKey:EntryID" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReturnEntryItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	EntryID   uint    `gorm:"index;not null" json:"entry_id"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `json:"-"`

	Qty      int  `gorm:"not null" json:"qty"`
	IsDefect bool `gorm:"not null;default:false" json:"is_defect"`

	CreatedAt time.Time `json:"created_at"`
}
