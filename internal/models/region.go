package models

import "time"

// Region: bayilerin ve saha yöneticilerinin bağlı olduğu bölge
type Region struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;unique" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
