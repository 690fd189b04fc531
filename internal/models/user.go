package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleOwner      UserRole = "owner"
	RoleManager    UserRole = "manager"
	RoleAccountant UserRole = "accountant"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"size:150;not null;uniqueIndex" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null" json:"role"`

	// Saha yöneticileri bir bölgeye bağlı çalışır, ofis rolleri için boş
	RegionID *uint   `json:"region_id"`
	Region   *Region `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
