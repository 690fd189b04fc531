package activity

import (
	"encoding/json"
	"fmt"

	"maxdoors-backend/internal/config"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"
)

type LogOptions struct {
	UserID     uint
	UserName   string
	EntityType string
	EntityID   uint
	Action     models.ActivityAction
	Before     any
	After      any
}

// Write: aktivite kaydı ekler. En iyi çaba — hata tetikleyen işlemi asla
// başarısız yapmamalı, çağıran taraf dönüşü `_ =` ile yutar.
func Write(opts LogOptions) error {
	// jsonb kolonu için boş string yerine "null" yazılmalı
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.ActivityLog{
		UserID:     opts.UserID,
		UserName:   opts.UserName,
		EntityType: opts.EntityType,
		EntityID:   opts.EntityID,
		Action:     opts.Action,
		BeforeData: beforeStr,
		AfterData:  afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		config.Log().WithField("entity", opts.EntityType).Warnf("aktivite kaydı yazılamadı: %v", err)
		return fmt.Errorf("aktivite kaydı yazılamadı: %w", err)
	}

	return nil
}

// UserName: aktivite kaydında gösterilecek ismi getirir; bulunamazsa boş döner
func UserName(userID uint) string {
	var user models.User
	if err := database.DB.Select("name").First(&user, userID).Error; err != nil {
		return ""
	}
	return user.Name
}
