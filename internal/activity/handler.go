package activity

import (
	"fmt"

	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ActivityLogResponse struct {
	ID         uint                  `json:"id"`
	CreatedAt  string                `json:"created_at"`
	UserID     uint                  `json:"user_id"`
	UserName   string                `json:"user_name"`
	EntityType string                `json:"entity_type"`
	EntityID   uint                  `json:"entity_id"`
	Action     models.ActivityAction `json:"action"`
	BeforeData string                `json:"before_data"`
	AfterData  string                `json:"after_data"`
}

// GET /api/activity-logs?entity_type=order&entity_id=1&action=update&user_id=2
func ListActivityLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.ActivityLog{})

		if et := c.Query("entity_type"); et != "" {
			dbq = dbq.Where("entity_type = ?", et)
		}
		if eidStr := c.Query("entity_id"); eidStr != "" {
			var eid uint
			if _, err := fmt.Sscan(eidStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}
		if action := c.Query("action"); action != "" {
			dbq = dbq.Where("action = ?", action)
		}
		if uidStr := c.Query("user_id"); uidStr != "" {
			var uid uint
			if _, err := fmt.Sscan(uidStr, &uid); err == nil && uid > 0 {
				dbq = dbq.Where("user_id = ?", uid)
			}
		}

		limit := 100
		if lStr := c.Query("limit"); lStr != "" {
			var l int
			if _, err := fmt.Sscan(lStr, &l); err == nil && l > 0 && l <= 500 {
				limit = l
			}
		}

		var logs []models.ActivityLog
		if err := dbq.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Aktivite kayıtları listelenemedi")
		}

		resp := make([]ActivityLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, ActivityLogResponse{
				ID:         l.ID,
				CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:     l.UserID,
				UserName:   l.UserName,
				EntityType: l.EntityType,
				EntityID:   l.EntityID,
				Action:     l.Action,
				BeforeData: l.BeforeData,
				AfterData:  l.AfterData,
			})
		}

		return c.JSON(resp)
	}
}
