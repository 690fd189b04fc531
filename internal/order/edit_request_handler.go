package order

import (
	"time"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateEditRequestRequest struct {
	OrderID uint   `json:"order_id"`
	Reason  string `json:"reason"`
}

// POST /api/order-edit-requests
// Durum her zaman 'requested' olarak zorlanır
func CreateEditRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateEditRequestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.OrderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "order_id zorunlu")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", body.OrderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		req := models.OrderEditRequest{
			OrderID:     body.OrderID,
			RequestedBy: userID,
			Reason:      body.Reason,
			Status:      models.EditRequestRequested,
		}

		if err := database.DB.Create(&req).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Düzenleme talebi oluşturulamadı")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "order_edit_request",
			EntityID:   req.ID,
			Action:     models.ActivityActionCreate,
			After:      req,
		})

		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

// PUT /api/order-edit-requests/:id/approve
// Onay siparişi edit_requested durumuna alır ve editable=true yapar.
// Sevk edilmiş veya iptal edilmiş sipariş tekrar açılamaz.
func ApproveEditRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz talep id")
		}

		var req models.OrderEditRequest
		if err := database.DB.First(&req, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Düzenleme talebi bulunamadı")
		}
		if req.Status != models.EditRequestRequested {
			return fiber.NewError(fiber.StatusConflict, "Talep zaten sonuçlanmış")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", req.OrderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		if order.Status == models.OrderStatusShipped || order.Status == models.OrderStatusCancelled {
			return fiber.NewError(fiber.StatusConflict, "Sevk edilmiş veya iptal edilmiş sipariş düzenlemeye açılamaz")
		}

		now := time.Now()
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.OrderEditRequest{}).
				Where("id = ?", req.ID).
				Updates(map[string]interface{}{
					"status":      models.EditRequestApproved,
					"approved_by": userID,
					"approved_at": now,
				}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Order{}).
				Where("id = ?", order.ID).
				Updates(map[string]interface{}{
					"status":   models.OrderStatusEditRequested,
					"editable": true,
				}).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep onaylanamadı")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "order_edit_request",
			EntityID:   req.ID,
			Action:     models.ActivityActionUpdate,
			Before:     req,
			After:      fiber.Map{"status": models.EditRequestApproved, "order_id": order.ID},
		})

		return c.JSON(fiber.Map{"approved": req.ID, "order_id": order.ID})
	}
}

// PUT /api/order-edit-requests/:id/reject
func RejectEditRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz talep id")
		}

		var req models.OrderEditRequest
		if err := database.DB.First(&req, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Düzenleme talebi bulunamadı")
		}
		if req.Status != models.EditRequestRequested {
			return fiber.NewError(fiber.StatusConflict, "Talep zaten sonuçlanmış")
		}

		if err := database.DB.Model(&models.OrderEditRequest{}).
			Where("id = ?", req.ID).
			UpdateColumn("status", models.EditRequestRejected).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep reddedilemedi")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "order_edit_request",
			EntityID:   req.ID,
			Action:     models.ActivityActionUpdate,
			Before:     req,
			After:      fiber.Map{"status": models.EditRequestRejected},
		})

		return c.JSON(fiber.Map{"rejected": req.ID})
	}
}
