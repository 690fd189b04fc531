package order

import (
	"errors"
	"fmt"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"
	"maxdoors-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateOrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
}

type UpdateOrderItemRequest struct {
	Qty int `json:"qty"`
}

// Sipariş aktif mi (created | edit_requested)? Değilse kalem düzenlenemez.
func loadActiveOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := database.DB.First(&order, "id = ?", orderID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
	}
	if !IsActiveStatus(order.Status) {
		return nil, fiber.NewError(fiber.StatusConflict, ErrOrderNotActive.Error())
	}
	return &order, nil
}

// POST /api/orders/:id/items
// Aktif siparişe kalem ekleme: stok anında -qty düşer
func CreateOrderItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var body CreateOrderItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ProductID == 0 || body.Qty <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id ve pozitif qty zorunlu")
		}

		order, err := loadActiveOrder(uint(orderID))
		if err != nil {
			return err
		}

		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: body.ProductID,
			Qty:       body.Qty,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			return stock.Apply(tx, body.ProductID, -body.Qty, 0, models.ReasonOrderPack, fmt.Sprint(order.ID))
		})
		if err != nil {
			if errors.Is(err, stock.ErrProductNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kalem eklenemedi")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "order_item",
			EntityID:   item.ID,
			Action:     models.ActivityActionCreate,
			After:      item,
		})

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PUT /api/order-items/:id
// Miktar değişimi: fark kadar stok oynar (artış → ek düşüş, azalış → iade)
func UpdateOrderItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		itemID, err := c.ParamsInt("id")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kalem id")
		}

		var body UpdateOrderItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Qty <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "qty pozitif olmalı")
		}

		var item models.OrderItem
		if err := database.DB.First(&item, "id = ?", itemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kalem bulunamadı")
		}

		order, err := loadActiveOrder(item.OrderID)
		if err != nil {
			return err
		}

		before := item
		diff := body.Qty - item.Qty
		if diff == 0 {
			return c.JSON(item)
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.OrderItem{}).
				Where("id = ?", item.ID).
				UpdateColumn("qty", body.Qty).Error; err != nil {
				return err
			}
			return stock.Apply(tx, item.ProductID, -diff, 0, models.ReasonOrderPack, fmt.Sprint(order.ID))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalem güncellenemedi")
		}

		item.Qty = body.Qty
		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "order_item",
			EntityID:   item.ID,
			Action:     models.ActivityActionUpdate,
			Before:     before,
			After:      item,
		})

		return c.JSON(item)
	}
}

// DELETE /api/order-items/:id
// Kalem silme: miktar stoğa geri döner
func DeleteOrderItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		itemID, err := c.ParamsInt("id")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kalem id")
		}

		var item models.OrderItem
		if err := database.DB.First(&item, "id = ?", itemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kalem bulunamadı")
		}

		order, err := loadActiveOrder(item.OrderID)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.OrderItem{}, item.ID).Error; err != nil {
				return err
			}
			return stock.Apply(tx, item.ProductID, item.Qty, 0, models.ReasonOrderPack, fmt.Sprint(order.ID))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalem silinemedi")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "order_item",
			EntityID:   item.ID,
			Action:     models.ActivityActionDelete,
			After:      item,
		})

		return c.JSON(fiber.Map{"deleted": item.ID})
	}
}
