package order

import (
	"errors"
	"fmt"
	"time"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"
	"maxdoors-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
}

type CreateOrderRequest struct {
	DealerID      uint                `json:"dealer_id"`
	RegionID      *uint               `json:"region_id"`
	SupplierID    *uint               `json:"supplier_id"`
	DiscountType  models.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	Items         []OrderItemRequest  `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type OrderResponse struct {
	ID            uint                `json:"id"`
	DealerID      uint                `json:"dealer_id"`
	ManagerID     uint                `json:"manager_id"`
	RegionID      *uint               `json:"region_id"`
	SupplierID    *uint               `json:"supplier_id"`
	DiscountType  models.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	Status        models.OrderStatus  `json:"status"`
	DailySeq      int                 `json:"daily_seq"`
	HumanID       string              `json:"human_id"`
	Editable      bool                `json:"editable"`
	Items         []models.OrderItem  `json:"items"`
	CreatedAt     string              `json:"created_at"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		DealerID:      o.DealerID,
		ManagerID:     o.ManagerID,
		RegionID:      o.RegionID,
		SupplierID:    o.SupplierID,
		DiscountType:  o.DiscountType,
		DiscountValue: o.DiscountValue,
		Status:        o.Status,
		DailySeq:      o.DailySeq,
		HumanID:       o.HumanID,
		Editable:      o.Editable,
		Items:         o.Items,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/orders
// Numara ataması sipariş yazılmadan önce, aynı transaction içinde yapılır;
// ilk kalemler de burada gerçek zamanlı stok düşümüyle girer.
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.DealerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "dealer_id zorunlu")
		}

		var dealer models.Dealer
		if err := database.DB.First(&dealer, "id = ?", body.DealerID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bayi bulunamadı")
		}

		if body.DiscountType == "" {
			body.DiscountType = models.DiscountNone
		}
		if body.DiscountType != models.DiscountNone && body.DiscountType != models.DiscountPercent {
			return fiber.NewError(fiber.StatusBadRequest, "discount_type 'none' veya 'percent' olmalı")
		}

		for i, it := range body.Items {
			if it.ProductID == 0 || it.Qty <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Kalem %d: product_id ve pozitif qty zorunlu", i+1))
			}
		}

		now := time.Now()
		var order models.Order

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			seq, err := NextDailySeq(tx, now, "")
			if err != nil {
				return err
			}

			order = models.Order{
				DealerID:      body.DealerID,
				ManagerID:     userID,
				RegionID:      body.RegionID,
				SupplierID:    body.SupplierID,
				DiscountType:  body.DiscountType,
				DiscountValue: body.DiscountValue,
				Status:        models.OrderStatusCreated,
				DailySeq:      seq,
				HumanID:       FormatHumanID(seq, now),
				Editable:      false,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			for _, it := range body.Items {
				item := models.OrderItem{
					OrderID:   order.ID,
					ProductID: it.ProductID,
					Qty:       it.Qty,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				// Kalem eklenirken stok anında düşer
				if err := stock.Apply(tx, it.ProductID, -it.Qty, 0, models.ReasonOrderPack, fmt.Sprint(order.ID)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, stock.ErrProductNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Kalemlerden birinin ürünü bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "order",
			EntityID:   order.ID,
			Action:     models.ActivityActionCreate,
			After:      order,
		})

		database.DB.Preload("Items").First(&order, order.ID)
		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(&order))
	}
}

// PUT /api/orders/:id/status
// packed: stok düşümü kalem hareketlerinde zaten gerçek zamanlı yapıldığı için
// burada İKİNCİ KEZ DÜŞÜLMEZ; sadece birim maliyet kaleme kopyalanır.
// cancelled: tüm kalemler order_cancel sebebiyle stoğa geri döner.
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var body UpdateOrderStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		before := order

		if err := Transition(order.Status, body.Status); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			switch body.Status {
			case models.OrderStatusPacked:
				for i := range order.Items {
					it := &order.Items[i]
					var product models.Product
					if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
						First(&product, "id = ?", it.ProductID).Error; err != nil {
						return err
					}
					if err := tx.Model(&models.OrderItem{}).
						Where("id = ?", it.ID).
						UpdateColumn("cogs_usd_snapshot", product.AvgCostUsd).Error; err != nil {
						return err
					}
				}
				order.Editable = false

			case models.OrderStatusCancelled:
				for _, it := range order.Items {
					if err := stock.Apply(tx, it.ProductID, it.Qty, 0, models.ReasonOrderCancel, fmt.Sprint(order.ID)); err != nil {
						return err
					}
				}
				order.Editable = false
			}

			order.Status = body.Status
			return tx.Model(&models.Order{}).
				Where("id = ?", order.ID).
				Updates(map[string]interface{}{
					"status":   order.Status,
					"editable": order.Editable,
				}).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Durum güncellenemedi")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "order",
			EntityID:   order.ID,
			Action:     models.ActivityActionUpdate,
			Before:     before,
			After:      order,
		})

		database.DB.Preload("Items").First(&order, order.ID)
		return c.JSON(toOrderResponse(&order))
	}
}

// DELETE /api/orders/:id
// Güvenlik ağı: silinen siparişin kalemleri durumdan bağımsız stoğa geri
// yazılır. İki istisna: iptal edilmiş sipariş (stok iptalde zaten döndü) ve
// bulunamayan ürün (sessizce atlanır — silme işlemini engellememeli).
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if order.Status != models.OrderStatusCancelled {
				for _, it := range order.Items {
					err := stock.Apply(tx, it.ProductID, it.Qty, 0, models.ReasonOrderCancel, fmt.Sprint(order.ID))
					if errors.Is(err, stock.ErrProductNotFound) {
						continue
					}
					if err != nil {
						return err
					}
				}
			}

			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Order{}, order.ID).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş silinemedi")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "order",
			EntityID:   order.ID,
			Action:     models.ActivityActionDelete,
			After:      order,
		})

		return c.JSON(fiber.Map{"deleted": order.ID})
	}
}

// GET /api/orders?dealer_id=1&status=created
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Order{}).Preload("Items")

		if didStr := c.Query("dealer_id"); didStr != "" {
			var did uint
			if _, err := fmt.Sscan(didStr, &did); err == nil && did > 0 {
				dbq = dbq.Where("dealer_id = ?", did)
			}
		}
		if st := c.Query("status"); st != "" {
			dbq = dbq.Where("status = ?", st)
		}

		var orders []models.Order
		if err := dbq.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(toOrderResponse(&order))
	}
}
