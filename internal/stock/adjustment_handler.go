package stock

import (
	"errors"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DefectAdjustmentRequest struct {
	ProductID uint   `json:"product_id"`
	Qty       int    `json:"qty"`
	Note      string `json:"note"`
}

// POST /api/stock/defect-in
// Depoda defolu çıkan sağlam ürünü defoluya aktarır: -qty sağlam, +qty defolu.
func DefectInHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handleDefectAdjustment(c, models.ReasonDefectIn)
	}
}

// POST /api/stock/defect-out
// Defolu ürünün imhası/çıkışı: -qty defolu.
func DefectOutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handleDefectAdjustment(c, models.ReasonDefectOut)
	}
}

func handleDefectAdjustment(c *fiber.Ctx, reason models.StockReason) error {
	var body DefectAdjustmentRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	if body.ProductID == 0 || body.Qty <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "product_id ve pozitif qty zorunlu")
	}

	deltaOk, deltaDefect := 0, 0
	switch reason {
	case models.ReasonDefectIn:
		deltaOk, deltaDefect = -body.Qty, body.Qty
	case models.ReasonDefectOut:
		deltaDefect = -body.Qty
	}

	if err := Record(body.ProductID, deltaOk, deltaDefect, reason, body.Note); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Stok düzeltmesi kaydedilemedi")
	}

	if userID, _, uerr := auth.CurrentUser(c); uerr == nil {
		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "stock_adjustment",
			EntityID:   body.ProductID,
			Action:     models.ActivityActionCreate,
			After:      body,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"product_id":   body.ProductID,
		"reason":       reason,
		"delta_ok":     deltaOk,
		"delta_defect": deltaDefect,
	})
}
