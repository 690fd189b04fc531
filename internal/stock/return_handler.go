package stock

import (
	"errors"
	"fmt"
	"time"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReturnEntryItemRequest struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
	IsDefect  bool `json:"is_defect"`
}

type CreateReturnEntryRequest struct {
	DealerID uint                     `json:"dealer_id"`
	Date     string                   `json:"date"`
	Note     string                   `json:"note"`
	Items    []ReturnEntryItemRequest `json:"items"`
}

// POST /api/return-entries
// Bayi iadesi: sağlam kalemler stock_ok'a, defolu kalemler stock_defect'e
// return_in sebebiyle geri girer. Ortalama maliyete dokunulmaz.
func CreateReturnEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateReturnEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.DealerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "dealer_id zorunlu")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir kalem gerekli")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var dealer models.Dealer
		if err := database.DB.First(&dealer, "id = ?", body.DealerID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bayi bulunamadı")
		}

		for i, it := range body.Items {
			if it.ProductID == 0 || it.Qty <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Kalem %d: product_id ve pozitif qty zorunlu", i+1))
			}
		}

		entry := models.ReturnEntry{
			DealerID: body.DealerID,
			Date:     d,
			Note:     body.Note,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			for _, it := range body.Items {
				item := models.ReturnEntryItem{
					EntryID:   entry.ID,
					ProductID: it.ProductID,
					Qty:       it.Qty,
					IsDefect:  it.IsDefect,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}

				deltaOk, deltaDefect := it.Qty, 0
				if it.IsDefect {
					deltaOk, deltaDefect = 0, it.Qty
				}
				if err := Apply(tx, it.ProductID, deltaOk, deltaDefect, models.ReasonReturnIn, fmt.Sprint(entry.ID)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Kalemlerden birinin ürünü bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "İade girişi kaydedilemedi")
		}

		if userID, _, uerr := auth.CurrentUser(c); uerr == nil {
			_ = activity.Write(activity.LogOptions{
				UserID:     userID,
				UserName:   activity.UserName(userID),
				EntityType: "return_entry",
				EntityID:   entry.ID,
				Action:     models.ActivityActionCreate,
				After:      entry,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// GET /api/return-entries?dealer_id=1
func ListReturnEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.ReturnEntry{}).Preload("Items")

		if didStr := c.Query("dealer_id"); didStr != "" {
			var did uint
			if _, err := fmt.Sscan(didStr, &did); err == nil && did > 0 {
				dbq = dbq.Where("dealer_id = ?", did)
			}
		}

		var entries []models.ReturnEntry
		if err := dbq.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İade girişleri listelenemedi")
		}

		return c.JSON(entries)
	}
}
