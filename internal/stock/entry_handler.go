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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockEntryItemRequest struct {
	ProductID uint            `json:"product_id"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	IsDefect  bool            `json:"is_defect"`
}

type CreateStockEntryRequest struct {
	SupplierID uint                    `json:"supplier_id"`
	Date       string                  `json:"date"` // "2025-03-05"
	Currency   models.Currency         `json:"currency"`
	Rate       decimal.Decimal         `json:"rate"` // UZS için zorunlu
	Note       string                  `json:"note"`
	Items      []StockEntryItemRequest `json:"items"`
}

type StockEntryResponse struct {
	ID         uint                    `json:"id"`
	SupplierID uint                    `json:"supplier_id"`
	Date       string                  `json:"date"`
	Currency   models.Currency         `json:"currency"`
	Rate       decimal.Decimal         `json:"rate"`
	Note       string                  `json:"note"`
	Items      []models.StockEntryItem `json:"items"`
	CreatedAt  string                  `json:"created_at"`
}

// POST /api/stock-entries
// Alış girişi: başlık + kalemler + her kalemin stok ve maliyet etkisi tek
// transaction'da yazılır. UZS girişte kur yoksa hiçbir şey kaydedilmez.
func CreateStockEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.SupplierID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "supplier_id zorunlu")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir kalem gerekli")
		}
		if body.Currency == "" {
			body.Currency = models.CurrencyUSD
		}
		if body.Currency != models.CurrencyUSD && body.Currency != models.CurrencyUZS {
			return fiber.NewError(fiber.StatusBadRequest, "Para birimi USD veya UZS olmalı")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi bulunamadı")
		}

		for i, it := range body.Items {
			if it.ProductID == 0 || it.Qty <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Kalem %d: product_id ve pozitif qty zorunlu", i+1))
			}
			if it.Price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Kalem %d: fiyat negatif olamaz", i+1))
			}
			// Kur kontrolü kayıttan ÖNCE: maliyetlendirilemeyen giriş hiç yazılmasın
			if _, err := UnitCostUsd(body.Currency, it.Price, body.Rate); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		entry := models.StockEntry{
			SupplierID: body.SupplierID,
			Date:       d,
			Currency:   body.Currency,
			Rate:       body.Rate,
			Note:       body.Note,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			for _, it := range body.Items {
				item := models.StockEntryItem{
					EntryID:   entry.ID,
					ProductID: it.ProductID,
					Qty:       it.Qty,
					Price:     it.Price,
					IsDefect:  it.IsDefect,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}

				unitCost, err := UnitCostUsd(body.Currency, it.Price, body.Rate)
				if err != nil {
					return err
				}
				if err := ApplyPurchase(tx, it.ProductID, it.Qty, unitCost, it.IsDefect, fmt.Sprint(entry.ID)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Kalemlerden birinin ürünü bulunamadı")
			}
			if errors.Is(err, ErrRateRequired) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Alış girişi kaydedilemedi")
		}

		if userID, _, uerr := auth.CurrentUser(c); uerr == nil {
			_ = activity.Write(activity.LogOptions{
				UserID:     userID,
				UserName:   activity.UserName(userID),
				EntityType: "stock_entry",
				EntityID:   entry.ID,
				Action:     models.ActivityActionCreate,
				After:      entry,
			})
		}

		var items []models.StockEntryItem
		database.DB.Where("entry_id = ?", entry.ID).Find(&items)

		return c.Status(fiber.StatusCreated).JSON(StockEntryResponse{
			ID:         entry.ID,
			SupplierID: entry.SupplierID,
			Date:       entry.Date.Format("2006-01-02"),
			Currency:   entry.Currency,
			Rate:       entry.Rate,
			Note:       entry.Note,
			Items:      items,
			CreatedAt:  entry.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/stock-entries?supplier_id=1
func ListStockEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockEntry{}).Preload("Items")

		if sidStr := c.Query("supplier_id"); sidStr != "" {
			var sid uint
			if _, err := fmt.Sscan(sidStr, &sid); err == nil && sid > 0 {
				dbq = dbq.Where("supplier_id = ?", sid)
			}
		}

		var entries []models.StockEntry
		if err := dbq.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alış girişleri listelenemedi")
		}

		return c.JSON(entries)
	}
}
