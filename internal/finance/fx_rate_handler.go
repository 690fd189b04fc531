package finance

import (
	"time"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type FxRateRequest struct {
	Date     string          `json:"date"` // "2006-01-02"
	UsdToUzs decimal.Decimal `json:"usd_to_uzs"`
}

// POST /api/fx-rates
// Aynı güne ikinci kayıt girilirse eski kur güncellenir (upsert).
func UpsertFxRateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body FxRateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.UsdToUzs.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "usd_to_uzs pozitif olmalı")
		}

		date := time.Now().UTC().Truncate(24 * time.Hour)
		if body.Date != "" {
			date, err = time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tarih (YYYY-MM-DD bekleniyor)")
			}
		}

		var rate models.FxRate
		action := models.ActivityActionCreate
		err = database.DB.Where("date = ?", date).First(&rate).Error
		if err == nil {
			action = models.ActivityActionUpdate
			rate.UsdToUzs = body.UsdToUzs
			if err := database.DB.Model(&models.FxRate{}).
				Where("id = ?", rate.ID).
				UpdateColumn("usd_to_uzs", body.UsdToUzs).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Kur güncellenemedi")
			}
		} else {
			rate = models.FxRate{Date: date, UsdToUzs: body.UsdToUzs}
			if err := database.DB.Create(&rate).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Kur kaydedilemedi")
			}
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "fx_rate",
			EntityID:   rate.ID,
			Action:     action,
			After:      rate,
		})

		return c.Status(fiber.StatusCreated).JSON(rate)
	}
}

// GET /api/fx-rates?limit=30
func ListFxRatesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 30)
		if limit <= 0 || limit > 365 {
			limit = 30
		}

		var rates []models.FxRate
		if err := database.DB.Order("date DESC").Limit(limit).Find(&rates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kurlar listelenemedi")
		}
		return c.JSON(rates)
	}
}

// GET /api/fx-rates/latest
// Verilen tarihe eşit veya ondan önceki en güncel kur
func LatestFxRateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := time.Now().UTC()
		if dStr := c.Query("date"); dStr != "" {
			d, err := time.Parse("2006-01-02", dStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tarih (YYYY-MM-DD bekleniyor)")
			}
			date = d
		}

		var rate models.FxRate
		if err := database.DB.
			Where("date <= ?", date).
			Order("date DESC").
			First(&rate).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kur kaydı bulunamadı")
		}
		return c.JSON(rate)
	}
}
