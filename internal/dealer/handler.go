package dealer

import (
	"fmt"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DealerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	RegionID *uint  `json:"region_id"`
}

type BalanceAdjustRequest struct {
	AmountUsd decimal.Decimal `json:"amount_usd"`
	Note      string          `json:"note"`
}

// POST /api/dealers
func CreateDealerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body DealerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Bayi adı zorunlu")
		}
		if body.RegionID != nil {
			var region models.Region
			if err := database.DB.First(&region, "id = ?", *body.RegionID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bölge bulunamadı")
			}
		}

		dealer := models.Dealer{
			Name:       body.Name,
			Phone:      body.Phone,
			RegionID:   body.RegionID,
			BalanceUsd: decimal.Zero,
		}
		if err := database.DB.Create(&dealer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bayi oluşturulamadı")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "dealer",
			EntityID:   dealer.ID,
			Action:     models.ActivityActionCreate,
			After:      dealer,
		})

		return c.Status(fiber.StatusCreated).JSON(dealer)
	}
}

// PUT /api/dealers/:id
// Bakiye burada GÜNCELLENMEZ; bakiye sadece ödeme ve düzeltme akışlarından değişir.
func UpdateDealerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz bayi id")
		}

		var body DealerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var dealer models.Dealer
		if err := database.DB.First(&dealer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bayi bulunamadı")
		}
		before := dealer

		if body.Name != "" {
			dealer.Name = body.Name
		}
		dealer.Phone = body.Phone
		if body.RegionID != nil {
			var region models.Region
			if err := database.DB.First(&region, "id = ?", *body.RegionID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bölge bulunamadı")
			}
			dealer.RegionID = body.RegionID
		}

		if err := database.DB.Model(&models.Dealer{}).
			Where("id = ?", dealer.ID).
			Updates(map[string]interface{}{
				"name":      dealer.Name,
				"phone":     dealer.Phone,
				"region_id": dealer.RegionID,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bayi güncellenemedi")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "dealer",
			EntityID:   dealer.ID,
			Action:     models.ActivityActionUpdate,
			Before:     before,
			After:      dealer,
		})

		return c.JSON(dealer)
	}
}

// GET /api/dealers?region_id=1
func ListDealersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Dealer{})

		if ridStr := c.Query("region_id"); ridStr != "" {
			var rid uint
			if _, err := fmt.Sscan(ridStr, &rid); err == nil && rid > 0 {
				dbq = dbq.Where("region_id = ?", rid)
			}
		}

		var dealers []models.Dealer
		if err := dbq.Order("name ASC").Find(&dealers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bayiler listelenemedi")
		}
		return c.JSON(dealers)
	}
}

// GET /api/dealers/:id
func GetDealerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz bayi id")
		}

		var dealer models.Dealer
		if err := database.DB.First(&dealer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bayi bulunamadı")
		}
		return c.JSON(dealer)
	}
}

// POST /api/dealers/:id/balance-adjustments
// Düzeltme kaydı ve bakiye artışı aynı transaction içinde, bakiye atomik
// ifadeyle güncellenir.
func AdjustBalanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz bayi id")
		}

		var body BalanceAdjustRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.AmountUsd.IsZero() {
			return fiber.NewError(fiber.StatusBadRequest, "amount_usd sıfır olamaz")
		}
		if body.Note == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Düzeltme için açıklama (note) zorunlu")
		}

		var dealer models.Dealer
		if err := database.DB.First(&dealer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bayi bulunamadı")
		}
		before := dealer

		adj := models.DealerBalanceAdjustment{
			DealerID:  dealer.ID,
			AmountUsd: body.AmountUsd,
			Note:      body.Note,
			CreatedBy: userID,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&adj).Error; err != nil {
				return err
			}
			return tx.Model(&models.Dealer{}).
				Where("id = ?", dealer.ID).
				UpdateColumn("balance_usd", gorm.Expr("balance_usd + ?", body.AmountUsd)).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bakiye düzeltilemedi")
		}

		database.DB.First(&dealer, dealer.ID)

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "dealer",
			EntityID:   dealer.ID,
			Action:     models.ActivityActionBalanceAdjust,
			Before:     before,
			After:      dealer,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"adjustment":  adj,
			"balance_usd": dealer.BalanceUsd,
		})
	}
}

// GET /api/dealers/:id/balance-adjustments
func ListBalanceAdjustmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz bayi id")
		}

		var adjs []models.DealerBalanceAdjustment
		if err := database.DB.
			Where("dealer_id = ?", id).
			Order("created_at DESC").
			Find(&adjs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Düzeltmeler listelenemedi")
		}
		return c.JSON(adjs)
	}
}
