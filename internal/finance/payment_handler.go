package finance

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
)

type PaymentApplicationRequest struct {
	OrderID   uint            `json:"order_id"`
	AmountUsd decimal.Decimal `json:"amount_usd"`
}

type CreatePaymentRequest struct {
	DealerID     uint                        `json:"dealer_id"`
	Date         string                      `json:"date"` // "2006-01-02"
	Amount       decimal.Decimal             `json:"amount"`
	Currency     models.Currency             `json:"currency"`
	FxRate       decimal.Decimal             `json:"fx_rate"`
	Method       models.PaymentMethod        `json:"method"`
	Note         string                      `json:"note"`
	Applications []PaymentApplicationRequest `json:"applications"`
}

// POST /api/payments
// UZS ödemede kur zorunludur; kur yoksa hiçbir kayıt yazılmadan reddedilir.
// Ödeme bayinin cari bakiyesine USD karşılığıyla işlenir.
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.DealerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "dealer_id zorunlu")
		}
		if body.Amount.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "amount pozitif olmalı")
		}

		if body.Currency == "" {
			body.Currency = models.CurrencyUSD
		}
		if body.Currency != models.CurrencyUSD && body.Currency != models.CurrencyUZS {
			return fiber.NewError(fiber.StatusBadRequest, "currency 'USD' veya 'UZS' olmalı")
		}
		if body.Method == "" {
			body.Method = models.PaymentCash
		}
		switch body.Method {
		case models.PaymentCash, models.PaymentTransfer, models.PaymentCard:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "method 'cash', 'transfer' veya 'card' olmalı")
		}

		date := time.Now()
		if body.Date != "" {
			date, err = time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz tarih (YYYY-MM-DD bekleniyor)")
			}
		}

		var dealer models.Dealer
		if err := database.DB.First(&dealer, "id = ?", body.DealerID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bayi bulunamadı")
		}

		// UZS ödemede kur verilmemişse ödeme tarihine en yakın kayıtlı kur kullanılır
		if body.Currency == models.CurrencyUZS && body.FxRate.IsZero() {
			var rate models.FxRate
			if err := database.DB.
				Where("date <= ?", date).
				Order("date DESC").
				First(&rate).Error; err == nil {
				body.FxRate = rate.UsdToUzs
			}
		}

		// USD karşılığı alış maliyetiyle aynı kuralla hesaplanır
		amountUsd, err := stock.UnitCostUsd(body.Currency, body.Amount, body.FxRate)
		if err != nil {
			if errors.Is(err, stock.ErrRateRequired) {
				return fiber.NewError(fiber.StatusBadRequest, "UZS ödeme için fx_rate zorunlu ve kayıtlı kur bulunamadı")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Dağıtım toplamı ödemenin USD karşılığını aşamaz
		appTotal := decimal.Zero
		for i, app := range body.Applications {
			if app.OrderID == 0 || app.AmountUsd.LessThanOrEqual(decimal.Zero) {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Dağıtım %d: order_id ve pozitif amount_usd zorunlu", i+1))
			}
			appTotal = appTotal.Add(app.AmountUsd)
		}
		if appTotal.GreaterThan(amountUsd) {
			return fiber.NewError(fiber.StatusBadRequest, "Dağıtım toplamı ödeme tutarını aşıyor")
		}

		payment := models.Payment{
			DealerID:  body.DealerID,
			Date:      date,
			Amount:    body.Amount,
			Currency:  body.Currency,
			FxRate:    body.FxRate,
			AmountUsd: amountUsd,
			Method:    body.Method,
			Note:      body.Note,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
			for _, app := range body.Applications {
				var order models.Order
				if err := tx.First(&order, "id = ?", app.OrderID).Error; err != nil {
					return fmt.Errorf("sipariş %d bulunamadı", app.OrderID)
				}
				if order.DealerID != payment.DealerID {
					return fmt.Errorf("sipariş %d başka bir bayiye ait", app.OrderID)
				}
				pa := models.PaymentApplication{
					PaymentID: payment.ID,
					OrderID:   app.OrderID,
					AmountUsd: app.AmountUsd,
				}
				if err := tx.Create(&pa).Error; err != nil {
					return err
				}
			}
			// Ödeme bayinin alacağını artırır
			return tx.Model(&models.Dealer{}).
				Where("id = ?", payment.DealerID).
				UpdateColumn("balance_usd", gorm.Expr("balance_usd + ?", amountUsd)).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "payment",
			EntityID:   payment.ID,
			Action:     models.ActivityActionCreate,
			After:      payment,
		})

		database.DB.Preload("Applications").First(&payment, payment.ID)
		return c.Status(fiber.StatusCreated).JSON(payment)
	}
}

// GET /api/payments?dealer_id=1
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Payment{}).Preload("Applications")

		if didStr := c.Query("dealer_id"); didStr != "" {
			var did uint
			if _, err := fmt.Sscan(didStr, &did); err == nil && did > 0 {
				dbq = dbq.Where("dealer_id = ?", did)
			}
		}

		var payments []models.Payment
		if err := dbq.Order("date DESC, id DESC").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler listelenemedi")
		}
		return c.JSON(payments)
	}
}

// DELETE /api/payments/:id
// Silinen ödemenin USD karşılığı bakiyeden geri düşülür.
func DeletePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme id")
		}

		var payment models.Payment
		if err := database.DB.Preload("Applications").First(&payment, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ödeme bulunamadı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("payment_id = ?", payment.ID).Delete(&models.PaymentApplication{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Payment{}, payment.ID).Error; err != nil {
				return err
			}
			return tx.Model(&models.Dealer{}).
				Where("id = ?", payment.DealerID).
				UpdateColumn("balance_usd", gorm.Expr("balance_usd - ?", payment.AmountUsd)).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme silinemedi")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "payment",
			EntityID:   payment.ID,
			Action:     models.ActivityActionDelete,
			After:      payment,
		})

		return c.JSON(fiber.Map{"deleted": payment.ID})
	}
}
