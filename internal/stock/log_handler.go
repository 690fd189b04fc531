package stock

import (
	"fmt"

	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/stock-logs?product_id=1&reason=purchase
func ListStockLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockLog{})

		if pidStr := c.Query("product_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err == nil && pid > 0 {
				dbq = dbq.Where("product_id = ?", pid)
			}
		}
		if reason := c.Query("reason"); reason != "" {
			dbq = dbq.Where("reason = ?", reason)
		}

		limit := 200
		if lStr := c.Query("limit"); lStr != "" {
			var l int
			if _, err := fmt.Sscan(lStr, &l); err == nil && l > 0 && l <= 1000 {
				limit = l
			}
		}

		var entries []models.StockLog
		if err := dbq.Order("ts DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketleri listelenemedi")
		}

		return c.JSON(entries)
	}
}

type ReconcileRow struct {
	ProductID      uint   `json:"product_id"`
	ProductName    string `json:"product_name"`
	StockOk        int    `json:"stock_ok"`
	StockDefect    int    `json:"stock_defect"`
	LedgerOk       int    `json:"ledger_ok"`
	LedgerDefect   int    `json:"ledger_defect"`
	DivergedOk     int    `json:"diverged_ok"`
	DivergedDefect int    `json:"diverged_defect"`
}

// GET /api/stock/reconcile
// Defter toplamı ile ürün sayaçlarını karşılaştırır. Sapma normalde sıfırdır;
// sıfır değilse sayaçlara defter dışında yazılmış demektir.
func ReconcileStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []ReconcileRow
		err := database.DB.Raw(`
			SELECT p.id AS product_id,
			       p.name AS product_name,
			       p.stock_ok,
			       p.stock_defect,
			       COALESCE(SUM(l.delta_ok), 0)::int AS ledger_ok,
			       COALESCE(SUM(l.delta_defect), 0)::int AS ledger_defect,
			       (p.stock_ok - COALESCE(SUM(l.delta_ok), 0))::int AS diverged_ok,
			       (p.stock_defect - COALESCE(SUM(l.delta_defect), 0))::int AS diverged_defect
			FROM products p
			LEFT JOIN stock_logs l ON l.product_id = p.id
			GROUP BY p.id, p.name, p.stock_ok, p.stock_defect
			ORDER BY p.id
		`).Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mutabakat sorgusu çalıştırılamadı")
		}

		diverged := make([]ReconcileRow, 0)
		for _, r := range rows {
			if r.DivergedOk != 0 || r.DivergedDefect != 0 {
				diverged = append(diverged, r)
			}
		}

		return c.JSON(fiber.Map{
			"total_products": len(rows),
			"diverged_count": len(diverged),
			"diverged":       diverged,
		})
	}
}
