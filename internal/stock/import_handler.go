package stock

import (
	"fmt"
	"strconv"
	"strings"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// POST /api/stock/import
// XLSX ile açılış stoğu / toplu aktarım. Kolonlar:
//   A: ürün adı, B: barkod (ops.), C: sağlam adet, D: defolu adet (ops.),
//   E: USD birim maliyet (ops.)
// Olmayan ürün oluşturulur; her satır reason=import hareketiyle deftere işlenir.
// Maliyet verilmişse ağırlıklı ortalama alış gibi güncellenir.
func ImportStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		// İlk satır başlıksa atla
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "ÜRÜN") || strings.Contains(firstCell, "PRODUCT") || strings.Contains(firstCell, "NAME") {
				startIndex = 1
			}
		}

		imported := 0
		skipped := make([]string, 0)

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			name := strings.TrimSpace(row[0])
			barcode := cellAt(row, 1)

			qtyOk, err := parseIntCell(cellAt(row, 2))
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("satır %d: sağlam adet okunamadı", i+1))
				continue
			}
			qtyDefect, err := parseIntCell(cellAt(row, 3))
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("satır %d: defolu adet okunamadı", i+1))
				continue
			}
			if qtyOk == 0 && qtyDefect == 0 {
				continue
			}

			var unitCost decimal.Decimal
			if costStr := cellAt(row, 4); costStr != "" {
				unitCost, err = decimal.NewFromString(strings.ReplaceAll(costStr, ",", "."))
				if err != nil {
					skipped = append(skipped, fmt.Sprintf("satır %d: maliyet okunamadı", i+1))
					continue
				}
			}

			err = database.DB.Transaction(func(tx *gorm.DB) error {
				var product models.Product
				res := tx.Where("name = ?", name).First(&product)
				if res.Error == gorm.ErrRecordNotFound {
					product = models.Product{Name: name, Barcode: barcode}
					if err := tx.Create(&product).Error; err != nil {
						return err
					}
				} else if res.Error != nil {
					return res.Error
				}

				return ApplyImport(tx, product.ID, qtyOk, qtyDefect, unitCost, fileHeader.Filename)
			})
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("satır %d: %v", i+1, err))
				continue
			}

			imported++
		}

		if userID, _, uerr := auth.CurrentUser(c); uerr == nil {
			_ = activity.Write(activity.LogOptions{
				UserID:     userID,
				UserName:   activity.UserName(userID),
				EntityType: "stock_import",
				EntityID:   0,
				Action:     models.ActivityActionCreate,
				After:      fiber.Map{"file": fileHeader.Filename, "imported": imported},
			})
		}

		return c.JSON(fiber.Map{
			"imported": imported,
			"skipped":  skipped,
		})
	}
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseIntCell(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	// "12,0" gibi hücreler için ondalığı at
	if i := strings.IndexAny(s, ",."); i >= 0 {
		s = s[:i]
	}
	return strconv.Atoi(s)
}
