package catalog

import (
	"fmt"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductRequest struct {
	Name       string `json:"name"`
	Barcode    string `json:"barcode"`
	CategoryID *uint  `json:"category_id"`
	SupplierID *uint  `json:"supplier_id"`
}

// POST /api/products
// Stok sayaçları ve ortalama maliyet burada girilmez; sadece stok
// hareketleriyle değişirler.
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı zorunlu")
		}

		var existing models.Product
		if err := database.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu isimde bir ürün zaten var")
		}

		if body.CategoryID != nil {
			var cat models.Category
			if err := database.DB.First(&cat, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
			}
		}
		if body.SupplierID != nil {
			var sup models.Supplier
			if err := database.DB.First(&sup, "id = ?", *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi bulunamadı")
			}
		}

		product := models.Product{
			Name:       body.Name,
			Barcode:    body.Barcode,
			CategoryID: body.CategoryID,
			SupplierID: body.SupplierID,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "product",
			EntityID:   product.ID,
			Action:     models.ActivityActionCreate,
			After:      product,
		})

		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := product

		if body.Name != "" {
			product.Name = body.Name
		}
		product.Barcode = body.Barcode
		if body.CategoryID != nil {
			product.CategoryID = body.CategoryID
		}
		if body.SupplierID != nil {
			product.SupplierID = body.SupplierID
		}

		// stock_ok / stock_defect / avg_cost_usd bilinçli olarak güncelleme dışında
		if err := database.DB.Model(&models.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"name":        product.Name,
				"barcode":     product.Barcode,
				"category_id": product.CategoryID,
				"supplier_id": product.SupplierID,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "product",
			EntityID:   product.ID,
			Action:     models.ActivityActionUpdate,
			Before:     before,
			After:      product,
		})

		return c.JSON(product)
	}
}

// GET /api/products?category_id=1&supplier_id=2&q=panel
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{})

		if cidStr := c.Query("category_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err == nil && cid > 0 {
				dbq = dbq.Where("category_id = ?", cid)
			}
		}
		if sidStr := c.Query("supplier_id"); sidStr != "" {
			var sid uint
			if _, err := fmt.Sscan(sidStr, &sid); err == nil && sid > 0 {
				dbq = dbq.Where("supplier_id = ?", sid)
			}
		}
		if q := c.Query("q"); q != "" {
			dbq = dbq.Where("name ILIKE ? OR barcode = ?", "%"+q+"%", q)
		}

		var products []models.Product
		if err := dbq.Order("name ASC").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}
		return c.JSON(products)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		return c.JSON(product)
	}
}

// DELETE /api/products/:id
// Stok hareketi görmüş ürün silinemez; ürünün geçmişi defteri tutar.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var logCount int64
		database.DB.Model(&models.StockLog{}).Where("product_id = ?", product.ID).Count(&logCount)
		if logCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Stok hareketi olan ürün silinemez")
		}

		if err := database.DB.Delete(&models.Product{}, product.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "product",
			EntityID:   product.ID,
			Action:     models.ActivityActionDelete,
			After:      product,
		})

		return c.JSON(fiber.Map{"deleted": product.ID})
	}
}
