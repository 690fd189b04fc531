package catalog

import (
	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NameRequest struct {
	Name string `json:"name"`
}

type SupplierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

// POST /api/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body NameRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori adı zorunlu")
		}

		category := models.Category{Name: body.Name}
		if err := database.DB.Create(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Kategori oluşturulamadı (isim benzersiz olmalı)")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "category",
			EntityID:   category.ID,
			Action:     models.ActivityActionCreate,
			After:      category,
		})

		return c.Status(fiber.StatusCreated).JSON(category)
	}
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}
		return c.JSON(categories)
	}
}

// POST /api/regions
func CreateRegionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body NameRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Bölge adı zorunlu")
		}

		region := models.Region{Name: body.Name}
		if err := database.DB.Create(&region).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Bölge oluşturulamadı (isim benzersiz olmalı)")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "region",
			EntityID:   region.ID,
			Action:     models.ActivityActionCreate,
			After:      region,
		})

		return c.Status(fiber.StatusCreated).JSON(region)
	}
}

// GET /api/regions
func ListRegionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var regions []models.Region
		if err := database.DB.Order("name ASC").Find(&regions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bölgeler listelenemedi")
		}
		return c.JSON(regions)
	}
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi adı zorunlu")
		}

		supplier := models.Supplier{Name: body.Name, Phone: body.Phone, Note: body.Note}
		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Tedarikçi oluşturulamadı (isim benzersiz olmalı)")
		}

		_ = activity.Write(activity.LogOptions{
			UserID:     userID,
			UserName:   activity.UserName(userID),
			EntityType: "supplier",
			EntityID:   supplier.ID,
			Action:     models.ActivityActionCreate,
			After:      supplier,
		})

		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("name ASC").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçiler listelenemedi")
		}
		return c.JSON(suppliers)
	}
}
