package main

import (
	"strings"

	"maxdoors-backend/internal/activity"
	"maxdoors-backend/internal/auth"
	"maxdoors-backend/internal/catalog"
	"maxdoors-backend/internal/config"
	"maxdoors-backend/internal/database"
	"maxdoors-backend/internal/dealer"
	"maxdoors-backend/internal/finance"
	"maxdoors-backend/internal/models"
	"maxdoors-backend/internal/order"
	"maxdoors-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			config.Log().WithError(err).Error("Beklenmeyen hata")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den temizleyerek geçir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Kullanıcı yönetimi (sadece admin)
	adminOnly := auth.RequireRole(models.RoleAdmin)
	protected.Post("/users", adminOnly, auth.CreateUserHandler())

	// Katalog: okunması herkese açık, yazma admin/muhasebeci
	catalogWrite := auth.RequireRole(models.RoleAdmin, models.RoleAccountant)
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Post("/products", catalogWrite, catalog.CreateProductHandler())
	protected.Put("/products/:id", catalogWrite, catalog.UpdateProductHandler())
	protected.Delete("/products/:id", adminOnly, catalog.DeleteProductHandler())

	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Post("/categories", catalogWrite, catalog.CreateCategoryHandler())
	protected.Get("/regions", catalog.ListRegionsHandler())
	protected.Post("/regions", catalogWrite, catalog.CreateRegionHandler())
	protected.Get("/suppliers", catalog.ListSuppliersHandler())
	protected.Post("/suppliers", catalogWrite, catalog.CreateSupplierHandler())

	// Stok: girişler admin/muhasebeci, okumalar tüm roller
	stockWrite := auth.RequireRole(models.RoleAdmin, models.RoleAccountant)
	protected.Post("/stock-entries", stockWrite, stock.CreateStockEntryHandler())
	protected.Get("/stock-entries", stock.ListStockEntriesHandler())
	protected.Post("/return-entries", stockWrite, stock.CreateReturnEntryHandler())
	protected.Get("/return-entries", stock.ListReturnEntriesHandler())
	protected.Post("/stock/defect-in", stockWrite, stock.DefectInHandler())
	protected.Post("/stock/defect-out", stockWrite, stock.DefectOutHandler())
	protected.Post("/stock/import", adminOnly, stock.ImportStockHandler())
	protected.Get("/stock-logs", stock.ListStockLogHandler())
	protected.Get("/stock/reconcile", adminOnly, stock.ReconcileStockHandler())

	// Bayiler
	protected.Get("/dealers", dealer.ListDealersHandler())
	protected.Get("/dealers/:id", dealer.GetDealerHandler())
	protected.Post("/dealers", catalogWrite, dealer.CreateDealerHandler())
	protected.Put("/dealers/:id", catalogWrite, dealer.UpdateDealerHandler())
	protected.Post("/dealers/:id/balance-adjustments",
		auth.RequireRole(models.RoleAdmin, models.RoleOwner), dealer.AdjustBalanceHandler())
	protected.Get("/dealers/:id/balance-adjustments", dealer.ListBalanceAdjustmentsHandler())

	// Siparişler: oluşturma admin/yönetici, silme sadece admin
	orderCreate := auth.RequireRole(models.RoleAdmin, models.RoleManager)
	protected.Post("/orders", orderCreate, order.CreateOrderHandler())
	protected.Get("/orders", order.ListOrdersHandler())
	protected.Get("/orders/:id", order.GetOrderHandler())
	protected.Put("/orders/:id/status", order.UpdateOrderStatusHandler())
	protected.Delete("/orders/:id", adminOnly, order.DeleteOrderHandler())

	protected.Post("/orders/:id/items", orderCreate, order.CreateOrderItemHandler())
	protected.Put("/order-items/:id", orderCreate, order.UpdateOrderItemHandler())
	protected.Delete("/order-items/:id", orderCreate, order.DeleteOrderItemHandler())

	// Düzenleme talepleri: talep yönetici, onay/ret admin
	protected.Post("/order-edit-requests", orderCreate, order.CreateEditRequestHandler())
	protected.Put("/order-edit-requests/:id/approve", adminOnly, order.ApproveEditRequestHandler())
	protected.Put("/order-edit-requests/:id/reject", adminOnly, order.RejectEditRequestHandler())

	// Finans: ödemeler ve kurlar
	financeWrite := auth.RequireRole(models.RoleAdmin, models.RoleAccountant)
	protected.Post("/payments", financeWrite, finance.CreatePaymentHandler())
	protected.Get("/payments", finance.ListPaymentsHandler())
	protected.Delete("/payments/:id", adminOnly, finance.DeletePaymentHandler())
	protected.Post("/fx-rates", financeWrite, finance.UpsertFxRateHandler())
	protected.Get("/fx-rates", finance.ListFxRatesHandler())
	protected.Get("/fx-rates/latest", finance.LatestFxRateHandler())

	// Aktivite kayıtları
	protected.Get("/activity-logs", activity.ListActivityLogsHandler())

	config.Log().WithField("port", cfg.HTTPPort).Info("Sunucu çalışıyor")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		config.Log().Fatal(err)
	}
}
