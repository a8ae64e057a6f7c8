package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/audit"
	"github.com/jhoicas/almacen-api/internal/application/bulk"
	"github.com/jhoicas/almacen-api/internal/application/item"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC    *item.UseCase
	Engine    *bulk.Engine
	StockUC   *stock.UseCase
	AuditUC   *audit.UseCase
	ReportUC  *report.UseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todo va protegido con Bearer Token;
// las mutaciones por lote y las bajas requieren además rol de bodega.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	bulkHandler := NewBulkHandler(deps.Engine)
	stockHandler := NewStockHandler(deps.StockUC)
	items.Post("/bulk", RequireRole("admin", "bodeguero"), bulkHandler.Mutate)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", RequireRole("admin", "bodeguero"), itemHandler.Delete)
	items.Post("/:id/stock", RequireRole("admin", "bodeguero"), stockHandler.Adjust)

	// Transacciones de stock (protegido)
	transactions := protected.Group("/transactions")
	transactions.Post("/", RequireRole("admin", "bodeguero"), stockHandler.PostTransaction)

	// Audit log (protegido, sólo lectura)
	auditGroup := protected.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.List)

	// Reportes (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/low-stock", reportHandler.LowStock)
}
