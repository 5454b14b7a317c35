package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taller3d/printforge-api/internal/application/auth"
	"github.com/taller3d/printforge-api/internal/application/catalog"
	"github.com/taller3d/printforge-api/internal/application/inventory"
	"github.com/taller3d/printforge-api/internal/application/orders"
	"github.com/taller3d/printforge-api/internal/application/quotes"
	"github.com/taller3d/printforge-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	CatalogUC    *catalog.UseCase
	LedgerUC     *inventory.LedgerUseCase
	AllocationUC *inventory.AllocationUseCase
	OrdersUC     *orders.UseCase
	QuotesUC     *quotes.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Galería y cotizaciones (público): catálogo de solo lectura y precios
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	api.Get("/materials", catalogHandler.ListMaterials)
	api.Get("/filaments", catalogHandler.ListFilaments)
	api.Get("/models", catalogHandler.ListModels)
	api.Get("/models/:id", catalogHandler.GetModel)

	quoteHandler := NewQuoteHandler(deps.QuotesUC)
	api.Post("/quotes", quoteHandler.Quote)
	api.Post("/quotes/pdf", quoteHandler.QuotePDF)

	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	api.Get("/inventory/available", inventoryHandler.AvailableLots)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Pedidos e ítems (cualquier usuario autenticado; GetOrder filtra por dueño)
	orderHandler := NewOrderHandler(deps.OrdersUC, deps.AllocationUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/items", orderHandler.ListItems)
	ordersGroup.Get("/:id/status", orderHandler.StatusHistory)

	items := protected.Group("/items")
	items.Post("/", orderHandler.CommitItem)
	items.Put("/:id", orderHandler.RequantifyItem)
	items.Delete("/:id", orderHandler.ReleaseItem)

	protected.Get("/shipping", orderHandler.ListShipping)

	// Rutas de administración (solo owner)
	owner := protected.Group("/", RequireRole(entity.RoleOwner))

	owner.Post("/materials", catalogHandler.CreateMaterial)
	owner.Post("/filaments", catalogHandler.CreateFilament)
	owner.Post("/suppliers", catalogHandler.CreateSupplier)
	owner.Get("/suppliers", catalogHandler.ListSuppliers)
	owner.Post("/models", catalogHandler.CreateModel)

	invGroup := owner.Group("/inventory")
	invGroup.Post("/lots", inventoryHandler.ReceiveLot)
	invGroup.Get("/lots", inventoryHandler.ListLots)
	invGroup.Get("/lots/:id", inventoryHandler.GetLot)
	invGroup.Put("/lots/:id", inventoryHandler.UpdateLot)
	invGroup.Get("/lots/:id/history", inventoryHandler.History)

	owner.Post("/shipping", orderHandler.CreateShipping)
	owner.Post("/orders/:id/status", orderHandler.AppendStatus)
}
