package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/auth"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	UserUC          *usecase.UserUseCase
	SupplierUC      *usecase.SupplierUseCase
	CategoryUC      *usecase.CategoryUseCase
	ActivityUC      *usecase.ActivityUseCase
	ProductUC       *inventory.ProductUseCase
	OrderUC         *inventory.ReceiveOrderUseCase
	AllocationUC    *inventory.AllocationUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	Clock           inventory.Clock
	JWTSecret       string
	Log             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	clock := deps.Clock
	if clock == nil {
		clock = inventory.SystemClock(nil)
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", withLogger(log))

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token de un usuario activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveUser(deps.UserUC))
	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/change-password", authHandler.ChangePassword)

	warehouse := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	seller := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	admin := RequireRole(entity.RoleAdmin)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC, clock)
	suppliers.Post("/", warehouse, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", warehouse, supplierHandler.Update)
	suppliers.Delete("/:id", admin, supplierHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, clock)
	categories.Post("/", warehouse, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", warehouse, categoryHandler.Update)
	categories.Delete("/:id", admin, categoryHandler.Delete)

	// Users (administración)
	users := protected.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC, deps.AuthUC, clock)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	users.Post("/:id/enable", userHandler.Enable)
	users.Post("/:id/reset-password", userHandler.ResetPassword)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, clock)
	products.Post("/", warehouse, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", warehouse, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)
	products.Get("/:id/stock", productHandler.Stock)
	products.Get("/:id/ledger", productHandler.Ledger)

	// Orders (recepción)
	orders := protected.Group("/orders", warehouse)
	orderHandler := NewOrderHandler(deps.OrderUC, clock)
	orders.Post("/", orderHandler.Receive)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/items", orderHandler.AddItems)
	orders.Delete("/:id", orderHandler.Delete)

	// Sales (asignación FIFO)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.AllocationUC, clock)
	sales.Post("/", seller, saleHandler.Create)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/items", seller, saleHandler.Allocate)
	sales.Delete("/:id", seller, saleHandler.Delete)
	protected.Delete("/sale-items/:id", seller, saleHandler.ReverseItem)

	// Consultas transversales
	inventoryHandler := NewInventoryHandler(deps.ReplenishmentUC, deps.ActivityUC)
	protected.Get("/inventory/replenishment-list", warehouse, inventoryHandler.GetReplenishmentList)
	protected.Get("/activity-logs", admin, inventoryHandler.ListActivityLogs)
}
