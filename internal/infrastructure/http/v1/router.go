// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"inventra/internal/core/tx"
	"inventra/internal/domain/auth"
	"inventra/internal/domain/catalogs/category"
	"inventra/internal/domain/catalogs/customer"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/catalogs/supplier"
	"inventra/internal/domain/orders"
	"inventra/internal/domain/stock"
	"inventra/internal/infrastructure/http/v1/dto"
	"inventra/internal/infrastructure/http/v1/handlers"
	"inventra/internal/infrastructure/http/v1/middleware"
	"inventra/internal/infrastructure/storage/postgres"
	"inventra/pkg/logger"
)

// RouterConfig holds the dependencies of the HTTP API.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	TxManager    tx.Manager
	JWTValidator middleware.JWTValidator

	AuthService     *auth.Service
	CustomerService *customer.Service
	SupplierService *supplier.Service
	CategoryService *category.Service
	ProductService  *product.Service
	OrderService    *orders.Service
	StockAllocator  *stock.Allocator
	Audit           *postgres.AuditService

	// RateLimit is optional; nil disables limiting.
	RateLimit gin.HandlerFunc
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	if cfg.RateLimit != nil {
		router.Use(cfg.RateLimit)
	}

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, base, cfg)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, base, cfg)
		registerOrderRoutes(protected, base, cfg)
		registerStockRoutes(protected, base, cfg)
	}

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	public := rg.Group("/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	{
		protected.GET("/me", authHandler.Me)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	customerHandler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]{
		Service:    cfg.CustomerService.CatalogService,
		EntityName: "customer",
		MapCreateDTO: func(r dto.CreateCustomerRequest) *customer.Customer {
			return r.ToEntity()
		},
		MapUpdateDTO: func(r dto.UpdateCustomerRequest, existing *customer.Customer) *customer.Customer {
			r.ApplyTo(existing)
			return existing
		},
	})

	supplierHandler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]{
		Service:    cfg.SupplierService.CatalogService,
		EntityName: "supplier",
		MapCreateDTO: func(r dto.CreateSupplierRequest) *supplier.Supplier {
			return r.ToEntity()
		},
		MapUpdateDTO: func(r dto.UpdateSupplierRequest, existing *supplier.Supplier) *supplier.Supplier {
			r.ApplyTo(existing)
			return existing
		},
	})

	categoryHandler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]{
		Service:    cfg.CategoryService.CatalogService,
		EntityName: "category",
		MapCreateDTO: func(r dto.CreateCategoryRequest) *category.Category {
			return r.ToEntity()
		},
		MapUpdateDTO: func(r dto.UpdateCategoryRequest, existing *category.Category) *category.Category {
			r.ApplyTo(existing)
			return existing
		},
	})

	productHandler := handlers.NewProductHandler(base, cfg.ProductService)
	orderHandler := handlers.NewOrderHandler(base, cfg.OrderService, cfg.Audit)

	customers := rg.Group("/customers")
	{
		customers.GET("", customerHandler.List)
		customers.POST("", customerHandler.Create)
		customers.GET("/:id", customerHandler.Get)
		customers.PUT("/:id", customerHandler.Update)
		customers.PATCH("/:id/deletion-mark", customerHandler.SetDeletionMark)
		customers.GET("/:id/orders", orderHandler.ListByCustomer)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.GET("", supplierHandler.List)
		suppliers.POST("", supplierHandler.Create)
		suppliers.GET("/:id", supplierHandler.Get)
		suppliers.PUT("/:id", supplierHandler.Update)
		suppliers.PATCH("/:id/deletion-mark", supplierHandler.SetDeletionMark)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", categoryHandler.Create)
		categories.GET("/:id", categoryHandler.Get)
		categories.PUT("/:id", categoryHandler.Update)
		categories.PATCH("/:id/deletion-mark", categoryHandler.SetDeletionMark)
	}

	products := rg.Group("/products")
	{
		products.GET("", productHandler.List)
		products.POST("", productHandler.Create)
		products.GET("/pool", productHandler.Pool)
		products.GET("/low-stock", productHandler.LowStock)
		products.GET("/:id", productHandler.Get)
		products.PUT("/:id", productHandler.Update)
		products.PATCH("/:id/deletion-mark", productHandler.SetDeletionMark)
	}
}

func registerOrderRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	orderHandler := handlers.NewOrderHandler(base, cfg.OrderService, cfg.Audit)

	ordersGroup := rg.Group("/orders")
	{
		ordersGroup.GET("", orderHandler.List)
		ordersGroup.POST("", orderHandler.Create)
		ordersGroup.GET("/batch", orderHandler.GetByIDs)
		ordersGroup.GET("/:id", orderHandler.Get)
		ordersGroup.GET("/:id/history", orderHandler.History)
		ordersGroup.PATCH("/:id/status", orderHandler.UpdateStatus)
		ordersGroup.POST("/:id/complete", orderHandler.Complete)
		ordersGroup.POST("/:id/cancel", orderHandler.Cancel)
		ordersGroup.GET("/:id/items", orderHandler.ListItems)
		ordersGroup.POST("/:id/items", orderHandler.AddItem)
		ordersGroup.DELETE("/:id/items/:itemId", orderHandler.RemoveItem)
	}
}

func registerStockRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	stockHandler := handlers.NewStockHandler(base, cfg.StockAllocator, cfg.TxManager)

	stockGroup := rg.Group("/stock")
	{
		stockGroup.GET("/:id/availability", stockHandler.Availability)
		stockGroup.POST("/:id/reduce", stockHandler.Reduce)
		stockGroup.POST("/:id/restore", stockHandler.Restore)
		stockGroup.POST("/:id/increase", stockHandler.Increase)
	}
}
