// Package main is the entry point for the Inventra API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"inventra/internal/config"
	"inventra/internal/domain/alerting"
	"inventra/internal/domain/auth"
	"inventra/internal/domain/catalogs/category"
	"inventra/internal/domain/catalogs/customer"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/catalogs/supplier"
	"inventra/internal/domain/orders"
	"inventra/internal/domain/stock"
	v1 "inventra/internal/infrastructure/http/v1"
	"inventra/internal/infrastructure/http/v1/middleware"
	"inventra/internal/infrastructure/storage/postgres"
	"inventra/internal/infrastructure/storage/postgres/auth_repo"
	"inventra/internal/infrastructure/storage/postgres/catalog_repo"
	"inventra/internal/infrastructure/storage/postgres/order_repo"
	"inventra/pkg/logger"
	"inventra/pkg/numerator"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infow("starting inventra server", "env", cfg.App.Env)

	// Database
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.DSN())
	poolCfg.MaxConns = cfg.DB.MaxConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	// Repositories
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	orderRepo := order_repo.NewOrderRepo(txManager, auditService)
	userRepo := auth_repo.NewUserRepo(txManager)

	// Catalog services
	customerService := customer.NewService(customerRepo, txManager)
	supplierService := supplier.NewService(supplierRepo, txManager)
	categoryService := category.NewService(categoryRepo, txManager)
	numberService := numerator.New(postgres.NewTxQuerier(txManager))
	productService := product.NewService(productRepo, supplierService, categoryService, numberService, txManager)

	// Stock and alerting
	allocator := stock.NewAllocator(productRepo)

	rule, err := alerting.CompileRule(cfg.Alerting.RuleExpr)
	if err != nil {
		log.Fatalw("invalid alert rule expression", "expr", cfg.Alerting.RuleExpr, "error", err)
	}
	notifier := alerting.NewNotifier(rule, postgres.NewOutboxPublisher(txManager))

	// Orders
	orderService := orders.NewService(orders.Config{
		Repo:      orderRepo,
		Products:  productRepo,
		Allocator: allocator,
		Customers: customerService,
		Suppliers: supplierService,
		Numbers:   numberService,
		Notifier:  notifier,
		TxManager: txManager,
	})

	// Auth
	jwtCfg := auth.DefaultJWTConfig(cfg.Auth.JWTSecret)
	jwtCfg.AccessTokenTTL = cfg.Auth.AccessTokenTTL
	jwtService := auth.NewJWTService(jwtCfg)
	authService := auth.NewService(userRepo, jwtService, txManager)

	// Rate limiting (optional)
	var rateLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		var redisClient *redis.Client
		if cfg.Redis.Enabled {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer func() { _ = redisClient.Close() }()
		}

		rateLimit, err = middleware.RateLimit(cfg.RateLimit.Rate, redisClient)
		if err != nil {
			log.Fatalw("invalid rate limit format", "rate", cfg.RateLimit.Rate, "error", err)
		}
	}

	router := v1.NewRouter(v1.RouterConfig{
		Pool:   pool,
		Logger: log,

		TxManager:    txManager,
		JWTValidator: jwtService,

		AuthService:     authService,
		CustomerService: customerService,
		SupplierService: supplierService,
		CategoryService: categoryService,
		ProductService:  productService,
		OrderService:    orderService,
		StockAllocator:  allocator,
		Audit:           auditService,

		RateLimit: rateLimit,
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("http server listening", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}

	log.Info("server stopped")
}
