// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"inventra/internal/config"
	"inventra/internal/core/id"
	"inventra/internal/core/types"
	"inventra/internal/infrastructure/storage/postgres"
	"inventra/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN()))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		txManager := postgres.NewTxManager(pool)
		if err := seedDemoData(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@inventra.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now().UTC()

	_, err = pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, full_name,
			is_active, is_admin, roles, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, 'System Admin', true, true, '{admin}', $4, $4, 1)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return nil
}

func seedDemoData(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	log.Info("seeding demo data...")

	now := time.Now().UTC()
	categoryID := id.New()
	supplierA := id.New()
	supplierB := id.New()

	executor := postgres.NewBatchExecutor(txManager)
	inserter := postgres.NewBatchInserter(txManager)

	var inserted int64
	err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		catalogs := []postgres.BatchQuery{
			{
				SQL: `INSERT INTO cat_categories (id, code, name, description, version, deletion_mark, created_at, updated_at)
					VALUES ($1, 'CAT-001', 'Electronics', 'Consumer electronics', 1, false, $2, $2)
					ON CONFLICT (code) DO NOTHING`,
				Args: []any{categoryID, now},
			},
			{
				SQL: `INSERT INTO cat_suppliers (id, code, name, contact_number, email, version, deletion_mark, created_at, updated_at)
					VALUES ($1, 'SUP-001', 'Acme Distribution', '+1-202-555-0134', 'orders@acme-dist.example', 1, false, $2, $2)
					ON CONFLICT (code) DO NOTHING`,
				Args: []any{supplierA, now},
			},
			{
				SQL: `INSERT INTO cat_suppliers (id, code, name, contact_number, email, version, deletion_mark, created_at, updated_at)
					VALUES ($1, 'SUP-002', 'Northline Traders', '+1-202-555-0188', 'sales@northline.example', 1, false, $2, $2)
					ON CONFLICT (code) DO NOTHING`,
				Args: []any{supplierB, now},
			},
			{
				SQL: `INSERT INTO cat_customers (id, code, name, contact_number, email, version, deletion_mark, created_at, updated_at)
					VALUES ($1, 'CUS-001', 'Walk-in Counter', '+1-202-555-0101', 'counter@inventra.local', 1, false, $2, $2)
					ON CONFLICT (code) DO NOTHING`,
				Args: []any{id.New(), now},
			},
		}

		if err := executor.ExecuteBatch(ctx, catalogs); err != nil {
			return fmt.Errorf("insert catalogs: %w", err)
		}

		// Two rows of the same logical product from different
		// suppliers, so pooled availability has something to pool.
		columns := []string{
			"id", "code", "name", "brand", "category_id", "supplier_id",
			"actual_price", "selling_price", "discount",
			"stock_quantity", "quantity_sold", "low_stock_threshold",
			"version", "deletion_mark", "created_at", "updated_at",
		}
		rows := [][]any{
			{id.New(), "PRD-001", "Wireless Mouse", "Logi", categoryID, supplierA,
				types.NewMoney(12.50), types.NewMoney(19.99), types.NewMoney(0),
				40, 0, 10, 1, false, now, now},
			{id.New(), "PRD-002", "Wireless Mouse", "Logi", categoryID, supplierB,
				types.NewMoney(11.80), types.NewMoney(19.99), types.NewMoney(0),
				25, 0, 10, 1, false, now, now},
			{id.New(), "PRD-003", "USB-C Cable 1m", "Ankr", categoryID, supplierA,
				types.NewMoney(2.10), types.NewMoney(5.99), types.NewMoney(0),
				120, 0, 20, 1, false, now, now},
		}

		var err error
		inserted, err = inserter.CopyFromSlice(ctx, "cat_products", columns, rows)
		if err != nil {
			return fmt.Errorf("insert products: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infow("demo data seeded", "products", inserted)
	return nil
}
