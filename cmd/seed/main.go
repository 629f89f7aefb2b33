// Command seed loads a small demo data set: three customers, three products
// and one order.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/config"
	"github.com/Raymond9734/crm-backend/internal/db"
	"github.com/Raymond9734/crm-backend/internal/logging"
	"github.com/Raymond9734/crm-backend/internal/repository"
	"github.com/Raymond9734/crm-backend/internal/service"
)

func main() {
	reset := flag.Bool("reset", true, "clear existing customers, products and orders first")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Database.Driver == config.DriverMemory {
		logger.Error("seeding needs a database, DB_DRIVER is memory")
		os.Exit(1)
	}

	database, err := db.New(db.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx); err != nil {
		logger.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *reset {
		logger.Info("clearing existing data")
		if err := database.Reset(ctx); err != nil {
			logger.Error("failed to clear data", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := seed(ctx, repository.NewStore(database.DB), logger); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("database seeding completed")
}

func seed(ctx context.Context, store repository.Store, logger *slog.Logger) error {
	customers := service.NewCustomerService(store, logger)
	products := service.NewProductService(store, logger)
	orders := service.NewOrderService(store, logger)

	alicePhone, bobPhone := "+1234567890", "123-456-7890"
	created, err := customers.BulkCreate(ctx, []service.CustomerInput{
		{Name: "Alice", Email: "alice@example.com", Phone: &alicePhone},
		{Name: "Bob", Email: "bob@example.com", Phone: &bobPhone},
		{Name: "Carol", Email: "carol@example.com"},
	})
	if err != nil {
		return err
	}
	for _, reason := range created.Errors {
		logger.Warn("customer skipped", slog.String("reason", reason))
	}
	logger.Info("seeded customers", slog.Int("count", len(created.Customers)))

	var productIDs []int64
	for _, in := range []service.ProductInput{
		{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
		{Name: "Mouse", Price: decimal.RequireFromString("25.50"), Stock: 50},
		{Name: "Keyboard", Price: decimal.RequireFromString("45.00"), Stock: 30},
	} {
		product, err := products.Create(ctx, in)
		if err != nil {
			return err
		}
		productIDs = append(productIDs, product.ID)
	}
	logger.Info("seeded products", slog.Int("count", len(productIDs)))

	alice, err := store.Customers().GetByEmail(ctx, "alice@example.com")
	if err != nil {
		return err
	}

	// Laptop and Mouse
	order, err := orders.Create(ctx, service.OrderInput{
		CustomerID: alice.ID,
		ProductIDs: productIDs[:2],
	})
	if err != nil {
		return err
	}
	logger.Info("seeded sample order",
		slog.Int64("order_id", order.ID),
		slog.String("total_amount", order.TotalAmount.StringFixed(2)),
	)

	return nil
}
