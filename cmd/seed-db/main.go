// Command seed-db loads the development dataset: the grocery catalog, demo
// coupons, a demo customer with a wallet balance, a delivery partner, and an
// API key bound to the customer.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/greenbasket/greenbasket/internal/domain/auth"
	"github.com/greenbasket/greenbasket/internal/domain/coupon"
	"github.com/greenbasket/greenbasket/internal/domain/customer"
	"github.com/greenbasket/greenbasket/internal/domain/partner"
	"github.com/greenbasket/greenbasket/internal/handler"
	"github.com/greenbasket/greenbasket/internal/repository"
)

func main() {
	var (
		databaseURL  string
		productsFile string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or BASKET_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or BASKET_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("BASKET_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or BASKET_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("BASKET_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, repository.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedCoupons(ctx, repository.NewCouponRepository(pool)); err != nil {
		return errors.Wrap(err, "seed coupons")
	}
	if err := seedCustomer(ctx, repository.NewCustomerRepository(pool)); err != nil {
		return errors.Wrap(err, "seed customer")
	}
	if err := seedPartner(ctx, repository.NewPartnerRepository(pool)); err != nil {
		return errors.Wrap(err, "seed partner")
	}
	if err := seedAPIKey(ctx, repository.NewAPIKeyRepository(pool), apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedCoupons(ctx context.Context, repo *repository.CouponRepository) error {
	slog.Info("seeding demo coupons")

	coupons := []coupon.Rule{
		{
			Code:          "FIRST50",
			DiscountType:  coupon.DiscountPercentage,
			Value:         decimal.NewFromInt(50),
			MaxDiscount:   decimal.NewFromInt(100),
			MinOrderValue: decimal.NewFromInt(199),
			Description:   "First order: 50% off up to 100",
		},
		{
			Code:          "SAVE10",
			DiscountType:  coupon.DiscountPercentage,
			Value:         decimal.NewFromInt(10),
			MaxDiscount:   decimal.NewFromInt(80),
			Description:   "10% off, capped at 80",
		},
		{
			Code:          "FLAT75",
			DiscountType:  coupon.DiscountFlat,
			Value:         decimal.NewFromInt(75),
			MinOrderValue: decimal.NewFromInt(500),
			Description:   "Flat 75 off on orders above 500",
		},
	}

	for i := range coupons {
		if err := repo.Upsert(ctx, &coupons[i], true); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", coupons[i].Code)
		}
		slog.Info("upserted coupon", slog.String("code", coupons[i].Code))
	}
	return nil
}

func seedCustomer(ctx context.Context, repo *repository.CustomerRepository) error {
	slog.Info("seeding demo customer")

	c := customer.Customer{
		ID:            "demo-customer",
		Name:          "Demo Customer",
		Email:         "demo@greenbasket.test",
		WalletBalance: decimal.NewFromInt(250),
	}
	if err := repo.Upsert(ctx, &c); err != nil {
		return errors.Wrap(err, "upsert demo customer")
	}
	return nil
}

func seedPartner(ctx context.Context, repo *repository.PartnerRepository) error {
	slog.Info("seeding demo delivery partner")

	p := partner.Partner{
		ID:            "partner-1",
		Name:          "Ravi Kumar",
		Phone:         "9876543210",
		VehicleType:   "bike",
		VehicleNumber: "KA01AB1234",
		IsOnline:      true,
		IsAvailable:   true,
		Earnings:      decimal.Zero,
		Rating:        decimal.Zero,
	}
	if err := repo.Upsert(ctx, &p); err != nil {
		return errors.Wrap(err, "upsert demo partner")
	}
	return nil
}

func seedAPIKey(ctx context.Context, repo *repository.APIKeyRepository, apiKey, pepper string) error {
	slog.Info("seeding default API key")

	info := auth.APIKeyInfo{
		ID:         "default",
		KeyHash:    handler.HashKey(apiKey, []byte(pepper)),
		Name:       "Default test key",
		CustomerID: "demo-customer",
		Scopes:     []string{"cart", "orders", "addresses", "partners"},
	}
	if err := repo.Upsert(ctx, &info, true); err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", info.ID), slog.String("name", info.Name))
	return nil
}
