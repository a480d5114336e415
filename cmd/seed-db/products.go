package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/greenbasket/greenbasket/internal/domain/product"
	"github.com/greenbasket/greenbasket/internal/repository"
)

type productJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Unit     string          `json:"unit"`
	Stock    int             `json:"stock"`
	Image    struct {
		Thumbnail string `json:"thumbnail"`
		Mobile    string `json:"mobile"`
		Tablet    string `json:"tablet"`
		Desktop   string `json:"desktop"`
	} `json:"image"`
}

func seedProducts(ctx context.Context, repo *repository.ProductRepository, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, pj := range products {
		p := product.Product{
			ID:       pj.ID,
			Name:     pj.Name,
			Price:    pj.Price,
			Category: pj.Category,
			Unit:     pj.Unit,
			Stock:    pj.Stock,
			Image: product.Image{
				Thumbnail: pj.Image.Thumbnail,
				Mobile:    pj.Image.Mobile,
				Tablet:    pj.Image.Tablet,
				Desktop:   pj.Image.Desktop,
			},
		}
		if err := repo.Upsert(ctx, &p); err != nil {
			return errors.Wrapf(err, "upsert product %s", pj.ID)
		}
		slog.Info("upserted product", slog.String("id", pj.ID), slog.String("name", pj.Name))
	}
	return nil
}
