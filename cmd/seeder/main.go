package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/niksmo/storefront/pkg/slug"
)

const seedTimeout = 30 * time.Second

func main() {
	sigCtx, stop := sigctx.NotifyContext(context.Background())
	defer stop()

	ctx, cancel := context.WithTimeout(sigCtx, seedTimeout)
	defer cancel()

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(
		os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel},
	)))

	sqldb, err := storage.NewSQLDB(ctx, cfg.SQLDB)
	if err != nil {
		fallDown(err)
	}
	defer sqldb.Close()

	if err := seed(ctx, sqldb); err != nil {
		fallDown(err)
	}
	slog.Info("seeding completed",
		"categories", len(categories),
		"products", len(products),
		"zones", len(zones),
	)
}

func seed(ctx context.Context, sqldb storage.SQLDB) error {
	catalog := storage.NewCatalogRepository(sqldb)
	shipping := storage.NewShippingRepository(sqldb)

	if err := catalog.StoreCategories(ctx, categories); err != nil {
		return err
	}

	if err := catalog.StoreProducts(ctx, withSlugs(products)); err != nil {
		return err
	}

	for _, zs := range zones {
		zone, err := shipping.StoreZone(ctx, zs.zone)
		if err != nil {
			return err
		}
		methods := make([]domain.ShippingMethod, len(zs.methods))
		for i, m := range zs.methods {
			m.ZoneID = zone.ID
			methods[i] = m
		}
		if err := shipping.StoreMethods(ctx, methods); err != nil {
			return err
		}
	}
	return nil
}

func withSlugs(ps []domain.Product) []domain.Product {
	taken := make(map[string]bool, len(ps))
	exists := func(s string) bool { return taken[s] }

	out := make([]domain.Product, len(ps))
	for i, p := range ps {
		p.Slug = slug.Unique(slug.Make(p.Name), exists)
		taken[p.Slug] = true
		out[i] = p
	}
	return out
}

func fallDown(err error) {
	fmt.Fprintf(os.Stderr, "failed to seed: %v\n", err)
	os.Exit(2)
}
