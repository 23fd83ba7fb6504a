package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"taja-cart/internal/cart"
	"taja-cart/internal/cartsync"
	"taja-cart/internal/config"
	"taja-cart/internal/logger"
	"taja-cart/internal/remote"
	"taja-cart/internal/storage"

	"go.uber.org/zap"
)

// cartsync runs one merge-then-hydrate cycle against the cart API and prints
// the resulting totals. Intended for smoke-testing a staging backend.
func main() {
	tokenFlag := flag.String("token", "", "access token (overrides CART_TOKEN)")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	token := cfg.CartToken
	if *tokenFlag != "" {
		token = *tokenFlag
	}
	if token == "" {
		fmt.Fprintln(os.Stderr, "no token given: set CART_TOKEN or pass -token")
		os.Exit(1)
	}

	snap, cleanup := buildSnapshot(cfg)
	defer cleanup()

	store := cart.NewStore(snap)
	svc := remote.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	orch := cartsync.NewOrchestrator(store, svc)

	logger.L().Info("starting cart sync",
		zap.String("api", cfg.APIBaseURL),
		zap.String("backend", cfg.StorageBackend),
		zap.Int("local_items", store.TotalItems()),
	)

	orch.Observe(context.Background(), token)

	fmt.Printf("cart: %d items, total %d\n", store.TotalItems(), store.TotalPrice())
	for _, it := range store.Items() {
		fmt.Printf("  %s x%d  %s (%d each)\n", it.ProductID, it.Quantity, it.Title, it.UnitPrice)
	}
}

func buildSnapshot(cfg *config.Config) (cart.Snapshot, func()) {
	if cfg.StorageBackend == "redis" {
		snap := storage.NewRedisSnapshot(cfg.RedisAddr, cfg.DeviceID)
		if !snap.Ping(context.Background()) {
			logger.L().Warn("redis unreachable, cart persistence degraded",
				zap.String("addr", cfg.RedisAddr))
		}
		return snap, func() { _ = snap.Close() }
	}
	return storage.NewFileSnapshot(cfg.CartFilePath), func() {}
}
