package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/vaultpay/chainwatch/internal/reconcile"
	"github.com/vaultpay/chainwatch/internal/registry"
	"github.com/vaultpay/chainwatch/internal/store"
	pgstore "github.com/vaultpay/chainwatch/internal/store/postgres"
	"github.com/vaultpay/chainwatch/internal/utils/config"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
	"github.com/vaultpay/chainwatch/internal/watcher"
)

// One-shot reconciliation run for external schedulers and operators.
func main() {
	limit := flag.Int("limit", 0, "maximum transactions to check this run")
	flag.Parse()

	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)
	s := store.New()
	reg := registry.New(appConfig)
	engine := reconcile.New(db, s, logger, reg, watcher.New(logger), nil)

	batchLimit := *limit
	if batchLimit <= 0 {
		batchLimit = appConfig.Reconcile.BatchLimit
	}

	timeout, err := time.ParseDuration(appConfig.Reconcile.Timeout)
	if err != nil {
		timeout = 90 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	checked, confirmed := engine.Run(ctx, batchLimit)
	fmt.Printf("Checked %d transactions, confirmed %d.\n", checked, confirmed)
}
