package server

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/vaultpay/chainwatch/internal/monitoring"
	"github.com/vaultpay/chainwatch/internal/reconcile"
	"github.com/vaultpay/chainwatch/internal/registry"
	"github.com/vaultpay/chainwatch/internal/store"
	pgstore "github.com/vaultpay/chainwatch/internal/store/postgres"
	"github.com/vaultpay/chainwatch/internal/transport/http"
	"github.com/vaultpay/chainwatch/internal/utils/config"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
	"github.com/vaultpay/chainwatch/internal/watcher"
)

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)
	s := store.New()
	reg := registry.New(appConfig)

	metricsRegistry := prometheus.NewRegistry()
	metrics := monitoring.NewReconcileMetrics(metricsRegistry)

	watchers := monitoring.NewInstrumentedResolver(watcher.New(logger), metrics, logger)
	engine := reconcile.New(db, s, logger, reg, watchers, metrics)

	timeout, err := time.ParseDuration(appConfig.Reconcile.Timeout)
	if err != nil {
		timeout = 90 * time.Second
	}

	c := cron.New()
	_, err = c.AddFunc(fmt.Sprintf("@every %s", appConfig.Reconcile.Interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		checked, confirmed := engine.Run(ctx, appConfig.Reconcile.BatchLimit)
		logger.Info("[reconcile] cycle finished", map[string]string{
			"checked":   strconv.Itoa(checked),
			"confirmed": strconv.Itoa(confirmed),
		})
	})
	if err != nil {
		logger.Fatal("failed to schedule reconcile job", map[string]string{
			"error": err.Error(),
		})
	}
	c.Start()

	httpServer := http.NewHttpServer(appConfig, logger, engine, s, db, metricsRegistry)

	httpServer.Run()
}
