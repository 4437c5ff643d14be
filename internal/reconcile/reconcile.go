package reconcile

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/monitoring"
	"github.com/vaultpay/chainwatch/internal/registry"
	"github.com/vaultpay/chainwatch/internal/store"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
	"github.com/vaultpay/chainwatch/internal/watcher"
)

// Reconciler applies provider verification outcomes to pending sell
// transactions. Records are processed sequentially; each one is updated
// independently, so a crash or cancellation mid-batch leaves at worst a
// stale last_chain_check, corrected on the next invocation.
type Reconciler struct {
	db       *gorm.DB
	store    *store.Store
	logger   *logger.Logger
	registry *registry.Registry
	watchers watcher.IResolver
	metrics  *monitoring.ReconcileMetrics
}

func New(
	db *gorm.DB,
	store *store.Store,
	logger *logger.Logger,
	registry *registry.Registry,
	watchers watcher.IResolver,
	metrics *monitoring.ReconcileMetrics,
) IReconciler {
	return &Reconciler{
		db:       db,
		store:    store,
		logger:   logger,
		registry: registry,
		watchers: watchers,
		metrics:  metrics,
	}
}

func (r *Reconciler) Run(ctx context.Context, limit int) (int, int) {
	start := time.Now()

	txs, err := r.store.SellTransaction.FindPendingSells(r.db, limit)
	if err != nil {
		r.logger.Error("[Run][FindPendingSells]", map[string]string{
			"error": err.Error(),
		})
		return 0, 0
	}

	checked, confirmed := 0, 0
	for i := range txs {
		if ctx.Err() != nil {
			r.logger.Warn("[Run] invocation cancelled, partial progress stands")
			break
		}

		if r.process(ctx, &txs[i]) {
			checked++
			if txs[i].Status == model.SellTransactionStatusCryptoConfirmed {
				confirmed++
			}
		}
	}

	if r.metrics != nil {
		r.metrics.ObserveCycle(time.Since(start).Seconds(), checked, confirmed)
	}

	return checked, confirmed
}

// process handles one record and reports whether a watcher was invoked.
// Records skipped before verification (no address, unknown network,
// unimplemented strategy) are left untouched, including last_chain_check.
func (r *Reconciler) process(ctx context.Context, tx *model.SellTransaction) bool {
	if strings.TrimSpace(tx.WalletAddress) == "" {
		return false
	}

	cfg, ok := r.registry.Resolve(tx.Network)
	if !ok {
		r.logger.Debug("[process] no watcher configured for network", map[string]string{
			"network": tx.Network,
		})
		return false
	}

	w, ok := r.watchers.Resolve(cfg.Strategy)
	if !ok {
		r.logger.Warn("[process] unknown watcher strategy", map[string]string{
			"strategy": string(cfg.Strategy),
			"network":  tx.Network,
		})
		return false
	}

	outcome, err := w.Verify(ctx, tx.CryptoTxHash, tx.WalletAddress, cfg)

	now := time.Now()
	tx.LastChainCheck = &now

	if err != nil {
		// Inconclusive: advance last_chain_check so this record does not
		// crowd out others next cycle, change nothing else.
		r.logger.Warn("[process] provider check inconclusive", map[string]string{
			"network": tx.Network,
			"txHash":  tx.CryptoTxHash,
			"error":   err.Error(),
		})
		if err := r.store.SellTransaction.Update(r.db, tx, "last_chain_check"); err != nil {
			r.logger.Error("[process][Update] failed to touch last_chain_check", map[string]string{
				"error": err.Error(),
			})
		}
		return true
	}

	columns := []string{"last_chain_check", "confirmations"}
	tx.Confirmations = outcome.Confirmations

	if len(outcome.Meta) > 0 {
		tx.ChainMetadata = outcome.Meta
		columns = append(columns, "chain_metadata")
	}
	if outcome.Amount != nil {
		tx.VerifiedAmount = outcome.Amount
		columns = append(columns, "verified_amount")
	}

	if outcome.Confirmed && outcome.MatchedAddress {
		if tx.ConfirmedAt == nil {
			confirmedAt := now
			tx.ConfirmedAt = &confirmedAt
			columns = append(columns, "confirmed_at")
		}
		tx.Status = model.SellTransactionStatusCryptoConfirmed
		columns = append(columns, "status")
	}

	if err := r.store.SellTransaction.Update(r.db, tx, columns...); err != nil {
		r.logger.Error("[process][Update] failed to persist outcome", map[string]string{
			"network": tx.Network,
			"txHash":  tx.CryptoTxHash,
			"error":   err.Error(),
		})
		// The in-memory transition must not count as confirmed.
		tx.Status = model.SellTransactionStatusPending
		return true
	}

	if tx.Status == model.SellTransactionStatusCryptoConfirmed {
		r.logger.Info("[process] sell transaction confirmed", map[string]string{
			"network":       tx.Network,
			"txHash":        tx.CryptoTxHash,
			"confirmations": strconv.FormatInt(tx.Confirmations, 10),
		})
	}

	return true
}
