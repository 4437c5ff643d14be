package monitoring

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
	"github.com/vaultpay/chainwatch/internal/watcher"
)

const (
	breakerOpenTimeout      = 60 * time.Second
	breakerFailureThreshold = 5
)

// instrumentedWatcher decorates a verification watcher with provider-call
// metrics and a circuit breaker. An open breaker short-circuits to an error,
// which the reconciliation loop already treats as inconclusive, so a dead
// provider costs one rejected call instead of a hanging request per record.
type instrumentedWatcher struct {
	next     watcher.IWatcher
	strategy model.Strategy
	breaker  *gobreaker.CircuitBreaker
	metrics  *ReconcileMetrics
	logger   *logger.Logger
}

func (w *instrumentedWatcher) Verify(ctx context.Context, txHash, address string, cfg model.NetworkConfig) (*model.VerificationOutcome, error) {
	start := time.Now()

	result, err := w.breaker.Execute(func() (interface{}, error) {
		return w.next.Verify(ctx, txHash, address, cfg)
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	if w.metrics != nil {
		w.metrics.ObserveProviderCall(string(w.strategy), status, time.Since(start).Seconds())
	}

	if err != nil {
		return nil, err
	}

	return result.(*model.VerificationOutcome), nil
}

// InstrumentedResolver wraps every watcher of the underlying resolver.
type InstrumentedResolver struct {
	next    watcher.IResolver
	metrics *ReconcileMetrics
	logger  *logger.Logger

	wrapped map[model.Strategy]watcher.IWatcher
}

func NewInstrumentedResolver(next watcher.IResolver, metrics *ReconcileMetrics, logger *logger.Logger) *InstrumentedResolver {
	r := &InstrumentedResolver{
		next:    next,
		metrics: metrics,
		logger:  logger,
		wrapped: make(map[model.Strategy]watcher.IWatcher),
	}

	for _, strategy := range []model.Strategy{
		model.StrategyExplorer,
		model.StrategyEvmRPC,
		model.StrategyAccountLedger,
	} {
		w, ok := next.Resolve(strategy)
		if !ok {
			continue
		}
		r.wrapped[strategy] = &instrumentedWatcher{
			next:     w,
			strategy: strategy,
			breaker:  r.newBreaker(strategy),
			metrics:  metrics,
			logger:   logger,
		}
	}

	return r
}

func (r *InstrumentedResolver) Resolve(strategy model.Strategy) (watcher.IWatcher, bool) {
	w, ok := r.wrapped[strategy]
	return w, ok
}

func (r *InstrumentedResolver) newBreaker(strategy model.Strategy) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    string(strategy),
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.Warn("[circuitBreaker] state change", map[string]string{
				"strategy": name,
				"from":     from.String(),
				"to":       to.String(),
			})
			if r.metrics != nil {
				r.metrics.SetBreakerState(name, breakerStateValue(to))
			}
		},
	})
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
