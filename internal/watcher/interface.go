package watcher

import (
	"context"

	"github.com/vaultpay/chainwatch/internal/model"
)

// IWatcher verifies one customer-claimed transfer against a third-party
// chain data provider.
//
// A returned error means the check was inconclusive (transport failure,
// provider throttling, malformed payload, timeout); callers must not change
// confirmation state on it. A returned outcome is definitive for this cycle,
// including negative ones.
type IWatcher interface {
	Verify(ctx context.Context, txHash, address string, cfg model.NetworkConfig) (*model.VerificationOutcome, error)
}

// IResolver maps a verification strategy to its watcher.
type IResolver interface {
	Resolve(strategy model.Strategy) (IWatcher, bool)
}
