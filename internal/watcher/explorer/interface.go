package explorer

import (
	"context"

	"github.com/vaultpay/chainwatch/internal/model"
)

type IWatcher interface {
	Verify(ctx context.Context, txHash, address string, cfg model.NetworkConfig) (*model.VerificationOutcome, error)
}
