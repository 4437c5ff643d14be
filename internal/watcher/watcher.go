package watcher

import (
	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
	"github.com/vaultpay/chainwatch/internal/watcher/accountledger"
	"github.com/vaultpay/chainwatch/internal/watcher/evmrpc"
	"github.com/vaultpay/chainwatch/internal/watcher/explorer"
)

type Set struct {
	watchers map[model.Strategy]IWatcher
}

// New builds the closed set of supported verification strategies.
func New(logger *logger.Logger) *Set {
	return &Set{
		watchers: map[model.Strategy]IWatcher{
			model.StrategyExplorer:      explorer.New(logger),
			model.StrategyEvmRPC:        evmrpc.New(logger),
			model.StrategyAccountLedger: accountledger.New(logger),
		},
	}
}

func (s *Set) Resolve(strategy model.Strategy) (IWatcher, bool) {
	w, ok := s.watchers[strategy]
	return w, ok
}
