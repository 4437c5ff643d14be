package model

// Strategy selects the verification adapter used for a canonical network.
// New chain families require a new constant and adapter, which keeps the set
// of supported protocols closed and reviewable.
type Strategy string

const (
	StrategyExplorer      Strategy = "explorer"
	StrategyEvmRPC        Strategy = "evm-rpc"
	StrategyAccountLedger Strategy = "account-ledger"
)

// NetworkConfig is the per-network verification configuration. It is loaded
// once at process start and read-only afterwards.
type NetworkConfig struct {
	Strategy         Strategy
	BaseURL          string
	APIKey           string
	MinConfirmations int64
}
