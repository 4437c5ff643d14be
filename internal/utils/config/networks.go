package config

import (
	"os"

	"github.com/vaultpay/chainwatch/internal/model"
)

// BlockchainConfig holds the verification configuration of every canonical
// network the platform accepts sell transfers on. Unset RPC endpoints leave
// the network configured but unverifiable; the reconciliation loop skips
// such records until deployment provides an endpoint.
type BlockchainConfig struct {
	Networks map[string]model.NetworkConfig
}

func newBlockchainConfig() BlockchainConfig {
	return BlockchainConfig{
		Networks: map[string]model.NetworkConfig{
			"BITCOIN": {
				Strategy:         model.StrategyExplorer,
				BaseURL:          envVarDefault("BITCOIN_EXPLORER_API_URL", "https://api.blockcypher.com/v1/btc/main"),
				APIKey:           os.Getenv("BLOCKCYPHER_TOKEN"),
				MinConfirmations: int64(envVarAtoiDefault("BITCOIN_MIN_CONFIRMATIONS", 1)),
			},
			"ERC20": {
				Strategy:         model.StrategyEvmRPC,
				BaseURL:          os.Getenv("ETHEREUM_RPC_ENDPOINT"),
				MinConfirmations: int64(envVarAtoiDefault("ERC20_MIN_CONFIRMATIONS", 3)),
			},
			"BEP20": {
				Strategy:         model.StrategyEvmRPC,
				BaseURL:          os.Getenv("BSC_RPC_ENDPOINT"),
				MinConfirmations: int64(envVarAtoiDefault("BEP20_MIN_CONFIRMATIONS", 3)),
			},
			"POLYGON": {
				Strategy:         model.StrategyEvmRPC,
				BaseURL:          os.Getenv("POLYGON_RPC_ENDPOINT"),
				MinConfirmations: int64(envVarAtoiDefault("POLYGON_MIN_CONFIRMATIONS", 3)),
			},
			"ARBITRUM": {
				Strategy:         model.StrategyEvmRPC,
				BaseURL:          os.Getenv("ARBITRUM_RPC_ENDPOINT"),
				MinConfirmations: int64(envVarAtoiDefault("ARBITRUM_MIN_CONFIRMATIONS", 3)),
			},
			"AVALANCHE": {
				Strategy:         model.StrategyEvmRPC,
				BaseURL:          os.Getenv("AVALANCHE_RPC_ENDPOINT"),
				MinConfirmations: int64(envVarAtoiDefault("AVALANCHE_MIN_CONFIRMATIONS", 3)),
			},
			"TRC20": {
				Strategy:         model.StrategyAccountLedger,
				BaseURL:          envVarDefault("TRONGRID_API_URL", "https://api.trongrid.io"),
				APIKey:           os.Getenv("TRONGRID_API_KEY"),
				MinConfirmations: int64(envVarAtoiDefault("TRC20_MIN_CONFIRMATIONS", 1)),
			},
		},
	}
}
