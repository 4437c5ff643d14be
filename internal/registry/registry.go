package registry

import (
	"strings"

	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/utils/config"
)

// networkAliases maps the free-form labels customers and older order rows
// carry to canonical network keys. Labels are matched after trimming and
// uppercasing.
var networkAliases = map[string]string{
	"BTC":          "BITCOIN",
	"BITCOIN":      "BITCOIN",
	"BTC MAINNET":  "BITCOIN",
	"ERC20":        "ERC20",
	"ETH":          "ERC20",
	"ETHEREUM":     "ERC20",
	"BEP20":        "BEP20",
	"BSC":          "BEP20",
	"BSC (BEP-20)": "BEP20",
	"POLYGON":      "POLYGON",
	"MATIC":        "POLYGON",
	"ARBITRUM":     "ARBITRUM",
	"AVALANCHE":    "AVALANCHE",
	"AVAX":         "AVALANCHE",
	"TRC20":        "TRC20",
	"TRON":         "TRC20",
	"SOLANA":       "SOLANA",
}

// Registry resolves a network label on a sell transaction to the
// verification configuration of its canonical network. It is immutable after
// construction; adding a network is a deployment change.
type Registry struct {
	networks map[string]model.NetworkConfig
}

func New(appConfig *config.AppConfig) *Registry {
	networks := make(map[string]model.NetworkConfig, len(appConfig.Blockchain.Networks))
	for key, cfg := range appConfig.Blockchain.Networks {
		networks[Normalize(key)] = cfg
	}

	return &Registry{networks: networks}
}

// Normalize canonicalizes a free-form network label. Unknown labels pass
// through normalized so callers can still log them.
func Normalize(label string) string {
	key := strings.ToUpper(strings.TrimSpace(label))
	if canonical, ok := networkAliases[key]; ok {
		return canonical
	}

	return key
}

// Resolve returns the network configuration for a label. A false return
// means "no verification strategy for this network"; callers skip the record
// rather than failing.
func (r *Registry) Resolve(label string) (model.NetworkConfig, bool) {
	cfg, ok := r.networks[Normalize(label)]
	if !ok {
		return model.NetworkConfig{}, false
	}

	return cfg, true
}
