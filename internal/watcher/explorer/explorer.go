package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"

	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
)

const providerTimeout = 15 * time.Second

type txOutput struct {
	Addresses []string `json:"addresses"`
	Value     int64    `json:"value"`
}

type txResponse struct {
	Confirmations int64      `json:"confirmations"`
	Outputs       []txOutput `json:"outputs"`
}

// explorer verifies UTXO-style transfers through a BlockCypher-compatible
// explorer API. The credited amount of the matched output is converted from
// the chain's smallest unit to whole coins.
type explorer struct {
	client *http.Client
	logger *logger.Logger
}

func New(logger *logger.Logger) IWatcher {
	return &explorer{
		client: &http.Client{Timeout: providerTimeout},
		logger: logger,
	}
}

func (e *explorer) Verify(ctx context.Context, txHash, address string, cfg model.NetworkConfig) (*model.VerificationOutcome, error) {
	txHash = strings.TrimSpace(txHash)
	if _, err := chainhash.NewHashFromStr(txHash); err != nil {
		return nil, errors.Wrapf(err, "invalid transaction hash %q", txHash)
	}

	reqURL := fmt.Sprintf("%s/txs/%s", strings.TrimRight(cfg.BaseURL, "/"), txHash)
	if cfg.APIKey != "" {
		reqURL = fmt.Sprintf("%s?token=%s", reqURL, url.QueryEscape(cfg.APIKey))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch transaction")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		e.logger.Warn("[Verify] explorer returned non-200", map[string]string{
			"statusCode": fmt.Sprintf("%d", resp.StatusCode),
			"txHash":     txHash,
		})
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var tx txResponse
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, errors.Wrap(err, "failed to parse transaction payload")
	}

	outcome := &model.VerificationOutcome{
		Confirmations: tx.Confirmations,
		Meta:          json.RawMessage(body),
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return outcome, nil
	}

	for _, output := range tx.Outputs {
		for _, outputAddr := range output.Addresses {
			if outputAddr == address {
				outcome.MatchedAddress = true
				amount := btcutil.Amount(output.Value).ToBTC()
				outcome.Amount = &amount
				break
			}
		}
		if outcome.MatchedAddress {
			break
		}
	}

	outcome.Confirmed = outcome.MatchedAddress && tx.Confirmations >= cfg.MinConfirmations

	return outcome, nil
}
