package evmrpc

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
)

const providerTimeout = 15 * time.Second

// erc20TransferTopic is the event signature of Transfer(address,address,uint256).
// The recipient is the third topic.
var erc20TransferTopic = common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")

type receiptLog struct {
	Topics []common.Hash `json:"topics"`
}

type receipt struct {
	Status      *hexutil.Uint64 `json:"status"`
	To          *common.Address `json:"to"`
	BlockNumber *hexutil.Big    `json:"blockNumber"`
	Logs        []receiptLog    `json:"logs"`
}

// evmrpc verifies transfers on EVM chains over plain JSON-RPC. One client is
// cached per endpoint so that all networks sharing a strategy reuse
// connections.
type evmrpc struct {
	logger *logger.Logger

	mu      sync.Mutex
	clients map[string]*ethrpc.Client
}

func New(logger *logger.Logger) IWatcher {
	return &evmrpc{
		logger:  logger,
		clients: make(map[string]*ethrpc.Client),
	}
}

func (e *evmrpc) client(ctx context.Context, endpoint string) (*ethrpc.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.clients[endpoint]; ok {
		return c, nil
	}

	c, err := ethrpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial rpc endpoint")
	}
	e.clients[endpoint] = c

	return c, nil
}

func (e *evmrpc) Verify(ctx context.Context, txHash, address string, cfg model.NetworkConfig) (*model.VerificationOutcome, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("no rpc endpoint configured")
	}

	txHash = strings.TrimSpace(txHash)
	if !isTxHash(txHash) {
		return nil, errors.Errorf("invalid transaction hash %q", txHash)
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	client, err := e.client(ctx, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := client.CallContext(ctx, &raw, "eth_getTransactionReceipt", common.HexToHash(txHash)); err != nil {
		return nil, errors.Wrap(err, "eth_getTransactionReceipt failed")
	}

	// Not yet mined: inconclusive, never confirmed.
	if len(raw) == 0 || string(raw) == "null" {
		return &model.VerificationOutcome{}, nil
	}

	var rcpt receipt
	if err := json.Unmarshal(raw, &rcpt); err != nil {
		return nil, errors.Wrap(err, "failed to parse receipt")
	}

	// Reverted on-chain: a definitive negative, not an error.
	if rcpt.Status == nil || *rcpt.Status != 1 {
		return &model.VerificationOutcome{Meta: raw}, nil
	}

	matched := matchRecipient(&rcpt, address)

	var confirmations int64
	if rcpt.BlockNumber != nil {
		var head hexutil.Uint64
		if err := client.CallContext(ctx, &head, "eth_blockNumber"); err != nil {
			return nil, errors.Wrap(err, "eth_blockNumber failed")
		}

		txBlock := rcpt.BlockNumber.ToInt().Int64()
		confirmations = int64(head) - txBlock
		if confirmations < 0 {
			confirmations = 0
		}
	}

	return &model.VerificationOutcome{
		Confirmed:      matched && confirmations >= cfg.MinConfirmations,
		Confirmations:  confirmations,
		MatchedAddress: matched,
		Meta:           raw,
	}, nil
}

// matchRecipient reports whether the expected address is the direct
// recipient of the transaction or the destination of an ERC-20 Transfer
// event. Comparison happens on canonical 20-byte addresses, so provider
// formatting (case, prefix, topic padding) is irrelevant.
func matchRecipient(rcpt *receipt, address string) bool {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return false
	}
	expected := common.HexToAddress(address)

	if rcpt.To != nil && *rcpt.To == expected {
		return true
	}

	for _, log := range rcpt.Logs {
		if len(log.Topics) >= 3 && log.Topics[0] == erc20TransferTopic {
			if common.BytesToAddress(log.Topics[2].Bytes()) == expected {
				return true
			}
		}
	}

	return false
}

func isTxHash(s string) bool {
	if !strings.HasPrefix(s, "0x") {
		return false
	}
	if len(s) != 2+2*common.HashLength {
		return false
	}
	for _, c := range s[2:] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}

	return true
}
