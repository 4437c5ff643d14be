package evmrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/types/environments"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
)

const (
	testTxHash    = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
	recipient     = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	recipientSlug = "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	otherAddress  = "0xb794F5eA0ba39494cE839613fffBA74279579268"
)

// newRPCServer answers eth_getTransactionReceipt with the given receipt JSON
// ("null" for not mined) and eth_blockNumber with head.
func newRPCServer(t *testing.T, receiptJSON string, head uint64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result string
		switch req.Method {
		case "eth_getTransactionReceipt":
			result = receiptJSON
		case "eth_blockNumber":
			result = fmt.Sprintf(`"0x%x"`, head)
		default:
			t.Fatalf("unexpected method %s", req.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%s}`, req.ID, result)
	}))
}

func verify(t *testing.T, server *httptest.Server, address string, minConf int64) (*model.VerificationOutcome, error) {
	t.Helper()
	w := New(logger.New(environments.Test))
	return w.Verify(context.Background(), testTxHash, address, model.NetworkConfig{
		Strategy:         model.StrategyEvmRPC,
		BaseURL:          server.URL,
		MinConfirmations: minConf,
	})
}

func TestVerify_NotYetMined(t *testing.T) {
	server := newRPCServer(t, "null", 100)
	defer server.Close()

	outcome, err := verify(t, server, recipient, 3)
	require.NoError(t, err)
	assert.False(t, outcome.Confirmed)
	assert.False(t, outcome.MatchedAddress)
	assert.Equal(t, int64(0), outcome.Confirmations)
	assert.Empty(t, outcome.Meta)
}

func TestVerify_FailedOnChain(t *testing.T) {
	receipt := fmt.Sprintf(`{"status":"0x0","to":"%s","blockNumber":"0x5f","logs":[]}`, recipient)
	server := newRPCServer(t, receipt, 100)
	defer server.Close()

	outcome, err := verify(t, server, recipient, 3)
	require.NoError(t, err)
	assert.False(t, outcome.Confirmed)
	assert.False(t, outcome.MatchedAddress)
	assert.Equal(t, int64(0), outcome.Confirmations)
	assert.NotEmpty(t, outcome.Meta)
}

func TestVerify_DirectRecipientMatch(t *testing.T) {
	// Provider reports the recipient lowercase; the claim is mixed case.
	receipt := fmt.Sprintf(`{"status":"0x1","to":"0x%s","blockNumber":"0x5d","logs":[]}`, recipientSlug)
	server := newRPCServer(t, receipt, 100)
	defer server.Close()

	outcome, err := verify(t, server, recipient, 5)
	require.NoError(t, err)
	assert.True(t, outcome.MatchedAddress)
	assert.Equal(t, int64(7), outcome.Confirmations)
	assert.True(t, outcome.Confirmed)
}

func TestVerify_AddressNormalization(t *testing.T) {
	receipt := fmt.Sprintf(`{"status":"0x1","to":"%s","blockNumber":"0x5d","logs":[]}`, recipient)
	server := newRPCServer(t, receipt, 100)
	defer server.Close()

	// Claim supplied lowercase and unprefixed must still match.
	outcome, err := verify(t, server, recipientSlug, 3)
	require.NoError(t, err)
	assert.True(t, outcome.MatchedAddress)
	assert.True(t, outcome.Confirmed)
}

func TestVerify_TransferLogMatch(t *testing.T) {
	receipt := fmt.Sprintf(`{
		"status": "0x1",
		"to": "%s",
		"blockNumber": "0x5d",
		"logs": [{
			"topics": [
				"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
				"0x000000000000000000000000b794f5ea0ba39494ce839613fffba74279579268",
				"0x000000000000000000000000%s"
			]
		}]
	}`, otherAddress, recipientSlug)
	server := newRPCServer(t, receipt, 100)
	defer server.Close()

	outcome, err := verify(t, server, recipient, 3)
	require.NoError(t, err)
	assert.True(t, outcome.MatchedAddress)
	assert.True(t, outcome.Confirmed)
}

func TestVerify_MismatchNeverConfirms(t *testing.T) {
	receipt := fmt.Sprintf(`{"status":"0x1","to":"%s","blockNumber":"0x1","logs":[]}`, otherAddress)
	server := newRPCServer(t, receipt, 1000)
	defer server.Close()

	outcome, err := verify(t, server, recipient, 1)
	require.NoError(t, err)
	assert.False(t, outcome.MatchedAddress)
	assert.False(t, outcome.Confirmed)
	assert.Equal(t, int64(999), outcome.Confirmations)
}

func TestVerify_ThresholdBoundary(t *testing.T) {
	receipt := fmt.Sprintf(`{"status":"0x1","to":"%s","blockNumber":"0x62","logs":[]}`, recipient)

	tests := []struct {
		name      string
		head      uint64
		confirmed bool
	}{
		{name: "below threshold", head: 0x63, confirmed: false},
		{name: "at threshold", head: 0x64, confirmed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newRPCServer(t, receipt, tt.head)
			defer server.Close()

			outcome, err := verify(t, server, recipient, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.confirmed, outcome.Confirmed)
		})
	}
}

func TestVerify_ConfirmationsFlooredAtZero(t *testing.T) {
	// Head behind the receipt block, as seen around provider load balancers.
	receipt := fmt.Sprintf(`{"status":"0x1","to":"%s","blockNumber":"0x64","logs":[]}`, recipient)
	server := newRPCServer(t, receipt, 0x60)
	defer server.Close()

	outcome, err := verify(t, server, recipient, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), outcome.Confirmations)
	assert.True(t, outcome.MatchedAddress)
}

func TestVerify_MalformedExpectedAddress(t *testing.T) {
	receipt := fmt.Sprintf(`{"status":"0x1","to":"%s","blockNumber":"0x5d","logs":[]}`, recipient)
	server := newRPCServer(t, receipt, 100)
	defer server.Close()

	outcome, err := verify(t, server, "definitely-not-an-address", 1)
	require.NoError(t, err)
	assert.False(t, outcome.MatchedAddress)
	assert.False(t, outcome.Confirmed)
}

func TestVerify_InvalidTxHash(t *testing.T) {
	server := newRPCServer(t, "null", 100)
	defer server.Close()

	w := New(logger.New(environments.Test))
	outcome, err := w.Verify(context.Background(), "0x1234", recipient, model.NetworkConfig{
		BaseURL:          server.URL,
		MinConfirmations: 1,
	})
	require.Error(t, err)
	assert.Nil(t, outcome)
}

func TestVerify_MissingEndpoint(t *testing.T) {
	w := New(logger.New(environments.Test))
	outcome, err := w.Verify(context.Background(), testTxHash, recipient, model.NetworkConfig{
		MinConfirmations: 1,
	})
	require.Error(t, err)
	assert.Nil(t, outcome)
}
