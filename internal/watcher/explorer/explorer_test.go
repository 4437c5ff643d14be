package explorer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/types/environments"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
	"github.com/vaultpay/chainwatch/internal/watcher/explorer"
)

func TestExplorer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Explorer Watcher Suite")
}

const (
	testTxHash  = "f854aebae95150b379cc1187d848d58225f3c4157fe992bcd166f58bd5063449"
	testAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
)

var _ = Describe("Explorer Watcher", func() {
	var (
		testLogger *logger.Logger
		server     *httptest.Server
		requests   []string
	)

	BeforeEach(func() {
		testLogger = logger.New(environments.Test)
		requests = nil
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	newServer := func(statusCode int, body string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.URL.String())
			w.WriteHeader(statusCode)
			w.Write([]byte(body))
		}))
	}

	verify := func(address string, minConf int64, apiKey string) (*model.VerificationOutcome, error) {
		w := explorer.New(testLogger)
		return w.Verify(context.Background(), testTxHash, address, model.NetworkConfig{
			Strategy:         model.StrategyExplorer,
			BaseURL:          server.URL,
			APIKey:           apiKey,
			MinConfirmations: minConf,
		})
	}

	Context("confirmed transaction with matching output", func() {
		It("should confirm at the threshold and extract the credited amount", func() {
			server = newServer(http.StatusOK, `{
				"confirmations": 2,
				"outputs": [
					{"addresses": ["1BoatSLRHtKNngkdXEeobR76b53LETtpyT"], "value": 120000},
					{"addresses": ["`+testAddress+`"], "value": 500000}
				]
			}`)

			outcome, err := verify(testAddress, 2, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Confirmed).To(BeTrue())
			Expect(outcome.MatchedAddress).To(BeTrue())
			Expect(outcome.Confirmations).To(Equal(int64(2)))
			Expect(outcome.Amount).NotTo(BeNil())
			Expect(*outcome.Amount).To(BeNumerically("~", 0.005, 1e-9))
			Expect(outcome.Meta).NotTo(BeEmpty())
		})

		It("should not confirm one confirmation below the threshold", func() {
			server = newServer(http.StatusOK, `{
				"confirmations": 1,
				"outputs": [{"addresses": ["`+testAddress+`"], "value": 500000}]
			}`)

			outcome, err := verify(testAddress, 2, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Confirmed).To(BeFalse())
			Expect(outcome.MatchedAddress).To(BeTrue())
			Expect(outcome.Confirmations).To(Equal(int64(1)))
		})

		It("should pass the API key as a token query parameter", func() {
			server = newServer(http.StatusOK, `{"confirmations": 0, "outputs": []}`)

			_, err := verify(testAddress, 1, "secret-token")
			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(1))
			Expect(requests[0]).To(ContainSubstring("/txs/" + testTxHash))
			Expect(requests[0]).To(ContainSubstring("token=secret-token"))
		})
	})

	Context("address mismatch", func() {
		It("should never confirm regardless of confirmation depth", func() {
			server = newServer(http.StatusOK, `{
				"confirmations": 100,
				"outputs": [{"addresses": ["1BoatSLRHtKNngkdXEeobR76b53LETtpyT"], "value": 500000}]
			}`)

			outcome, err := verify(testAddress, 1, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Confirmed).To(BeFalse())
			Expect(outcome.MatchedAddress).To(BeFalse())
			Expect(outcome.Amount).To(BeNil())
		})

		It("should fail closed on an empty expected address", func() {
			server = newServer(http.StatusOK, `{
				"confirmations": 100,
				"outputs": [{"addresses": [""], "value": 500000}]
			}`)

			outcome, err := verify("   ", 1, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Confirmed).To(BeFalse())
			Expect(outcome.MatchedAddress).To(BeFalse())
		})
	})

	Context("provider errors", func() {
		It("should return an error on a non-200 response", func() {
			server = newServer(http.StatusTooManyRequests, `{"error": "rate limited"}`)

			outcome, err := verify(testAddress, 1, "")
			Expect(err).To(HaveOccurred())
			Expect(outcome).To(BeNil())
		})

		It("should return an error on a malformed payload", func() {
			server = newServer(http.StatusOK, `{"confirmations": `)

			outcome, err := verify(testAddress, 1, "")
			Expect(err).To(HaveOccurred())
			Expect(outcome).To(BeNil())
		})

		It("should reject a malformed transaction hash without calling the provider", func() {
			server = newServer(http.StatusOK, `{}`)

			w := explorer.New(testLogger)
			outcome, err := w.Verify(context.Background(), "not-a-hash", testAddress, model.NetworkConfig{
				BaseURL:          server.URL,
				MinConfirmations: 1,
			})
			Expect(err).To(HaveOccurred())
			Expect(outcome).To(BeNil())
			Expect(requests).To(BeEmpty())
		})
	})
})
