package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeSell TransactionType = "sell"
	TransactionTypeBuy  TransactionType = "buy"
)

type SellTransactionStatus string

const (
	// SellTransactionStatusPending is the state set by order creation; the
	// reconciliation engine only selects records in this state.
	SellTransactionStatusPending SellTransactionStatus = "pending"

	// SellTransactionStatusCryptoConfirmed is terminal for the engine. The
	// transition is forward-only and never reverted here.
	SellTransactionStatusCryptoConfirmed SellTransactionStatus = "crypto_confirmed"

	// Remaining states are owned by the payout and admin collaborators.
	SellTransactionStatusPayoutInitiated SellTransactionStatus = "payout_initiated"
	SellTransactionStatusCompleted       SellTransactionStatus = "completed"
	SellTransactionStatusRejected        SellTransactionStatus = "rejected"
)

// SellTransaction is the durable record of a customer-claimed crypto sale.
// The engine reads the claim fields and writes only status, confirmations,
// chain metadata, verified amount and the two timestamps; fiat amount, fees
// and vendor linkage belong to the order collaborator.
type SellTransaction struct {
	gorm.Model
	Type           TransactionType       `gorm:"column:type;type:varchar(10);not null"`
	Network        string                `gorm:"column:network;type:varchar(50);not null"`
	CryptoTxHash   string                `gorm:"column:crypto_tx_hash;type:varchar(255)"`
	WalletAddress  string                `gorm:"column:wallet_address;type:varchar(255)"`
	Status         SellTransactionStatus `gorm:"column:status;type:varchar(50);default:'pending'"`
	Confirmations  int64                 `gorm:"column:confirmations;not null;default:0"`
	VerifiedAmount *float64              `gorm:"column:verified_amount"`
	ChainMetadata  json.RawMessage       `gorm:"column:chain_metadata;type:jsonb"`
	LastChainCheck *time.Time            `gorm:"column:last_chain_check"`
	ConfirmedAt    *time.Time            `gorm:"column:confirmed_at"`
}

func (SellTransaction) TableName() string {
	return "sell_transactions"
}
