package selltransaction

import (
	"gorm.io/gorm"

	"github.com/vaultpay/chainwatch/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) FindPendingSells(db *gorm.DB, limit int) ([]model.SellTransaction, error) {
	var txs []model.SellTransaction
	err := db.
		Where("type = ?", model.TransactionTypeSell).
		Where("status = ?", model.SellTransactionStatusPending).
		Where("crypto_tx_hash <> ''").
		Order("last_chain_check ASC NULLS FIRST").
		Order("created_at ASC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (s *store) Update(db *gorm.DB, tx *model.SellTransaction, columns ...string) error {
	return db.Model(tx).Select(columns).Updates(tx).Error
}
