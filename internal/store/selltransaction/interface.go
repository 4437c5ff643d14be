package selltransaction

import (
	"gorm.io/gorm"

	"github.com/vaultpay/chainwatch/internal/model"
)

type IStore interface {
	// FindPendingSells returns up to limit pending sell records with a
	// claimed transaction hash, least-recently-checked first so no record
	// starves behind a noisy provider.
	FindPendingSells(db *gorm.DB, limit int) ([]model.SellTransaction, error)

	// Update persists only the named columns of tx. The engine never writes
	// fields outside its contract, so every write goes through an explicit
	// column list.
	Update(db *gorm.DB, tx *model.SellTransaction, columns ...string) error
}
