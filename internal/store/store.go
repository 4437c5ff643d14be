package store

import (
	"github.com/vaultpay/chainwatch/internal/store/selltransaction"
)

type Store struct {
	SellTransaction selltransaction.IStore
}

func New() *Store {
	return &Store{
		SellTransaction: selltransaction.New(),
	}
}
