package handler

import (
	"gorm.io/gorm"

	reconcileHandler "github.com/vaultpay/chainwatch/internal/handler/reconcile"
	transactionHandler "github.com/vaultpay/chainwatch/internal/handler/transaction"
	"github.com/vaultpay/chainwatch/internal/reconcile"
	"github.com/vaultpay/chainwatch/internal/store"
	"github.com/vaultpay/chainwatch/internal/utils/config"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
)

type Handler struct {
	ReconcileHandler   reconcileHandler.IHandler
	TransactionHandler transactionHandler.IHandler
}

func New(appConfig *config.AppConfig, logger *logger.Logger,
	engine reconcile.IReconciler,
	s *store.Store,
	db *gorm.DB) *Handler {
	return &Handler{
		ReconcileHandler:   reconcileHandler.New(engine, logger, appConfig),
		TransactionHandler: transactionHandler.New(db, s.SellTransaction, logger),
	}
}
