package transaction

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vaultpay/chainwatch/internal/model"
	"github.com/vaultpay/chainwatch/internal/store/selltransaction"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
	"github.com/vaultpay/chainwatch/internal/view"
)

type handler struct {
	db     *gorm.DB
	store  selltransaction.IStore
	logger *logger.Logger
}

func New(db *gorm.DB, store selltransaction.IStore, logger *logger.Logger) IHandler {
	return &handler{
		db:     db,
		store:  store,
		logger: logger,
	}
}

type listRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ListPending godoc
// @Summary List pending sell transactions
// @Description Pending sell transactions in reconciliation order, for diagnosing stuck records
// @id listPendingTransactions
// @Tags Transaction
// @Accept json
// @Produce json
// @Param limit query int false "Maximum records to return" default(25)
// @Success 200 {object} view.Response[[]model.SellTransaction]
// @Failure 500 {object} view.Response[any]
// @Router /transactions/pending [get]
func (h *handler) ListPending(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, "", "invalid limit"))
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = 25
	}

	txs, err := h.store.FindPendingSells(h.db, limit)
	if err != nil {
		h.logger.Error("[ListPending][FindPendingSells]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, "", "can't list pending transactions"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[[]model.SellTransaction](txs, nil, "", ""))
}
