package reconcile

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	reconcileEngine "github.com/vaultpay/chainwatch/internal/reconcile"
	"github.com/vaultpay/chainwatch/internal/utils/config"
	"github.com/vaultpay/chainwatch/internal/utils/logger"
	"github.com/vaultpay/chainwatch/internal/view"
)

type handler struct {
	engine    reconcileEngine.IReconciler
	logger    *logger.Logger
	appConfig *config.AppConfig
	timeout   time.Duration
}

func New(engine reconcileEngine.IReconciler, logger *logger.Logger, appConfig *config.AppConfig) IHandler {
	timeout, err := time.ParseDuration(appConfig.Reconcile.Timeout)
	if err != nil {
		timeout = 90 * time.Second
	}

	return &handler{
		engine:    engine,
		logger:    logger,
		appConfig: appConfig,
		timeout:   timeout,
	}
}

type triggerRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

type triggerResponse struct {
	Checked   int `json:"checked"`
	Confirmed int `json:"confirmed"`
}

// Trigger godoc
// @Summary Run one reconciliation batch
// @Description Check up to limit pending sell transactions against their chain data providers
// @id triggerReconcile
// @Tags Reconcile
// @Accept json
// @Produce json
// @Param limit query int false "Maximum transactions to check" default(25)
// @Success 200 {object} triggerResponse
// @Failure 400 {object} view.Response[any]
// @Router /reconcile [post]
func (h *handler) Trigger(c *gin.Context) {
	var req triggerRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		message := "invalid limit"
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			message = "limit must be between 1 and 500"
		}
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, "", message))
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = h.appConfig.Reconcile.BatchLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	checked, confirmed := h.engine.Run(ctx, limit)

	c.JSON(http.StatusOK, view.CreateResponse(triggerResponse{
		Checked:   checked,
		Confirmed: confirmed,
	}, nil, "", ""))
}
