package http

import (
	"github.com/gin-gonic/gin"

	"github.com/vaultpay/chainwatch/internal/handler"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler) {
	v1 := r.Group("/api/v1")

	v1.POST("/reconcile", h.ReconcileHandler.Trigger)

	transactions := v1.Group("/transactions")
	{
		transactions.GET("/pending", h.TransactionHandler.ListPending)
	}

	// health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "ok",
		})
	})
}
