package reconcile

import "github.com/gin-gonic/gin"

type IHandler interface {
	Trigger(c *gin.Context)
}
