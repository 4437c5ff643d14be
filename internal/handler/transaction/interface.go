package transaction

import "github.com/gin-gonic/gin"

type IHandler interface {
	ListPending(c *gin.Context)
}
