package middleware

import (
	"github.com/gin-gonic/gin"

	"carexchange/pkg/utils"
)

const KeyRequestID = "X-Request-ID"

// RequestID 透传上游请求 ID，没有就补一个（与实体主键同一种 32 位无连字符格式）
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" {
			rid = utils.NewID()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
