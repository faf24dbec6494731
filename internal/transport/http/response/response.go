package response

import "github.com/gin-gonic/gin"

// 失败统一 {"error": "..."}，状态码走真实 HTTP 语义

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(201, data)
}

func Message(c *gin.Context, msg string) {
	c.JSON(200, gin.H{"message": msg})
}

func Fail(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = StatusMsg[status]
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
