package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware 为每个请求分配 ID，已有的 X-Request-ID 原样沿用。
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// ErrorMiddleware 把未处理的 c.Errors 转为 500 JSON 响应。
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			log.Printf("处理请求 %s 出错: %v", c.GetString("requestID"), err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "internal_server_error",
				"message": "An internal error occurred",
			})
		}
	}
}

// LoggingMiddleware 输出访问日志。
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		id, _ := param.Keys["requestID"].(string)
		return fmt.Sprintf("%s - [%s] %s \"%s %s\" %d %s %q\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC3339),
			id,
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ErrorMessage,
		)
	})
}
