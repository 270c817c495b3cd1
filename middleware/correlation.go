package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CorrelationHeader = "X-Correlation-ID"

// CorrelationID attaches a request-scoped id used to tie error responses to
// server logs. An incoming header is trusted and echoed back.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("correlation_id", id)
		c.Header(CorrelationHeader, id)
		c.Next()
	}
}
