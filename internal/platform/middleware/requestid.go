package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"attendance-backend/internal/platform/apierr"
)

const HeaderRequestID = "X-Request-ID"

// RequestID はクライアント指定の X-Request-ID を引き継ぎ、なければ採番する。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(apierr.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
