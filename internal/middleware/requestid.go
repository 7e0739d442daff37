package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/event-management-api/internal/constants"
	"github.com/yukikurage/event-management-api/internal/logging"
)

// RequestID propagates X-Request-ID, generating one when absent,
// and attaches a request scoped logger to the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}

		c.Header(constants.HeaderRequestID, requestID)
		c.Set(constants.ContextKeyRequestID, requestID)

		l := logging.Logger().With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), l))

		c.Next()
	}
}
