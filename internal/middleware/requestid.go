package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SameepSkillup/clinic-api/internal/handler"
)

const HeaderXRequestID = "X-Request-ID"

// maxRequestIDLen caps caller-supplied ids so a hostile client cannot pad
// every log line and response envelope.
const maxRequestIDLen = 64

// RequestID adopts the caller's X-Request-ID when it is usable, otherwise
// mints a fresh uuid. The id rides the gin context into the logger, the
// recovery handler and every response envelope.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if !usableRequestID(rid) {
			rid = uuid.NewString()
		}

		c.Set(handler.ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}

func usableRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for _, r := range rid {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
