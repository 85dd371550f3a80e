package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SameepSkillup/clinic-api/internal/handler"
	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/pkg/token"
)

// ContextSubject is the gin context key holding the validated credential
// subject (the login email or admin username).
const ContextSubject = "subject"

// AuthMiddleware is the single authorization gate. Every protected route
// names exactly one required role; the check runs before any scheduling or
// persistence logic.
type AuthMiddleware struct {
	tokens *token.Service
}

func NewAuthMiddleware(tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireRole validates the bearer credential against the required role and
// aborts with 401 (missing, malformed, expired) or 403 (wrong role).
func (m *AuthMiddleware) RequireRole(required model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := bearerToken(c)
		if !ok {
			handler.AbortWith(c, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		subject, err := m.tokens.Validate(credential, required)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrExpired):
				handler.AbortWith(c, http.StatusUnauthorized, "token expired, please log in again")
			case errors.Is(err, token.ErrRoleMismatch):
				handler.AbortWith(c, http.StatusForbidden, "insufficient role")
			default:
				handler.AbortWith(c, http.StatusUnauthorized, "invalid token")
			}
			return
		}

		c.Set(ContextSubject, subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
