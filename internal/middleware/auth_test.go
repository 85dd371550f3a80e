package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SameepSkillup/clinic-api/internal/middleware"
	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/pkg/token"
)

func newProtectedRouter(tokens *token.Service, required model.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gate := middleware.NewAuthMiddleware(tokens)

	r := gin.New()
	r.GET("/protected", gate.RequireRole(required), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextSubject))
	})
	return r
}

func doRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRoleValidToken(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	r := newProtectedRouter(tokens, model.RolePatient)

	credential, err := tokens.Issue("pat@clinic.local", model.RolePatient)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+credential)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pat@clinic.local", w.Body.String())
}

func TestRequireRoleMissingHeader(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	r := newProtectedRouter(tokens, model.RolePatient)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleBadHeaderShape(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	r := newProtectedRouter(tokens, model.RolePatient)

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc", "garbage"} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireRoleWrongRole(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	r := newProtectedRouter(tokens, model.RoleAdmin)

	credential, err := tokens.Issue("pat@clinic.local", model.RolePatient)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+credential)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleExpiredToken(t *testing.T) {
	tokens := token.NewService("test-secret", -time.Minute)
	r := newProtectedRouter(tokens, model.RolePatient)

	credential, err := tokens.Issue("pat@clinic.local", model.RolePatient)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+credential)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}
