package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/SameepSkillup/clinic-api/internal/middleware"
)

func newCORSRouter(cfg middleware.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS(cfg))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func corsGet(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func restrictedConfig() middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://app.clinic.local"}
	return cfg
}

func TestCORSAllowedOrigin(t *testing.T) {
	r := newCORSRouter(restrictedConfig())

	w := corsGet(r, "https://app.clinic.local")
	assert.Equal(t, "https://app.clinic.local", w.Header().Get("Access-Control-Allow-Origin"))
}

// An origin outside the allowlist must not be granted anything, wildcard
// included.
func TestCORSDeniedOrigin(t *testing.T) {
	r := newCORSRouter(restrictedConfig())

	w := corsGet(r, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
	// The request itself still succeeds; the browser enforces the denial.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSWildcard(t *testing.T) {
	r := newCORSRouter(middleware.DefaultCORSConfig())

	w := corsGet(r, "https://anywhere.example")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	r := newCORSRouter(restrictedConfig())

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.clinic.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.clinic.local", w.Header().Get("Access-Control-Allow-Origin"))
}
