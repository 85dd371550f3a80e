package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SameepSkillup/clinic-api/internal/handler"
	"github.com/SameepSkillup/clinic-api/internal/middleware"
)

func newEchoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/ok", func(c *gin.Context) {
		handler.OK(c, http.StatusOK, gin.H{"pong": true})
	})
	r.GET("/fail", func(c *gin.Context) {
		handler.Fail(c, http.StatusBadRequest, "nope")
	})
	return r
}

func getWithRequestID(r *gin.Engine, path, rid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if rid != "" {
		req.Header.Set(middleware.HeaderXRequestID, rid)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelopeRequestID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp handler.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.RequestID
}

func TestRequestIDAdopted(t *testing.T) {
	r := newEchoRouter()

	w := getWithRequestID(r, "/ok", "client-id-42")
	assert.Equal(t, "client-id-42", w.Header().Get(middleware.HeaderXRequestID))
	assert.Equal(t, "client-id-42", envelopeRequestID(t, w))
}

func TestRequestIDMintedWhenMissing(t *testing.T) {
	r := newEchoRouter()

	w := getWithRequestID(r, "/ok", "")
	rid := w.Header().Get(middleware.HeaderXRequestID)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err)
	assert.Equal(t, rid, envelopeRequestID(t, w))
}

func TestRequestIDReplacedWhenUnusable(t *testing.T) {
	r := newEchoRouter()

	for _, bad := range []string{strings.Repeat("x", 65), "spaces are bad", "new\nline"} {
		w := getWithRequestID(r, "/ok", bad)
		rid := w.Header().Get(middleware.HeaderXRequestID)
		assert.NotEqual(t, bad, rid)
		_, err := uuid.Parse(rid)
		assert.NoError(t, err, "expected a minted uuid for %q", bad)
	}
}

// Error envelopes carry the request id so failures can be traced.
func TestErrorEnvelopeCarriesRequestID(t *testing.T) {
	r := newEchoRouter()

	w := getWithRequestID(r, "/fail", "client-id-42")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, handler.StatusError, resp.Status)
	assert.Equal(t, "nope", resp.Message)
	assert.Equal(t, "client-id-42", resp.RequestID)
}
