package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(bufferLogger(&logs)))
	r.GET("/notes/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes/3", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "path=/notes/:id")
	assert.Contains(t, logs.String(), "request_id="+generated)

	req := httptest.NewRequest(http.MethodGet, "/notes/3", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestRequestDumpKeepsBodyAndRedacts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	var seen string
	r := gin.New()
	r.Use(RequestDumpMiddleware(bufferLogger(&logs)))
	handler := func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		seen = string(body)
		c.Status(http.StatusOK)
	}
	r.POST("/notes", handler)
	r.POST("/auth/login", handler)

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"Cells"}`))
	req.Header.Set("Authorization", "Bearer secret-token")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, `{"title":"Cells"}`, seen)
	assert.Contains(t, logs.String(), "Cells")
	assert.NotContains(t, logs.String(), "secret-token")

	logs.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"hunter2"}`)))
	assert.Equal(t, `{"password":"hunter2"}`, seen)
	assert.NotContains(t, logs.String(), "hunter2")
}
