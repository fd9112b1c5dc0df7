package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxDumpBody = 4 << 10

var redactedHeaders = []string{"Authorization", "Cookie"}

// RequestDumpMiddleware logs method, URL, headers and body of every request
// at debug level. Credentials are redacted and auth bodies are skipped.
func RequestDumpMiddleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		body := string(bodyBytes)
		if strings.HasPrefix(c.Request.URL.Path, "/auth/") {
			body = "[redacted]"
		} else if len(body) > maxDumpBody {
			body = body[:maxDumpBody] + "..."
		}

		log.Debug("request dump",
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
			"headers", redact(c.Request.Header),
			"body", body,
		)

		c.Next()
	}
}

func redact(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range redactedHeaders {
		if out.Get(name) != "" {
			out.Set(name, "[redacted]")
		}
	}
	return out
}
