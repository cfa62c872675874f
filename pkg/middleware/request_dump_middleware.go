package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"antibias-assessment/utilities"
)

const maxDumpBody = 4 << 10

// RequestDumpMiddleware logs every request at debug level, including up to
// 4 KiB of the body. The body is restored for the handlers.
func RequestDumpMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		dumped := bodyBytes
		if len(dumped) > maxDumpBody {
			dumped = dumped[:maxDumpBody]
		}
		utilities.Debug(
			"[Request]\n"+
				"\tMethod: %s\n"+
				"\tURL: %s\n"+
				"\tHeaders: %v\n"+
				"\tBody: %s",
			c.Request.Method,
			c.Request.URL.String(),
			c.Request.Header,
			string(dumped),
		)

		c.Next()
	}
}

// RequestLogger writes one line per request once the handler has finished.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		switch {
		case status >= 500:
			utilities.Error("%s %s -> %d (%s) %v", c.Request.Method, c.Request.URL.Path, status, latency, c.Errors.String())
		case status >= 400:
			utilities.Warn("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
		default:
			utilities.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
		}
	}
}
