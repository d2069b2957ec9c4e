package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"arena/logging"
)

const requestIDHeader = "X-Request-Id"

// CORS allows any origin, matching the public demo deployment.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		h.Set("Access-Control-Expose-Headers", requestIDHeader)
		h.Set("Access-Control-Max-Age", "3600")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// RequestID injects an X-Request-Id header when missing and stores it in the gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			c.Request.Header.Set(requestIDHeader, requestID)
		}
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Set(logging.FieldRequestID, requestID)
		c.Next()
	}
}

func requestLogger(c *gin.Context) *log.Entry {
	return log.WithField(logging.FieldRequestID, c.GetString(logging.FieldRequestID))
}

// Logging writes one line per request at a level matching the status.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := requestLogger(c).WithFields(log.Fields{
			"status":  status,
			"latency": time.Since(start).Round(time.Millisecond),
			"client":  c.ClientIP(),
		})
		msg := c.Request.Method + " " + c.Request.URL.Path

		switch {
		case status >= 500:
			entry.Error(msg)
		case status >= 400:
			entry.Warn(msg)
		default:
			entry.Info(msg)
		}
	}
}
