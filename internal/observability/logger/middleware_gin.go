package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const HeaderRequestID = "X-Request-Id"

type MiddlewareConfig struct {
	// Logger defaults to the zap global.
	Logger          *zap.Logger
	Debug           bool
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware tags each request with a request id and logs one entry when it completes.
// Bodies are never logged; documents carry patient details.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDFrom(c)
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), requestID))

		c.Next()

		base := cfg.Logger
		if base == nil {
			base = zap.L()
		}
		log := WithContext(c.Request.Context(), base.Named("http"))

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if documentID := strings.TrimSpace(c.Param("id")); documentID != "" {
			fields = append(fields, zap.String("document_id", documentID))
		}

		var errorType string
		if lastErr := c.Errors.Last(); lastErr != nil {
			errorCode := "unclassified"
			if cfg.ErrorClassifier != nil {
				errorType, errorCode = cfg.ErrorClassifier(lastErr.Err)
			}
			fields = append(fields, zap.String("error_type", errorType), zap.String("error_code", errorCode))
			if cfg.Debug {
				fields = append(fields, zap.NamedError("cause", lastErr.Err))
			}
		}

		if ce := log.Check(requestLevel(route, status, errorType), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func requestIDFrom(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(HeaderRequestID)); id != "" {
		return id
	}
	return uuid.NewString()
}

// requestLevel keeps health checks and client mistakes out of the info stream.
func requestLevel(route string, status int, errorType string) zapcore.Level {
	switch {
	case route == "/health" || route == "/metrics":
		return zapcore.DebugLevel
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case errorType == "validation_error" || errorType == "not_found":
		return zapcore.DebugLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
