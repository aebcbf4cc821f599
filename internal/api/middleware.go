package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"RedisMCP-Go/internal/observability/metrics"
	loggerpkg "RedisMCP-Go/pkg/logger"
)

// withAudit 返回一个 HTTP 中间件，为每个请求生成请求 ID，
// 记录审计日志并上报指标。
func withAudit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		aw := &auditWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(aw, r)

		metrics.ObserveHTTPRequest(r.URL.Path, r.Method, aw.status)
		loggerpkg.Audit().Info("api_request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", aw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// auditWriter 是一个包装了 http.ResponseWriter 的结构体，用于捕获响应状态码。
type auditWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader 捕获响应状态码并调用底层的 WriteHeader 方法。
func (w *auditWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
