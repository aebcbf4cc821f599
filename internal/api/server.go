package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"RedisMCP-Go/internal/observability/metrics"
	"RedisMCP-Go/internal/tool"
)

// maxArgsBytes 限制单次工具调用参数体的大小。
const maxArgsBytes = 1 << 20

// Server 负责暴露工具调用的 REST 接口，供外部框架驱动。
type Server struct {
	addr  string
	tools *tool.Service
}

// NewServer 构造 API 服务实例。
func NewServer(addr string, tools *tool.Service) *Server {
	return &Server{addr: addr, tools: tools}
}

// Start 启动 HTTP 服务，直到上下文取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tools", s.handleToolList)
	mux.HandleFunc("/api/v1/tools/", s.handleToolCall)
	mux.Handle("/metrics", metrics.Handler())

	// 配置 HTTP 服务器。
	server := &http.Server{
		Addr:              s.addr,
		Handler:           withAudit(withContext(ctx, mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 启动服务器并监听关闭信号。
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// handleToolList 返回全部工具的元信息。
func (s *Server) handleToolList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "仅支持 GET", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tool.Descriptors())
}

// handleToolCall 处理单次工具调用。请求体为 JSON 参数对象，
// 响应为结构化结果；工具层的失败也以 200 返回，错误通过结果体区分。
func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "仅支持 POST", http.StatusMethodNotAllowed)
		return
	}
	if s.tools == nil {
		http.Error(w, "工具服务未初始化", http.StatusServiceUnavailable)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/tools/")
	if name == "" || strings.Contains(name, "/") {
		http.Error(w, "工具名称无效", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxArgsBytes))
	if err != nil {
		http.Error(w, "请求体读取失败", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, ok := s.tools.Invoke(r.Context(), name, string(body))
	if !ok {
		http.Error(w, "未知的工具: "+name, http.StatusNotFound)
		return
	}
	metrics.ObserveTool(name, string(result.Code), time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// withContext 确保请求处理能够感知根上下文取消。
func withContext(ctx context.Context, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-ctx.Done():
			http.Error(w, "服务已关闭", http.StatusServiceUnavailable)
			return
		default:
		}
		handler.ServeHTTP(w, r)
	})
}
