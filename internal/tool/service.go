package tool

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	xerrors "RedisMCP-Go/internal/errors"
	"RedisMCP-Go/internal/store"
	"RedisMCP-Go/pkg/logger"
)

// Service 将键值存储操作暴露为可远程调用的工具。每次调用都是无状态的
// 请求/响应，键的类型标签在每次调用时重新从存储读取。
type Service struct {
	client store.Client
	log    *slog.Logger
}

// NewService 构造工具服务。
func NewService(client store.Client) *Service {
	return &Service{client: client, log: logger.Named("tool")}
}

// Descriptor 描述一个可远程调用的工具。
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Descriptors 返回全部工具的元信息。
func Descriptors() []Descriptor {
	return []Descriptor{
		{Name: "set", Description: "Set a Redis key-value pair with optional expiration time"},
		{Name: "get", Description: "Get value from Redis by key, supports string, list, set, zset, hash, and stream types"},
		{Name: "delete", Description: "Delete one or multiple keys from Redis"},
		{Name: "list", Description: "List Redis keys matching a pattern"},
		{Name: "info", Description: "Show Redis server information and statistics"},
	}
}

// Invoke 按名称调用工具。未知名称时第二个返回值为假。
func (s *Service) Invoke(ctx context.Context, name, jsonArgs string) (Result, bool) {
	switch name {
	case "set":
		return s.Set(ctx, jsonArgs), true
	case "get":
		return s.Get(ctx, jsonArgs), true
	case "delete":
		return s.Delete(ctx, jsonArgs), true
	case "list":
		return s.List(ctx, jsonArgs), true
	case "info":
		return s.Info(ctx, jsonArgs), true
	default:
		return Result{}, false
	}
}

// requiredKey 提取并校验 key 参数。
func (a Args) requiredKey() (string, error) {
	key, ok := a.text("key")
	if !ok {
		return "", xerrors.New(xerrors.CodeInvalidArgument, "Error: 'key' parameter is required")
	}
	if strings.TrimSpace(key) == "" {
		return "", xerrors.New(xerrors.CodeInvalidArgument, "Error: Empty key provided")
	}
	return key, nil
}

// resolveSetType 为 set 操作确定目标数据类型。已存在键的实际类型优先；
// 新键采用显式 type 参数；否则按 field > score > index 的顺序推断，
// 推断顺序不可改变。显式 type 无论是否生效都要先校验。
func (s *Service) resolveSetType(ctx context.Context, key string, args Args) (store.DataType, error) {
	explicit := store.TypeNone
	if raw, ok := args.text("type"); ok {
		parsed, valid := store.ParseDataType(raw)
		if !valid {
			return store.TypeNone, xerrors.Newf(xerrors.CodeUnsupportedType, "Error: Unsupported type: %s", raw)
		}
		explicit = parsed
	}

	exists, err := s.client.Exists(ctx, key)
	if err != nil {
		return store.TypeNone, err
	}
	if exists {
		return s.client.TypeOf(ctx, key)
	}
	if explicit != store.TypeNone {
		return explicit, nil
	}

	if args.has("field") {
		return store.TypeHash, nil
	}
	if args.has("score") {
		return store.TypeZSet, nil
	}
	if args.has("index") {
		return store.TypeList, nil
	}
	return store.TypeString, nil
}

// failure 将任意错误转换为结构化结果。带错误码的错误保留原始文案，
// 其余一律归为存储故障。
func (s *Service) failure(name string, err error) Result {
	if e, ok := xerrors.From(err); ok {
		if e.Severity() != xerrors.SeverityInfo {
			s.log.Warn("工具调用失败",
				slog.String("tool", name),
				slog.String("code", string(e.Code())),
				slog.String("message", e.Message()),
			)
		}
		return errorResult(e.Code(), e.Message())
	}
	s.log.Error("存储调用失败", slog.String("tool", name), slog.Any("error", err))
	return errorResult(xerrors.CodeStoreFailure, "Operation failed: "+err.Error())
}

// formatScore 格式化分值，整数不带小数位。
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
