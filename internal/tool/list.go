package tool

import (
	"context"
	"strings"

	xerrors "RedisMCP-Go/internal/errors"
)

const (
	defaultScanPattern   = "*"
	defaultScanBatchSize = 100
)

// List 增量扫描键空间，返回匹配 pattern 的键。单轮工作量由 batchSize
// 限制，结果总量由 limit 限制；游标在达到 limit 前必须被耗尽。
func (s *Service) List(ctx context.Context, jsonArgs string) Result {
	args, err := parseArgs(jsonArgs)
	if err != nil {
		return errorResult(xerrors.CodeInvalidArgument, "Error parsing JSON arguments: "+err.Error())
	}

	pattern, ok := args.text("pattern")
	if !ok || pattern == "" {
		pattern = defaultScanPattern
	}
	batchSize, present, err := args.integerField("batchSize")
	if err != nil {
		return s.failure("list", err)
	}
	if !present || batchSize <= 0 {
		batchSize = defaultScanBatchSize
	}
	limit, _, err := args.integerField("limit")
	if err != nil {
		return s.failure("list", err)
	}

	var keys []string
	var cursor uint64
	for {
		page, err := s.client.Scan(ctx, cursor, pattern, batchSize)
		if err != nil {
			return s.failure("list", err)
		}
		keys = append(keys, page.Keys...)
		if limit > 0 && int64(len(keys)) >= limit {
			keys = keys[:limit]
			break
		}
		cursor = page.Cursor
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return okResult("No keys found matching the pattern")
	}
	return okResult("Found keys:\n" + strings.Join(keys, "\n"))
}

// Info 返回服务器信息与统计。section 可选。
func (s *Service) Info(ctx context.Context, jsonArgs string) Result {
	args, err := parseArgs(jsonArgs)
	if err != nil {
		return errorResult(xerrors.CodeInvalidArgument, "Error parsing JSON arguments: "+err.Error())
	}
	section, _ := args.text("section")
	text, err := s.client.Info(ctx, section)
	if err != nil {
		return s.failure("info", err)
	}
	return okResult(text)
}
