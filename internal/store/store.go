package store

import (
	"context"
	"strings"
	"time"

	xerrors "RedisMCP-Go/internal/errors"
)

// DataType 表示键在存储中的运行时类型标签。
type DataType string

const (
	TypeNone   DataType = "none"
	TypeString DataType = "string"
	TypeList   DataType = "list"
	TypeSet    DataType = "set"
	TypeZSet   DataType = "zset"
	TypeHash   DataType = "hash"
	TypeStream DataType = "stream"
)

// ParseDataType 解析显式类型名，支持常见别名。
func ParseDataType(name string) (DataType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string":
		return TypeString, true
	case "list":
		return TypeList, true
	case "set":
		return TypeSet, true
	case "zset", "sorted-set", "sorted_set", "sortedset":
		return TypeZSet, true
	case "hash":
		return TypeHash, true
	case "stream":
		return TypeStream, true
	default:
		return TypeNone, false
	}
}

// ZMember 表示有序集合中的成员及其分值。
type ZMember struct {
	Member string
	Score  float64
}

// StreamRecord 表示流中的一条记录。
type StreamRecord struct {
	ID     string
	Values map[string]string
}

// ScanPage 表示一次增量扫描返回的键与游标。Cursor 为 0 表示扫描结束。
type ScanPage struct {
	Keys   []string
	Cursor uint64
}

var (
	// ErrKeyNotFound 表示指定的键不存在。
	ErrKeyNotFound = xerrors.New(xerrors.CodeNotFound, "key not found")
	// ErrFieldNotFound 表示哈希中不存在指定字段。
	ErrFieldNotFound = xerrors.New(xerrors.CodeNotFound, "hash field not found")
	// ErrMemberNotFound 表示集合或有序集合中不存在指定成员。
	ErrMemberNotFound = xerrors.New(xerrors.CodeNotFound, "member not found")
	// ErrIndexOutOfRange 表示列表下标越界。
	ErrIndexOutOfRange = xerrors.New(xerrors.CodeInvalidArgument, "index out of range")
	// ErrWrongType 表示操作与键的实际类型不匹配。
	ErrWrongType = xerrors.New(xerrors.CodeUnsupportedType, "operation against a key holding the wrong kind of value")
)

// Client 抽象了工具层依赖的键值存储操作。每次调用都直接落到外部存储，
// 实现方不得缓存键的类型标签。
type Client interface {
	// 通用键操作。
	Exists(ctx context.Context, key string) (bool, error)
	TypeOf(ctx context.Context, key string) (DataType, error)
	Delete(ctx context.Context, keys ...string) (int64, error)
	Scan(ctx context.Context, cursor uint64, pattern string, count int64) (ScanPage, error)
	Info(ctx context.Context, section string) (string, error)

	// 字符串。
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)

	// 列表。
	PushLeft(ctx context.Context, key, value string) error
	PushRight(ctx context.Context, key, value string) error
	SetListIndex(ctx context.Context, key string, index int64, value string) error
	ListIndex(ctx context.Context, key string, index int64) (string, error)
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ListLen(ctx context.Context, key string) (int64, error)
	ListRemove(ctx context.Context, key string, count int64, value string) (int64, error)

	// 集合。
	AddMember(ctx context.Context, key, member string) (bool, error)
	RemoveMember(ctx context.Context, key, member string) (bool, error)
	Members(ctx context.Context, key string) ([]string, error)

	// 有序集合。
	AddScoredMember(ctx context.Context, key, member string, score float64) (bool, error)
	RemoveScoredMember(ctx context.Context, key, member string) (bool, error)
	Score(ctx context.Context, key, member string) (float64, error)
	RangeWithScores(ctx context.Context, key string) ([]ZMember, error)

	// 哈希。
	SetField(ctx context.Context, key, field, value string) error
	Field(ctx context.Context, key, field string) (string, error)
	Fields(ctx context.Context, key string) (map[string]string, error)
	DeleteField(ctx context.Context, key, field string) (bool, error)

	// 流。
	AppendRecord(ctx context.Context, key string, values map[string]any) (string, error)
	ReadRecords(ctx context.Context, key string, count int64) ([]StreamRecord, error)
	DeleteRecord(ctx context.Context, key, id string) (bool, error)

	Close() error
}
