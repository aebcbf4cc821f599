package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig 描述 Redis 连接参数。
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Redis 基于 go-redis 客户端实现 Client 接口。
type Redis struct {
	client *redis.Client
}

// NewRedis 创建 Redis 客户端并验证连通性。
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Address == "" {
		return nil, errors.New("Redis address 不能为空")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}
	return &Redis{client: client}, nil
}

// Exists 判断键是否存在。
func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("检查键是否存在失败: %w", err)
	}
	return n > 0, nil
}

// TypeOf 返回键的运行时类型。键不存在时返回 TypeNone。
func (r *Redis) TypeOf(ctx context.Context, key string) (DataType, error) {
	raw, err := r.client.Type(ctx, key).Result()
	if err != nil {
		return TypeNone, fmt.Errorf("查询键类型失败: %w", err)
	}
	switch raw {
	case "string":
		return TypeString, nil
	case "list":
		return TypeList, nil
	case "set":
		return TypeSet, nil
	case "zset":
		return TypeZSet, nil
	case "hash":
		return TypeHash, nil
	case "stream":
		return TypeStream, nil
	default:
		return TypeNone, nil
	}
}

// Delete 在单次 DEL 调用中删除多个键，返回实际删除数量。
func (r *Redis) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("删除键失败: %w", err)
	}
	return n, nil
}

// Scan 执行一次增量扫描。
func (r *Redis) Scan(ctx context.Context, cursor uint64, pattern string, count int64) (ScanPage, error) {
	keys, next, err := r.client.Scan(ctx, cursor, pattern, count).Result()
	if err != nil {
		return ScanPage{}, fmt.Errorf("扫描键空间失败: %w", err)
	}
	return ScanPage{Keys: keys, Cursor: next}, nil
}

// Info 返回服务器信息。section 为空时返回默认汇总。
func (r *Redis) Info(ctx context.Context, section string) (string, error) {
	var cmd *redis.StringCmd
	if section == "" {
		cmd = r.client.Info(ctx)
	} else {
		cmd = r.client.Info(ctx, section)
	}
	text, err := cmd.Result()
	if err != nil {
		return "", fmt.Errorf("读取服务器信息失败: %w", err)
	}
	return text, nil
}

// Set 写入字符串值，ttl 为 0 表示不过期。
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("写入字符串失败: %w", err)
	}
	return nil
}

// Get 读取字符串值。
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("读取字符串失败: %w", err)
	}
	return value, nil
}

// PushLeft 将元素插入列表头部。
func (r *Redis) PushLeft(ctx context.Context, key, value string) error {
	if err := r.client.LPush(ctx, key, value).Err(); err != nil {
		return fmt.Errorf("列表头插失败: %w", err)
	}
	return nil
}

// PushRight 将元素追加到列表尾部。
func (r *Redis) PushRight(ctx context.Context, key, value string) error {
	if err := r.client.RPush(ctx, key, value).Err(); err != nil {
		return fmt.Errorf("列表尾插失败: %w", err)
	}
	return nil
}

// SetListIndex 覆盖列表指定下标的元素。
func (r *Redis) SetListIndex(ctx context.Context, key string, index int64, value string) error {
	if err := r.client.LSet(ctx, key, index, value).Err(); err != nil {
		if strings.Contains(err.Error(), "index out of range") {
			return ErrIndexOutOfRange
		}
		return fmt.Errorf("设置列表元素失败: %w", err)
	}
	return nil
}

// ListIndex 读取列表指定下标的元素。
func (r *Redis) ListIndex(ctx context.Context, key string, index int64) (string, error) {
	value, err := r.client.LIndex(ctx, key, index).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrIndexOutOfRange
		}
		return "", fmt.Errorf("读取列表元素失败: %w", err)
	}
	return value, nil
}

// ListRange 返回列表指定区间的元素。
func (r *Redis) ListRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	values, err := r.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("读取列表区间失败: %w", err)
	}
	return values, nil
}

// ListLen 返回列表长度。
func (r *Redis) ListLen(ctx context.Context, key string) (int64, error) {
	n, err := r.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("读取列表长度失败: %w", err)
	}
	return n, nil
}

// ListRemove 删除列表中至多 count 个等于 value 的元素。
func (r *Redis) ListRemove(ctx context.Context, key string, count int64, value string) (int64, error) {
	n, err := r.client.LRem(ctx, key, count, value).Result()
	if err != nil {
		return 0, fmt.Errorf("删除列表元素失败: %w", err)
	}
	return n, nil
}

// AddMember 向集合添加成员，返回是否为新增。
func (r *Redis) AddMember(ctx context.Context, key, member string) (bool, error) {
	n, err := r.client.SAdd(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("添加集合成员失败: %w", err)
	}
	return n > 0, nil
}

// RemoveMember 从集合移除成员，返回是否实际移除。
func (r *Redis) RemoveMember(ctx context.Context, key, member string) (bool, error) {
	n, err := r.client.SRem(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("移除集合成员失败: %w", err)
	}
	return n > 0, nil
}

// Members 返回集合全部成员。
func (r *Redis) Members(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("读取集合成员失败: %w", err)
	}
	return members, nil
}

// AddScoredMember 向有序集合添加成员，返回是否为新增。
func (r *Redis) AddScoredMember(ctx context.Context, key, member string, score float64) (bool, error) {
	n, err := r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Result()
	if err != nil {
		return false, fmt.Errorf("添加有序集合成员失败: %w", err)
	}
	return n > 0, nil
}

// RemoveScoredMember 从有序集合移除成员。
func (r *Redis) RemoveScoredMember(ctx context.Context, key, member string) (bool, error) {
	n, err := r.client.ZRem(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("移除有序集合成员失败: %w", err)
	}
	return n > 0, nil
}

// Score 返回有序集合中成员的分值。
func (r *Redis) Score(ctx context.Context, key, member string) (float64, error) {
	score, err := r.client.ZScore(ctx, key, member).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrMemberNotFound
		}
		return 0, fmt.Errorf("读取成员分值失败: %w", err)
	}
	return score, nil
}

// RangeWithScores 返回有序集合全部成员及分值，按分值升序。
func (r *Redis) RangeWithScores(ctx context.Context, key string) ([]ZMember, error) {
	tuples, err := r.client.ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("读取有序集合失败: %w", err)
	}
	members := make([]ZMember, 0, len(tuples))
	for _, tuple := range tuples {
		members = append(members, ZMember{
			Member: fmt.Sprint(tuple.Member),
			Score:  tuple.Score,
		})
	}
	return members, nil
}

// SetField 写入哈希字段。
func (r *Redis) SetField(ctx context.Context, key, field, value string) error {
	if err := r.client.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("写入哈希字段失败: %w", err)
	}
	return nil
}

// Field 读取哈希字段。
func (r *Redis) Field(ctx context.Context, key, field string) (string, error) {
	value, err := r.client.HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrFieldNotFound
		}
		return "", fmt.Errorf("读取哈希字段失败: %w", err)
	}
	return value, nil
}

// Fields 返回哈希全部字段。
func (r *Redis) Fields(ctx context.Context, key string) (map[string]string, error) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("读取哈希失败: %w", err)
	}
	return fields, nil
}

// DeleteField 删除哈希字段，返回是否实际删除。
func (r *Redis) DeleteField(ctx context.Context, key, field string) (bool, error) {
	n, err := r.client.HDel(ctx, key, field).Result()
	if err != nil {
		return false, fmt.Errorf("删除哈希字段失败: %w", err)
	}
	return n > 0, nil
}

// AppendRecord 向流追加一条记录，返回生成的记录 ID。
func (r *Redis) AppendRecord(ctx context.Context, key string, values map[string]any) (string, error) {
	id, err := r.client.XAdd(ctx, &redis.XAddArgs{Stream: key, Values: values}).Result()
	if err != nil {
		return "", fmt.Errorf("追加流记录失败: %w", err)
	}
	return id, nil
}

// ReadRecords 从流起始位置读取至多 count 条记录。
func (r *Redis) ReadRecords(ctx context.Context, key string, count int64) ([]StreamRecord, error) {
	messages, err := r.client.XRangeN(ctx, key, "-", "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("读取流记录失败: %w", err)
	}
	records := make([]StreamRecord, 0, len(messages))
	for _, message := range messages {
		values := make(map[string]string, len(message.Values))
		for field, value := range message.Values {
			values[field] = fmt.Sprint(value)
		}
		records = append(records, StreamRecord{ID: message.ID, Values: values})
	}
	return records, nil
}

// DeleteRecord 删除流中指定 ID 的记录。
func (r *Redis) DeleteRecord(ctx context.Context, key, id string) (bool, error) {
	n, err := r.client.XDel(ctx, key, id).Result()
	if err != nil {
		return false, fmt.Errorf("删除流记录失败: %w", err)
	}
	return n > 0, nil
}

// Close 关闭 Redis 连接。
func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// ensure interface compliance at compile time
var _ Client = (*Redis)(nil)
