package store

import (
	"context"
	"os"
	"testing"
	"time"
)

// newIntegrationRedis 连接 REDISMCP_TEST_REDIS_ADDR 指向的实例，
// 未设置该环境变量时跳过测试。
func newIntegrationRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("REDISMCP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("REDISMCP_TEST_REDIS_ADDR not set")
	}
	r, err := NewRedis(RedisConfig{Address: addr, DialTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func cleanupKeys(t *testing.T, r *Redis, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		_, _ = r.Delete(context.Background(), keys...)
	})
}

func TestRedisStringRoundTrip(t *testing.T) {
	r := newIntegrationRedis(t)
	ctx := context.Background()
	cleanupKeys(t, r, "it:greeting")

	if err := r.Set(ctx, "it:greeting", "hello", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := r.Get(ctx, "it:greeting")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "hello" {
		t.Fatalf("expected %q, got %q", "hello", value)
	}

	dataType, err := r.TypeOf(ctx, "it:greeting")
	if err != nil {
		t.Fatalf("type: %v", err)
	}
	if dataType != TypeString {
		t.Fatalf("expected string, got %s", dataType)
	}
	if _, err := r.Get(ctx, "it:absent"); err != ErrKeyNotFound {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestRedisListOps(t *testing.T) {
	r := newIntegrationRedis(t)
	ctx := context.Background()
	cleanupKeys(t, r, "it:jobs")

	for _, v := range []string{"a", "b", "c"} {
		if err := r.PushRight(ctx, "it:jobs", v); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	if err := r.SetListIndex(ctx, "it:jobs", 9, "x"); err != ErrIndexOutOfRange {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	element, err := r.ListIndex(ctx, "it:jobs", 1)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if element != "b" {
		t.Fatalf("expected b, got %q", element)
	}
}

func TestRedisScanPaging(t *testing.T) {
	r := newIntegrationRedis(t)
	ctx := context.Background()

	keys := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		keys = append(keys, "it:scan:"+string(rune('a'+i)))
	}
	cleanupKeys(t, r, keys...)
	for _, key := range keys {
		if err := r.Set(ctx, key, "v", 0); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	found := make(map[string]bool)
	var cursor uint64
	for {
		page, err := r.Scan(ctx, cursor, "it:scan:*", 10)
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		for _, key := range page.Keys {
			found[key] = true
		}
		cursor = page.Cursor
		if cursor == 0 {
			break
		}
	}
	if len(found) != 25 {
		t.Fatalf("expected 25 keys, got %d", len(found))
	}
}

func TestRedisStreamRoundTrip(t *testing.T) {
	r := newIntegrationRedis(t)
	ctx := context.Background()
	cleanupKeys(t, r, "it:events")

	id, err := r.AppendRecord(ctx, "it:events", map[string]any{"action": "login"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	records, err := r.ReadRecords(ctx, "it:events", 10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 || records[0].ID != id || records[0].Values["action"] != "login" {
		t.Fatalf("unexpected records: %+v", records)
	}
	removed, err := r.DeleteRecord(ctx, "it:events", id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Fatal("expected record to be removed")
	}
}
