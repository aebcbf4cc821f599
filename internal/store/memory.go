package store

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"
)

// entry 保存单个键的类型标签与各类型的值。
type entry struct {
	kind      DataType
	expireAt  time.Time
	str       string
	list      []string
	set       map[string]struct{}
	zset      map[string]float64
	hash      map[string]string
	stream    []StreamRecord
	streamSeq int64
}

func (e *entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// Memory 以内存方式实现 Client 接口，用于开发与测试。
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemory 创建 Memory 实例。
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// lookup 返回未过期的条目。调用方需持有锁。
func (m *Memory) lookup(key string) *entry {
	e, ok := m.entries[key]
	if !ok || e.expired(m.now()) {
		return nil
	}
	return e
}

// typed 返回指定类型的条目。类型不匹配时返回 ErrWrongType；
// create 为真且键不存在时创建新条目。调用方需持有写锁。
func (m *Memory) typed(key string, kind DataType, create bool) (*entry, error) {
	if e, ok := m.entries[key]; ok && e.expired(m.now()) {
		delete(m.entries, key)
	}
	e, ok := m.entries[key]
	if !ok {
		if !create {
			return nil, ErrKeyNotFound
		}
		e = &entry{kind: kind}
		switch kind {
		case TypeSet:
			e.set = make(map[string]struct{})
		case TypeZSet:
			e.zset = make(map[string]float64)
		case TypeHash:
			e.hash = make(map[string]string)
		}
		m.entries[key] = e
		return e, nil
	}
	if e.kind != kind {
		return nil, ErrWrongType
	}
	return e, nil
}

// Exists 实现 Client 接口。
func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(key) != nil, nil
}

// TypeOf 实现 Client 接口。
func (m *Memory) TypeOf(_ context.Context, key string) (DataType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return TypeNone, nil
	}
	return e.kind, nil
}

// Delete 实现 Client 接口。
func (m *Memory) Delete(_ context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for _, key := range keys {
		if m.lookup(key) != nil {
			deleted++
		}
		delete(m.entries, key)
	}
	return deleted, nil
}

// Scan 实现 Client 接口。游标为排序后键列表中的偏移量，
// 单次调用最多检查 count 个键，与 Redis SCAN 一样按批推进。
func (m *Memory) Scan(_ context.Context, cursor uint64, pattern string, count int64) (ScanPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if count <= 0 {
		count = 10
	}
	if pattern == "" {
		pattern = "*"
	}

	keys := make([]string, 0, len(m.entries))
	for key, e := range m.entries {
		if e.expired(m.now()) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	page := ScanPage{}
	idx := int(cursor)
	scanned := int64(0)
	for idx < len(keys) && scanned < count {
		key := keys[idx]
		if ok, _ := path.Match(pattern, key); ok {
			page.Keys = append(page.Keys, key)
		}
		idx++
		scanned++
	}
	if idx < len(keys) {
		page.Cursor = uint64(idx)
	}
	return page, nil
}

// Info 实现 Client 接口，返回模拟的服务器信息。
func (m *Memory) Info(_ context.Context, section string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	live := 0
	for _, e := range m.entries {
		if !e.expired(m.now()) {
			live++
		}
	}
	switch section {
	case "", "keyspace":
		return fmt.Sprintf("# Keyspace\ndb0:keys=%d,expires=0,avg_ttl=0\n", live), nil
	default:
		return fmt.Sprintf("# %s\n", section), nil
	}
}

// Set 实现 Client 接口。与 Redis SET 一致，覆盖任何既有类型。
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &entry{kind: TypeString, str: value}
	if ttl > 0 {
		e.expireAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Get 实现 Client 接口。
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return "", ErrKeyNotFound
	}
	if e.kind != TypeString {
		return "", ErrWrongType
	}
	return e.str, nil
}

// PushLeft 实现 Client 接口。
func (m *Memory) PushLeft(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeList, true)
	if err != nil {
		return err
	}
	e.list = append([]string{value}, e.list...)
	return nil
}

// PushRight 实现 Client 接口。
func (m *Memory) PushRight(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeList, true)
	if err != nil {
		return err
	}
	e.list = append(e.list, value)
	return nil
}

func normalizeIndex(index, length int64) (int64, bool) {
	if index < 0 {
		index += length
	}
	if index < 0 || index >= length {
		return 0, false
	}
	return index, true
}

// SetListIndex 实现 Client 接口。
func (m *Memory) SetListIndex(_ context.Context, key string, index int64, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeList, false)
	if err != nil {
		return err
	}
	idx, ok := normalizeIndex(index, int64(len(e.list)))
	if !ok {
		return ErrIndexOutOfRange
	}
	e.list[idx] = value
	return nil
}

// ListIndex 实现 Client 接口。
func (m *Memory) ListIndex(_ context.Context, key string, index int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return "", ErrKeyNotFound
	}
	if e.kind != TypeList {
		return "", ErrWrongType
	}
	idx, ok := normalizeIndex(index, int64(len(e.list)))
	if !ok {
		return "", ErrIndexOutOfRange
	}
	return e.list[idx], nil
}

// ListRange 实现 Client 接口，区间语义与 LRANGE 一致。
func (m *Memory) ListRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return nil, nil
	}
	if e.kind != TypeList {
		return nil, ErrWrongType
	}
	length := int64(len(e.list))
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop || length == 0 {
		return nil, nil
	}
	result := make([]string, stop-start+1)
	copy(result, e.list[start:stop+1])
	return result, nil
}

// ListLen 实现 Client 接口。
func (m *Memory) ListLen(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return 0, nil
	}
	if e.kind != TypeList {
		return 0, ErrWrongType
	}
	return int64(len(e.list)), nil
}

// ListRemove 实现 Client 接口，语义与 LREM 一致。
func (m *Memory) ListRemove(_ context.Context, key string, count int64, value string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeList, false)
	if err != nil {
		if err == ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}
	limit := count
	if limit < 0 {
		limit = -limit
	}
	var removed int64
	if count >= 0 {
		kept := e.list[:0]
		for _, item := range e.list {
			if item == value && (count == 0 || removed < limit) {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		e.list = kept
	} else {
		// 负 count 从尾部开始删除。
		kept := make([]string, 0, len(e.list))
		for i := len(e.list) - 1; i >= 0; i-- {
			item := e.list[i]
			if item == value && removed < limit {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
			kept[i], kept[j] = kept[j], kept[i]
		}
		e.list = kept
	}
	if len(e.list) == 0 {
		delete(m.entries, key)
	}
	return removed, nil
}

// AddMember 实现 Client 接口。
func (m *Memory) AddMember(_ context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeSet, true)
	if err != nil {
		return false, err
	}
	if _, ok := e.set[member]; ok {
		return false, nil
	}
	e.set[member] = struct{}{}
	return true, nil
}

// RemoveMember 实现 Client 接口。
func (m *Memory) RemoveMember(_ context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeSet, false)
	if err != nil {
		if err == ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}
	if _, ok := e.set[member]; !ok {
		return false, nil
	}
	delete(e.set, member)
	if len(e.set) == 0 {
		delete(m.entries, key)
	}
	return true, nil
}

// Members 实现 Client 接口。
func (m *Memory) Members(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return nil, nil
	}
	if e.kind != TypeSet {
		return nil, ErrWrongType
	}
	members := make([]string, 0, len(e.set))
	for member := range e.set {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

// AddScoredMember 实现 Client 接口。
func (m *Memory) AddScoredMember(_ context.Context, key, member string, score float64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeZSet, true)
	if err != nil {
		return false, err
	}
	_, existed := e.zset[member]
	e.zset[member] = score
	return !existed, nil
}

// RemoveScoredMember 实现 Client 接口。
func (m *Memory) RemoveScoredMember(_ context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeZSet, false)
	if err != nil {
		if err == ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}
	if _, ok := e.zset[member]; !ok {
		return false, nil
	}
	delete(e.zset, member)
	if len(e.zset) == 0 {
		delete(m.entries, key)
	}
	return true, nil
}

// Score 实现 Client 接口。
func (m *Memory) Score(_ context.Context, key, member string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return 0, ErrMemberNotFound
	}
	if e.kind != TypeZSet {
		return 0, ErrWrongType
	}
	score, ok := e.zset[member]
	if !ok {
		return 0, ErrMemberNotFound
	}
	return score, nil
}

// RangeWithScores 实现 Client 接口，按分值升序返回。
func (m *Memory) RangeWithScores(_ context.Context, key string) ([]ZMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return nil, nil
	}
	if e.kind != TypeZSet {
		return nil, ErrWrongType
	}
	members := make([]ZMember, 0, len(e.zset))
	for member, score := range e.zset {
		members = append(members, ZMember{Member: member, Score: score})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Score == members[j].Score {
			return members[i].Member < members[j].Member
		}
		return members[i].Score < members[j].Score
	})
	return members, nil
}

// SetField 实现 Client 接口。
func (m *Memory) SetField(_ context.Context, key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeHash, true)
	if err != nil {
		return err
	}
	e.hash[field] = value
	return nil
}

// Field 实现 Client 接口。
func (m *Memory) Field(_ context.Context, key, field string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return "", ErrFieldNotFound
	}
	if e.kind != TypeHash {
		return "", ErrWrongType
	}
	value, ok := e.hash[field]
	if !ok {
		return "", ErrFieldNotFound
	}
	return value, nil
}

// Fields 实现 Client 接口。
func (m *Memory) Fields(_ context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return map[string]string{}, nil
	}
	if e.kind != TypeHash {
		return nil, ErrWrongType
	}
	fields := make(map[string]string, len(e.hash))
	for field, value := range e.hash {
		fields[field] = value
	}
	return fields, nil
}

// DeleteField 实现 Client 接口。
func (m *Memory) DeleteField(_ context.Context, key, field string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeHash, false)
	if err != nil {
		if err == ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}
	if _, ok := e.hash[field]; !ok {
		return false, nil
	}
	delete(e.hash, field)
	if len(e.hash) == 0 {
		delete(m.entries, key)
	}
	return true, nil
}

// AppendRecord 实现 Client 接口。记录 ID 采用毫秒时间戳加序号的格式。
func (m *Memory) AppendRecord(_ context.Context, key string, values map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeStream, true)
	if err != nil {
		return "", err
	}
	e.streamSeq++
	id := fmt.Sprintf("%d-%d", m.now().UnixMilli(), e.streamSeq)
	converted := make(map[string]string, len(values))
	for field, value := range values {
		converted[field] = fmt.Sprint(value)
	}
	e.stream = append(e.stream, StreamRecord{ID: id, Values: converted})
	return id, nil
}

// ReadRecords 实现 Client 接口。
func (m *Memory) ReadRecords(_ context.Context, key string, count int64) ([]StreamRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.lookup(key)
	if e == nil {
		return nil, nil
	}
	if e.kind != TypeStream {
		return nil, ErrWrongType
	}
	limit := int64(len(e.stream))
	if count > 0 && count < limit {
		limit = count
	}
	records := make([]StreamRecord, 0, limit)
	for _, record := range e.stream[:limit] {
		values := make(map[string]string, len(record.Values))
		for field, value := range record.Values {
			values[field] = value
		}
		records = append(records, StreamRecord{ID: record.ID, Values: values})
	}
	return records, nil
}

// DeleteRecord 实现 Client 接口。
func (m *Memory) DeleteRecord(_ context.Context, key, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.typed(key, TypeStream, false)
	if err != nil {
		if err == ErrKeyNotFound {
			return false, nil
		}
		return false, err
	}
	for i, record := range e.stream {
		if record.ID == id {
			e.stream = append(e.stream[:i], e.stream[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Close 对内存存储无需操作。
func (m *Memory) Close() error {
	return nil
}

// ensure interface compliance at compile time
var _ Client = (*Memory)(nil)
