package tool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	xerrors "RedisMCP-Go/internal/errors"
	"RedisMCP-Go/internal/store"
)

// Delete 删除整个键、一组键，或按限定符删除键内部的单个元素。
// 限定符与键实际类型不匹配时回退为删除整个键；该回退继承自旧实现，
// 可能造成超出预期的数据删除，因此统一记录告警日志。
func (s *Service) Delete(ctx context.Context, jsonArgs string) Result {
	args, err := parseArgs(jsonArgs)
	if err != nil {
		return errorResult(xerrors.CodeInvalidArgument, "Invalid JSON format: "+err.Error())
	}

	if !args.has("key") {
		return errorResult(xerrors.CodeInvalidArgument, "Error: 'key' parameter is required")
	}

	// key 为数组时执行单次多键删除。
	if keys, ok := args.stringList("key"); ok {
		if len(keys) == 0 {
			return errorResult(xerrors.CodeInvalidArgument, "Error: No valid keys provided")
		}
		deleted, err := s.client.Delete(ctx, keys...)
		if err != nil {
			return s.failure("delete", err)
		}
		return okResult(fmt.Sprintf("Successfully deleted %d keys", deleted))
	}

	key, err := args.requiredKey()
	if err != nil {
		return s.failure("delete", err)
	}

	var message string
	switch {
	case args.has("field"):
		message, err = s.deleteHashField(ctx, key, args)
	case args.has("member"):
		message, err = s.deleteMember(ctx, key, args)
	case args.has("index"):
		message, err = s.deleteListIndex(ctx, key, args)
	case args.has("value"):
		message, err = s.deleteListValue(ctx, key, args)
	case args.has("id"):
		message, err = s.deleteStreamRecord(ctx, key, args)
	default:
		message, err = s.deleteKey(ctx, key)
	}
	if err != nil {
		return s.failure("delete", err)
	}
	return okResult(message)
}

func (s *Service) deleteKey(ctx context.Context, key string) (string, error) {
	deleted, err := s.client.Delete(ctx, key)
	if err != nil {
		return "", err
	}
	if deleted == 0 {
		return "", xerrors.Newf(xerrors.CodeNotFound, "Key not found: %s", key)
	}
	return "Successfully deleted key: " + key, nil
}

// deleteWholeKeyFallback 在限定符与键类型不匹配时删除整个键。
func (s *Service) deleteWholeKeyFallback(ctx context.Context, key, qualifier string, actual store.DataType) (string, error) {
	s.log.Warn("删除限定符与键类型不匹配，回退为删除整个键",
		slog.String("key", key),
		slog.String("qualifier", qualifier),
		slog.String("actual_type", string(actual)),
	)
	if _, err := s.client.Delete(ctx, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("Qualifier '%s' does not match key type (%s); deleted entire key: %s", qualifier, actual, key), nil
}

func (s *Service) deleteHashField(ctx context.Context, key string, args Args) (string, error) {
	field, _ := args.text("field")
	dataType, err := s.client.TypeOf(ctx, key)
	if err != nil {
		return "", err
	}
	if dataType == store.TypeNone {
		return "", xerrors.Newf(xerrors.CodeNotFound, "Key not found: %s", key)
	}
	if dataType != store.TypeHash {
		return s.deleteWholeKeyFallback(ctx, key, "field", dataType)
	}
	removed, err := s.client.DeleteField(ctx, key, field)
	if err != nil {
		return "", err
	}
	if !removed {
		return "", xerrors.Newf(xerrors.CodeNotFound, "Hash field not found: %s in key: %s", field, key)
	}
	return fmt.Sprintf("Deleted field '%s' from hash: %s", field, key), nil
}

func (s *Service) deleteMember(ctx context.Context, key string, args Args) (string, error) {
	member, _ := args.text("member")
	dataType, err := s.client.TypeOf(ctx, key)
	if err != nil {
		return "", err
	}
	switch dataType {
	case store.TypeNone:
		return "", xerrors.Newf(xerrors.CodeNotFound, "Key not found: %s", key)
	case store.TypeSet:
		removed, err := s.client.RemoveMember(ctx, key, member)
		if err != nil {
			return "", err
		}
		if !removed {
			return "", xerrors.Newf(xerrors.CodeNotFound, "Member not found in set: %s", member)
		}
		return fmt.Sprintf("Removed member '%s' from set: %s", member, key), nil
	case store.TypeZSet:
		removed, err := s.client.RemoveScoredMember(ctx, key, member)
		if err != nil {
			return "", err
		}
		if !removed {
			return "", xerrors.Newf(xerrors.CodeNotFound, "Member not found in sorted set: %s", member)
		}
		return fmt.Sprintf("Removed member '%s' from sorted set: %s", member, key), nil
	default:
		return s.deleteWholeKeyFallback(ctx, key, "member", dataType)
	}
}

// deleteListIndex 通过「写入哨兵值再按值删除」的方式删除指定下标的元素，
// 因为存储没有直接按下标删除的命令。
func (s *Service) deleteListIndex(ctx context.Context, key string, args Args) (string, error) {
	index, _, err := args.integerField("index")
	if err != nil {
		return "", err
	}
	dataType, err := s.client.TypeOf(ctx, key)
	if err != nil {
		return "", err
	}
	if dataType == store.TypeNone {
		return "", xerrors.Newf(xerrors.CodeNotFound, "Key not found: %s", key)
	}
	if dataType != store.TypeList {
		return s.deleteWholeKeyFallback(ctx, key, "index", dataType)
	}

	sentinel := "__deleted__:" + uuid.NewString()
	if err := s.client.SetListIndex(ctx, key, index, sentinel); err != nil {
		if errors.Is(err, store.ErrIndexOutOfRange) {
			return "", xerrors.Newf(xerrors.CodeInvalidArgument, "Error: Index out of range: %d", index)
		}
		return "", err
	}
	if _, err := s.client.ListRemove(ctx, key, 1, sentinel); err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted element at index %d from list: %s", index, key), nil
}

func (s *Service) deleteListValue(ctx context.Context, key string, args Args) (string, error) {
	value, _ := args.text("value")
	count, _, err := args.integerField("count")
	if err != nil {
		return "", err
	}
	dataType, err := s.client.TypeOf(ctx, key)
	if err != nil {
		return "", err
	}
	if dataType == store.TypeNone {
		return "", xerrors.Newf(xerrors.CodeNotFound, "Key not found: %s", key)
	}
	if dataType != store.TypeList {
		return s.deleteWholeKeyFallback(ctx, key, "value", dataType)
	}
	removed, err := s.client.ListRemove(ctx, key, count, value)
	if err != nil {
		return "", err
	}
	if removed == 0 {
		return "", xerrors.Newf(xerrors.CodeNotFound, "Value not found in list: %s", key)
	}
	return fmt.Sprintf("Removed %d occurrence(s) of value from list: %s", removed, key), nil
}

func (s *Service) deleteStreamRecord(ctx context.Context, key string, args Args) (string, error) {
	id, _ := args.text("id")
	dataType, err := s.client.TypeOf(ctx, key)
	if err != nil {
		return "", err
	}
	if dataType == store.TypeNone {
		return "", xerrors.Newf(xerrors.CodeNotFound, "Key not found: %s", key)
	}
	if dataType != store.TypeStream {
		return s.deleteWholeKeyFallback(ctx, key, "id", dataType)
	}
	removed, err := s.client.DeleteRecord(ctx, key, id)
	if err != nil {
		return "", err
	}
	if !removed {
		return "", xerrors.Newf(xerrors.CodeNotFound, "Record not found: %s", id)
	}
	return fmt.Sprintf("Deleted record %s from stream: %s", id, key), nil
}
