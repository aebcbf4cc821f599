package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	xerrors "RedisMCP-Go/internal/errors"
	"RedisMCP-Go/internal/store"
)

// setHandlers 是 set 操作在封闭类型集合上的分发表。
var setHandlers = map[store.DataType]func(*Service, context.Context, string, Args) (string, error){
	store.TypeString: (*Service).setString,
	store.TypeList:   (*Service).setList,
	store.TypeSet:    (*Service).setSet,
	store.TypeZSet:   (*Service).setZSet,
	store.TypeHash:   (*Service).setHash,
	store.TypeStream: (*Service).setStream,
}

// Set 写入一个键。目标类型由已存在键的实际类型、显式 type 参数或
// 参数推断决定。
func (s *Service) Set(ctx context.Context, jsonArgs string) Result {
	args, err := parseArgs(jsonArgs)
	if err != nil {
		return errorResult(xerrors.CodeInvalidArgument, "Error parsing JSON arguments: "+err.Error())
	}
	key, err := args.requiredKey()
	if err != nil {
		return s.failure("set", err)
	}

	dataType, err := s.resolveSetType(ctx, key, args)
	if err != nil {
		return s.failure("set", err)
	}
	handler, ok := setHandlers[dataType]
	if !ok {
		return errorResult(xerrors.CodeUnsupportedType,
			fmt.Sprintf("Unsupported Redis data type for key: %s (Type: %s)", key, dataType))
	}
	message, err := handler(s, ctx, key, args)
	if err != nil {
		return s.failure("set", err)
	}
	return okResult(message)
}

type setStringRequest struct {
	key   string
	value string
	ttl   time.Duration
}

func parseSetString(key string, args Args) (setStringRequest, error) {
	value, ok := args.text("value")
	if !ok {
		return setStringRequest{}, xerrors.New(xerrors.CodeInvalidArgument, "Error: 'value' parameter is required")
	}
	req := setStringRequest{key: key, value: value}
	seconds, present, err := args.integerField("expireSeconds")
	if err != nil {
		return setStringRequest{}, err
	}
	if present {
		if seconds <= 0 {
			return setStringRequest{}, xerrors.New(xerrors.CodeInvalidArgument, "Error: expireSeconds must be a positive integer")
		}
		req.ttl = time.Duration(seconds) * time.Second
	}
	return req, nil
}

func (s *Service) setString(ctx context.Context, key string, args Args) (string, error) {
	req, err := parseSetString(key, args)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, req.key, req.value, req.ttl); err != nil {
		return "", err
	}
	return "Successfully set key: " + key, nil
}

type setListRequest struct {
	key         string
	value       string
	index       *int64
	appendRight bool
}

func parseSetList(key string, args Args) (setListRequest, error) {
	value, ok := args.text("value")
	if !ok {
		return setListRequest{}, xerrors.New(xerrors.CodeInvalidArgument, "Error: 'value' parameter is required")
	}
	req := setListRequest{key: key, value: value, appendRight: args.boolField("append")}
	index, present, err := args.integerField("index")
	if err != nil {
		return setListRequest{}, err
	}
	if present {
		req.index = &index
	}
	return req, nil
}

func (s *Service) setList(ctx context.Context, key string, args Args) (string, error) {
	req, err := parseSetList(key, args)
	if err != nil {
		return "", err
	}
	if req.index != nil {
		if err := s.client.SetListIndex(ctx, key, *req.index, req.value); err != nil {
			if errors.Is(err, store.ErrIndexOutOfRange) {
				return "", xerrors.Newf(xerrors.CodeInvalidArgument, "Error: Index out of range: %d", *req.index)
			}
			return "", err
		}
		return fmt.Sprintf("Successfully set element at index %d for key: %s", *req.index, key), nil
	}
	if req.appendRight {
		if err := s.client.PushRight(ctx, key, req.value); err != nil {
			return "", err
		}
		return "Successfully appended value to list: " + key, nil
	}
	if err := s.client.PushLeft(ctx, key, req.value); err != nil {
		return "", err
	}
	return "Successfully pushed value to list: " + key, nil
}

type setMemberRequest struct {
	key    string
	member string
}

func parseSetMember(key string, args Args) (setMemberRequest, error) {
	member, ok := args.text("member")
	if !ok {
		member, ok = args.text("value")
	}
	if !ok {
		return setMemberRequest{}, xerrors.New(xerrors.CodeInvalidArgument, "Error: 'member' or 'value' parameter is required")
	}
	return setMemberRequest{key: key, member: member}, nil
}

func (s *Service) setSet(ctx context.Context, key string, args Args) (string, error) {
	req, err := parseSetMember(key, args)
	if err != nil {
		return "", err
	}
	added, err := s.client.AddMember(ctx, key, req.member)
	if err != nil {
		return "", err
	}
	if !added {
		return fmt.Sprintf("Member '%s' already exists in set: %s", req.member, key), nil
	}
	return fmt.Sprintf("Added member '%s' to set: %s", req.member, key), nil
}

type setZSetRequest struct {
	key    string
	member string
	score  float64
}

func parseSetZSet(key string, args Args) (setZSetRequest, error) {
	memberReq, err := parseSetMember(key, args)
	if err != nil {
		return setZSetRequest{}, err
	}
	score, present, err := args.floatField("score")
	if err != nil {
		return setZSetRequest{}, err
	}
	if !present {
		return setZSetRequest{}, xerrors.New(xerrors.CodeInvalidArgument, "Error: 'score' parameter is required")
	}
	return setZSetRequest{key: key, member: memberReq.member, score: score}, nil
}

func (s *Service) setZSet(ctx context.Context, key string, args Args) (string, error) {
	req, err := parseSetZSet(key, args)
	if err != nil {
		return "", err
	}
	added, err := s.client.AddScoredMember(ctx, key, req.member, req.score)
	if err != nil {
		return "", err
	}
	if !added {
		return fmt.Sprintf("Updated score of member '%s' to %s in sorted set: %s", req.member, formatScore(req.score), key), nil
	}
	return fmt.Sprintf("Added member '%s' with score %s to sorted set: %s", req.member, formatScore(req.score), key), nil
}

type setHashRequest struct {
	key   string
	field string
	value string
}

func parseSetHash(key string, args Args) (setHashRequest, error) {
	field, ok := args.text("field")
	if !ok || field == "" {
		return setHashRequest{}, xerrors.New(xerrors.CodeInvalidArgument, "Error: 'field' parameter is required")
	}
	value, ok := args.text("value")
	if !ok {
		return setHashRequest{}, xerrors.New(xerrors.CodeInvalidArgument, "Error: 'value' parameter is required")
	}
	return setHashRequest{key: key, field: field, value: value}, nil
}

func (s *Service) setHash(ctx context.Context, key string, args Args) (string, error) {
	req, err := parseSetHash(key, args)
	if err != nil {
		return "", err
	}
	if err := s.client.SetField(ctx, key, req.field, req.value); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully set field '%s' for key: %s", req.field, key), nil
}

type setStreamRequest struct {
	key    string
	values map[string]any
}

func parseSetStream(key string, args Args) (setStreamRequest, error) {
	values, ok := args.objectField("value")
	if !ok || len(values) == 0 {
		return setStreamRequest{}, xerrors.New(xerrors.CodeInvalidArgument,
			"Error: 'value' must be an object of field-value pairs for stream records")
	}
	return setStreamRequest{key: key, values: values}, nil
}

func (s *Service) setStream(ctx context.Context, key string, args Args) (string, error) {
	req, err := parseSetStream(key, args)
	if err != nil {
		return "", err
	}
	id, err := s.client.AppendRecord(ctx, key, req.values)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Appended record %s to stream: %s", id, key), nil
}
