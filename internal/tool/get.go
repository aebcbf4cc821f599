package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	xerrors "RedisMCP-Go/internal/errors"
	"RedisMCP-Go/internal/store"
)

// getHandlers 是 get 操作在封闭类型集合上的分发表。
var getHandlers = map[store.DataType]func(*Service, context.Context, string, Args) (string, error){
	store.TypeString: (*Service).getString,
	store.TypeList:   (*Service).getList,
	store.TypeSet:    (*Service).getSet,
	store.TypeZSet:   (*Service).getZSet,
	store.TypeHash:   (*Service).getHash,
	store.TypeStream: (*Service).getStream,
}

// Get 读取一个键。键必须存在，实际类型由存储实时查询决定。
func (s *Service) Get(ctx context.Context, jsonArgs string) Result {
	args, err := parseArgs(jsonArgs)
	if err != nil {
		return errorResult(xerrors.CodeInvalidArgument, "Invalid JSON format: "+err.Error())
	}
	key, err := args.requiredKey()
	if err != nil {
		return s.failure("get", err)
	}

	exists, err := s.client.Exists(ctx, key)
	if err != nil {
		return s.failure("get", err)
	}
	if !exists {
		return errorResult(xerrors.CodeNotFound, "Key not found: "+key)
	}

	dataType, err := s.client.TypeOf(ctx, key)
	if err != nil {
		return s.failure("get", err)
	}
	handler, ok := getHandlers[dataType]
	if !ok {
		return errorResult(xerrors.CodeUnsupportedType,
			fmt.Sprintf("Unsupported Redis data type for key: %s (Type: %s)", key, dataType))
	}
	message, err := handler(s, ctx, key, args)
	if err != nil {
		return s.failure("get", err)
	}
	return okResult(message)
}

func (s *Service) getString(ctx context.Context, key string, _ Args) (string, error) {
	value, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return "", xerrors.Newf(xerrors.CodeNotFound, "Key not found: %s", key)
		}
		return "", err
	}
	return value, nil
}

func (s *Service) getList(ctx context.Context, key string, args Args) (string, error) {
	index, present, err := args.integerField("index")
	if err != nil {
		return "", err
	}
	if present {
		element, err := s.client.ListIndex(ctx, key, index)
		if err != nil {
			if errors.Is(err, store.ErrIndexOutOfRange) {
				return "", xerrors.Newf(xerrors.CodeNotFound, "Index out of range or null element at index: %d", index)
			}
			return "", err
		}
		return element, nil
	}

	size, err := s.client.ListLen(ctx, key)
	if err != nil {
		return "", err
	}
	if size == 0 {
		return "List is empty for key: " + key, nil
	}
	elements, err := s.client.ListRange(ctx, key, 0, size-1)
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	builder.WriteString("List contents for key: " + key + "\n")
	for i, element := range elements {
		fmt.Fprintf(&builder, "%d: %s\n", i, element)
	}
	return builder.String(), nil
}

func (s *Service) getSet(ctx context.Context, key string, _ Args) (string, error) {
	members, err := s.client.Members(ctx, key)
	if err != nil {
		return "", err
	}
	if len(members) == 0 {
		return "Set is empty for key: " + key, nil
	}
	var builder strings.Builder
	builder.WriteString("Set contents for key: " + key + "\n")
	for _, member := range members {
		builder.WriteString(member + "\n")
	}
	return builder.String(), nil
}

func (s *Service) getZSet(ctx context.Context, key string, args Args) (string, error) {
	if member, ok := args.text("member"); ok {
		score, err := s.client.Score(ctx, key, member)
		if err != nil {
			if errors.Is(err, store.ErrMemberNotFound) {
				return "", xerrors.Newf(xerrors.CodeNotFound, "Member not found in sorted set: %s", member)
			}
			return "", err
		}
		return fmt.Sprintf("Score of '%s': %s", member, formatScore(score)), nil
	}

	members, err := s.client.RangeWithScores(ctx, key)
	if err != nil {
		return "", err
	}
	if len(members) == 0 {
		return "Sorted set is empty for key: " + key, nil
	}
	var builder strings.Builder
	builder.WriteString("Sorted set contents for key: " + key + "\n")
	for _, member := range members {
		fmt.Fprintf(&builder, "%s: %s\n", member.Member, formatScore(member.Score))
	}
	return builder.String(), nil
}

func (s *Service) getHash(ctx context.Context, key string, args Args) (string, error) {
	if field, ok := args.text("field"); ok {
		if strings.TrimSpace(field) == "" {
			return "", xerrors.New(xerrors.CodeInvalidArgument, "Error: Empty field provided for hash operation")
		}
		value, err := s.client.Field(ctx, key, field)
		if err != nil {
			if errors.Is(err, store.ErrFieldNotFound) {
				return "", xerrors.Newf(xerrors.CodeNotFound, "Hash field not found: %s in key: %s", field, key)
			}
			return "", err
		}
		return value, nil
	}

	entries, err := s.client.Fields(ctx, key)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "Hash is empty for key: " + key, nil
	}
	fields := make([]string, 0, len(entries))
	for field := range entries {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	var builder strings.Builder
	builder.WriteString("Hash contents for key: " + key + "\n")
	for _, field := range fields {
		fmt.Fprintf(&builder, "%s: %s\n", field, entries[field])
	}
	return builder.String(), nil
}

const defaultStreamReadCount = 10

func (s *Service) getStream(ctx context.Context, key string, args Args) (string, error) {
	count, present, err := args.integerField("count")
	if err != nil {
		return "", err
	}
	if !present || count <= 0 {
		count = defaultStreamReadCount
	}
	records, err := s.client.ReadRecords(ctx, key, count)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "Stream is empty or no records found for key: " + key, nil
	}
	var builder strings.Builder
	builder.WriteString("Stream contents for key: " + key + "\n")
	for _, record := range records {
		fmt.Fprintf(&builder, "ID: %s\n", record.ID)
		builder.WriteString("Values: " + formatRecordValues(record.Values) + "\n\n")
	}
	return builder.String(), nil
}

func formatRecordValues(values map[string]string) string {
	fields := make([]string, 0, len(values))
	for field := range values {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	pairs := make([]string, 0, len(fields))
	for _, field := range fields {
		pairs = append(pairs, field+"="+values[field])
	}
	return strings.Join(pairs, " ")
}
