package tool

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	xerrors "RedisMCP-Go/internal/errors"
)

// Args 是从 JSON 请求体解码出的松散参数包。
type Args map[string]any

// parseArgs 解析 JSON 参数。空字符串视为空参数包。
func parseArgs(raw string) (Args, error) {
	if strings.TrimSpace(raw) == "" {
		return Args{}, nil
	}
	var args Args
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = Args{}
	}
	return args, nil
}

// has 判断字段是否存在且非 null。
func (a Args) has(name string) bool {
	value, ok := a[name]
	return ok && value != nil
}

// text 以字符串形式返回标量字段。数字与布尔值会被格式化，
// 对象、数组与 null 均视为缺失。
func (a Args) text(name string) (string, bool) {
	value, ok := a[name]
	if !ok || value == nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// integerField 返回整数字段。字段缺失时 ok 为假；存在但无法解析为整数时
// 返回 INVALID_ARGUMENT 错误。
func (a Args) integerField(name string) (int64, bool, error) {
	value, ok := a[name]
	if !ok || value == nil {
		return 0, false, nil
	}
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false, xerrors.Newf(xerrors.CodeInvalidArgument, "Error: Invalid %s format. Must be an integer", name)
		}
		return int64(v), true, nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false, xerrors.Newf(xerrors.CodeInvalidArgument, "Error: Invalid %s format. Must be an integer", name)
		}
		return parsed, true, nil
	default:
		return 0, false, xerrors.Newf(xerrors.CodeInvalidArgument, "Error: Invalid %s format. Must be an integer", name)
	}
}

// floatField 返回浮点数字段，语义与 integerField 相同。
func (a Args) floatField(name string) (float64, bool, error) {
	value, ok := a[name]
	if !ok || value == nil {
		return 0, false, nil
	}
	switch v := value.(type) {
	case float64:
		return v, true, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false, xerrors.Newf(xerrors.CodeInvalidArgument, "Error: Invalid %s format. Must be a number", name)
		}
		return parsed, true, nil
	default:
		return 0, false, xerrors.Newf(xerrors.CodeInvalidArgument, "Error: Invalid %s format. Must be a number", name)
	}
}

// boolField 返回布尔字段，缺失或无法识别时为假。
func (a Args) boolField(name string) bool {
	value, ok := a[name]
	if !ok || value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	default:
		return false
	}
}

// stringList 以字符串列表形式返回字段，仅当字段为 JSON 数组时 ok 为真。
// 数组中的 null 元素被跳过。
func (a Args) stringList(name string) ([]string, bool) {
	value, ok := a[name]
	if !ok {
		return nil, false
	}
	items, ok := value.([]any)
	if !ok {
		return nil, false
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		switch v := item.(type) {
		case string:
			result = append(result, v)
		case float64:
			result = append(result, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			result = append(result, strconv.FormatBool(v))
		}
	}
	return result, true
}

// objectField 以映射形式返回字段，仅当字段为 JSON 对象时 ok 为真。
func (a Args) objectField(name string) (map[string]any, bool) {
	value, ok := a[name]
	if !ok || value == nil {
		return nil, false
	}
	object, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	return object, true
}
