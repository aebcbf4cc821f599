package tool

import (
	xerrors "RedisMCP-Go/internal/errors"
)

// Status 表示一次工具调用的结果状态。
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Result 是工具调用的结构化结果。Message 为面向调用方的可读文本，
// Code 供程序判断失败类别，成功时为空。
type Result struct {
	Status  Status       `json:"status"`
	Code    xerrors.Code `json:"code,omitempty"`
	Message string       `json:"message"`
}

// IsError 判断结果是否为失败。
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// String 返回可读文本，保持与旧的字符串返回约定兼容。
func (r Result) String() string {
	return r.Message
}

func okResult(message string) Result {
	return Result{Status: StatusOK, Message: message}
}

func errorResult(code xerrors.Code, message string) Result {
	return Result{Status: StatusError, Code: code, Message: message}
}
