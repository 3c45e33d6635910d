package transport

import (
	"errors"
	"fmt"
)

// 传输层错误定义
var (
	ErrNotConnected  = NewTpError(1001, "Session is not connected", "")
	ErrSessionClosed = NewTpError(1002, "Session is closed", "")
	ErrDialFailed    = NewTpError(1003, "Dial failed", "")
	ErrFrameTooLarge = NewTpError(1004, "Frame too large", "")
)

type tpError struct {
	code    int
	msg     string
	context string
}

func (e *tpError) Error() string {
	if e.context != "" {
		return fmt.Sprintf("Error %d: %s (context: %s)", e.code, e.msg, e.context)
	}
	return fmt.Sprintf("Error %d: %s", e.code, e.msg)
}

// Is 按错误码比较，带上下文的错误仍然匹配对应的哨兵
func (e *tpError) Is(target error) bool {
	var t *tpError
	if !errors.As(target, &t) {
		return false
	}
	return e.code == t.code
}

func (e *tpError) Code() int { return e.code }

// CodeOf 取错误链上的传输层错误码，非传输层错误返回 0
func CodeOf(err error) int {
	var t *tpError
	if errors.As(err, &t) {
		return t.Code()
	}
	return 0
}

func NewTpError(code int, message string, context string) *tpError {
	return &tpError{
		code:    code,
		msg:     message,
		context: context,
	}
}

// withContext 复制哨兵并附加上下文
func withContext(base *tpError, ctx string) *tpError {
	return NewTpError(base.code, base.msg, ctx)
}
