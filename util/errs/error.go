package errs

import (
	"errors"
	"fmt"
	"strings"
)

type CodeError interface {
	error
	Code() int32
	Print(extras ...string) CodeError
	Printf(format string, args ...any) CodeError
	Wrap(cause error) CodeError
	Is(error) bool
	Unwrap() error
}

func CreateCodeError(code int32, desc string) CodeError {
	return &codeError{
		Errno: code, // 错误码
		Desc:  desc, // 错误描述, 如: INVALID_TIMEOUT
	}
}

// WrapError 转换为CodeError, 非CodeError的错误归为Unknown
func WrapError(err error) CodeError {
	if err == nil {
		return nil
	}
	var x *codeError
	if errors.As(err, &x) {
		return x
	}
	return Unknown.Wrap(err)
}

// CodeOf 获取错误码, nil为ErrCode_OK
func CodeOf(err error) int32 {
	if err == nil {
		return ErrCode_OK
	}
	return WrapError(err).Code()
}

type codeError struct {
	Errno int32
	Desc  string
	cause error
}

func (e *codeError) Code() int32 {
	return e.Errno
}

func (e *codeError) Error() string {
	if e.cause != nil {
		return e.Desc + ": " + e.cause.Error()
	}
	return e.Desc
}

func (e *codeError) String() string {
	return fmt.Sprintf("errno: %d, desc: %s", e.Errno, e.Error())
}

func (e *codeError) Print(extras ...string) CodeError {
	if len(extras) == 0 {
		return e
	}
	builder := strings.Builder{}
	builder.WriteString(e.Desc)
	for _, extra := range extras {
		builder.WriteByte(',')
		builder.WriteString(extra)
	}
	return &codeError{Errno: e.Errno, Desc: builder.String(), cause: e.cause}
}

func (e *codeError) Printf(format string, args ...any) CodeError {
	if len(format) == 0 {
		return e
	}
	desc := e.Desc + "," + fmt.Sprintf(format, args...)
	return &codeError{Errno: e.Errno, Desc: desc, cause: e.cause}
}

func (e *codeError) Wrap(cause error) CodeError {
	return &codeError{Errno: e.Errno, Desc: e.Desc, cause: cause}
}

func (e *codeError) Unwrap() error {
	return e.cause
}

// Is 只比较错误码
func (e *codeError) Is(target error) bool {
	if x, ok := target.(*codeError); ok {
		return x.Errno == e.Errno
	}
	return false
}
