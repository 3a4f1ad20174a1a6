package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error 业务错误：携带 HTTP 状态码，由 ez.Render 统一输出 {status, message}
type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(format string, args ...any) error {
	return &Error{Status: http.StatusBadRequest, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error { return &Error{Status: http.StatusUnauthorized, Msg: msg} }

func Forbidden(format string, args ...any) error {
	return &Error{Status: http.StatusForbidden, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Status: http.StatusNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Internal(msg string, err error) error {
	return &Error{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

// ImageUpload 图片缺失/为空/超限/类型不支持
func ImageUpload(format string, args ...any) error {
	return &Error{Status: http.StatusBadRequest, Msg: fmt.Sprintf(format, args...)}
}

// ImageDeletion 图片引用无法解析：属于数据不一致，按 500 处理
func ImageDeletion(msg string, err error) error {
	return &Error{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

// StatusOf 非 *Error 一律视为 500
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool  { return StatusOf(err) == http.StatusNotFound }
func IsForbidden(err error) bool { return StatusOf(err) == http.StatusForbidden }
