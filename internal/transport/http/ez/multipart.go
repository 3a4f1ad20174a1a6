package ez

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"ads-online/internal/core/errs"
)

// ParamID 路径中的正整数 id
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.BadRequest("Invalid %s: %q", name, c.Param(name))
	}
	return id, nil
}

// BindPart 从 multipart 字段读取 JSON 并校验；字段可以是普通表单值，也可以是 application/json 文件块
func BindPart(c *gin.Context, name string, obj any) error {
	if v, ok := c.GetPostForm(name); ok {
		return binding.JSON.BindBody([]byte(v), obj)
	}
	body, err := FormBytes(c, name)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errs.StatusOf(err) == http.StatusBadRequest && !errors.As(err, &maxErr) {
			return errs.BadRequest("Required part '%s' is not present", name)
		}
		return err
	}
	return binding.JSON.BindBody(body, obj)
}

// FormBytes 读取 multipart 文件字段的全部内容；字段缺失返回 400
// multipart 请求体超过 MaxBodyBytes 同样按图片超限返回 400
func FormBytes(c *gin.Context, name string) ([]byte, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &errs.Error{
				Status: http.StatusBadRequest,
				Msg:    fmt.Sprintf("Image size exceeds the allowed limit: %d bytes", maxErr.Limit),
				Err:    err,
			}
		}
		return nil, errs.BadRequest("Required part '%s' is not present", name)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errs.Internal("open multipart file failed", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
