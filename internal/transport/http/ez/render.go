package ez

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ads-online/internal/core/errs"
	mdw "ads-online/internal/transport/http/middleware"
	resp "ads-online/internal/transport/http/response"
)

// Render 把任意错误输出为 {status, message}
func Render(c *gin.Context, log *zap.Logger, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp.Error(status, msg))
}

func classify(err error) (int, string) {
	var (
		ae     *errs.Error
		verrs  validator.ValidationErrors
		maxErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ae):
		if ae.Status >= http.StatusInternalServerError {
			return ae.Status, resp.GenericMessage
		}
		return ae.Status, ae.Error()
	case errors.As(err, &verrs):
		return http.StatusBadRequest, validationMessage(verrs)
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, ""
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, resp.GenericMessage
	}
}

func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: must satisfy %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// bindError 绑定阶段的解析错误（空 body、JSON 语法、类型不符）统一为 400
func bindError(err error) error {
	var (
		ae     *errs.Error
		verrs  validator.ValidationErrors
		maxErr *http.MaxBytesError
	)
	if errors.As(err, &ae) || errors.As(err, &verrs) || errors.As(err, &maxErr) {
		return err
	}
	if errors.Is(err, io.EOF) {
		return errs.BadRequest("Request body is empty")
	}
	return &errs.Error{Status: http.StatusBadRequest, Msg: "Malformed request: " + err.Error(), Err: err}
}
