package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Realm Basic 认证质询
const Realm = `Basic realm="ads-online"`

// ErrorBody 统一错误体 {status, message}
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error customMsg 为空时取默认文案
func Error(status int, customMsg string) ErrorBody {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[status]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return ErrorBody{Status: status, Message: msg}
}

func Abort(c *gin.Context, status int, customMsg string) {
	c.AbortWithStatusJSON(status, Error(status, customMsg))
}

// AbortUnauthorized 401 不带响应体
func AbortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", Realm)
	c.AbortWithStatus(http.StatusUnauthorized)
}
