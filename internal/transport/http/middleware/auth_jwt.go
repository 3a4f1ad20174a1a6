package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ads-online/internal/core/auth"
	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
	resp "ads-online/internal/transport/http/response"
)

const KeyPrincipal = "principal"

// Authenticator 由 service.AccountService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domain.Principal, error)
	Resolve(ctx context.Context, userID int64) (domain.Principal, error)
}

// Auth 解析 Basic 或 Bearer 凭据并写入 principal。
// required=false 时无凭据直接放行，由具体路由决定是否需要登录；凭据无效一律 401。
func Auth(a Authenticator, j *auth.JWTer, required bool, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			if required {
				resp.AbortUnauthorized(c)
				return
			}
			c.Next()
			return
		}

		var p domain.Principal
		var err error
		switch {
		case strings.HasPrefix(ah, "Bearer "):
			var claims *auth.Claims
			if j == nil {
				resp.AbortUnauthorized(c)
				return
			}
			if claims, err = j.Parse(strings.TrimPrefix(ah, "Bearer ")); err != nil {
				resp.AbortUnauthorized(c)
				return
			}
			p, err = a.Resolve(c.Request.Context(), claims.UID)
		default:
			user, pass, ok := c.Request.BasicAuth()
			if !ok {
				resp.AbortUnauthorized(c)
				return
			}
			p, err = a.Authenticate(c.Request.Context(), user, pass)
		}
		if err != nil {
			if errs.StatusOf(err) == http.StatusUnauthorized {
				resp.AbortUnauthorized(c)
				return
			}
			l.Error("authentication failed", zap.Error(err))
			resp.Abort(c, http.StatusInternalServerError, "")
			return
		}
		c.Set(KeyPrincipal, p)
		c.Next()
	}
}

// RequireRole 须在 Auth 之后
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			resp.AbortUnauthorized(c)
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		resp.Abort(c, http.StatusForbidden, "")
	}
}

func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(KeyPrincipal)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}
