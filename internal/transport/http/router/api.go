package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ads-online/internal/core/auth"
	"ads-online/internal/core/config"
	"ads-online/internal/core/server"
	"ads-online/internal/dto"
	httpez "ads-online/internal/transport/http/ez"
	mdw "ads-online/internal/transport/http/middleware"
)

// Deps 引擎依赖
type Deps struct {
	Log     *zap.Logger
	Limits  config.Limits
	Origins []string
	Auth    mdw.Authenticator
	JWT     *auth.JWTer
	Health  func() error // 可选：DB/redis 探活
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidations(v); err != nil {
			panic(err)
		}
	}
}

func baseEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, d.Origins)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(rate.Limit(d.Limits.RPS), d.Limits.Burst),
		mdw.ConcurrencyLimit(d.Limits.Concurrency),
		mdw.MaxBodyBytes(d.Limits.MaxBodyBytes),
		mdw.Timeout(time.Duration(d.Limits.TimeoutSec)*time.Second),
		mdw.SimpleRecovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(); err != nil {
				d.Log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine 用户端；凭据可选，是否必须登录由各 Action 决定
func NewAPIEngine(d Deps, reg *Registry) *gin.Engine {
	r := baseEngine(d)
	api := r.Group("", mdw.Auth(d.Auth, d.JWT, false, d.Log))
	reg.MountAllAPI(httpez.New(api, d.Log))
	return r
}
