package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter 基础引擎：最外层 panic 兜底（带堆栈）+ CORS；访问日志由 middleware.AccessLog 负责
func NewRouter(l *zap.Logger, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(l, true))
	r.Use(cors.New(CORSConfig(allowOrigins)))
	return r
}

func CORSConfig(allowOrigins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(allowOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = allowOrigins
		c.AllowCredentials = true
	}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	c.AddAllowHeaders("Authorization", "X-Request-ID")
	c.AddExposeHeaders("Location", "X-Request-ID")
	return c
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
