package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"ads-online/internal/domain"
	httpez "ads-online/internal/transport/http/ez"
	mdw "ads-online/internal/transport/http/middleware"
)

// NewAdminEngine 管理端 v1（统一要求 ADMIN 角色；整组共享一个令牌桶）
func NewAdminEngine(d Deps, reg *Registry) *gin.Engine {
	r := baseEngine(d)
	admin := r.Group("/admin/v1",
		mdw.RateLimit(rate.Limit(d.Limits.RPS), d.Limits.Burst),
		mdw.Auth(d.Auth, d.JWT, true, d.Log),
		mdw.RequireRole(domain.RoleAdmin),
	)
	reg.MountAllAdmin(httpez.New(admin, d.Log))
	return r
}
