package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ads-online/internal/domain"
	"ads-online/internal/dto"
	"ads-online/internal/service"
	httpez "ads-online/internal/transport/http/ez"
)

type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type listUsersQuery struct {
	Offset int    `form:"offset,default=0" binding:"min=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // 按用户名/姓名模糊搜
}

type setRoleIn struct {
	Role domain.Role `json:"role" binding:"required,oneof=USER ADMIN"`
}

// MountAdmin 分组须已挂 Auth + RequireRole(ADMIN)
func (h *AdminHandler) MountAdmin(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[listUsersQuery, service.UserPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ domain.Principal, in *listUsersQuery) (service.UserPage, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			return h.users.ListUsers(c.Request.Context(), in.Offset, in.Limit, strings.TrimSpace(in.Q))
		},
	})

	httpez.RegisterAction(e, httpez.Action[setRoleIn, dto.User]{
		Method: http.MethodPatch,
		Path:   "/users/:id/role",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ domain.Principal, in *setRoleIn) (dto.User, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return dto.User{}, err
			}
			return h.users.SetRole(c.Request.Context(), id, in.Role)
		},
	})
}
