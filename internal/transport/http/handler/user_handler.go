package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ads-online/internal/domain"
	"ads-online/internal/dto"
	"ads-online/internal/service"
	httpez "ads-online/internal/transport/http/ez"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) MountAPI(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[dto.NewPassword, struct{}]{
		Method: http.MethodPatch,
		Path:   "/users/set_password",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, in *dto.NewPassword) (struct{}, error) {
			return struct{}{}, h.users.SetPassword(c.Request.Context(), p, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, dto.User]{
		Method: http.MethodGet,
		Path:   "/users/me",
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (dto.User, error) {
			return h.users.GetProfile(c.Request.Context(), p)
		},
	})

	httpez.RegisterAction(e, httpez.Action[dto.UpdateUser, dto.UpdateUser]{
		Method: http.MethodPatch,
		Path:   "/users/me",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, in *dto.UpdateUser) (dto.UpdateUser, error) {
			return h.users.UpdateProfile(c.Request.Context(), p, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, string]{
		Method: http.MethodPatch,
		Path:   "/users/me/image",
		Auth:   true,
		Text:   true,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (string, error) {
			image, err := httpez.FormBytes(c, "image")
			if err != nil {
				return "", err
			}
			return h.users.UpdateAvatar(c.Request.Context(), p, image)
		},
	})
}
