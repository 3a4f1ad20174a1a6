package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ads-online/internal/domain"
	"ads-online/internal/dto"
	"ads-online/internal/service"
	httpez "ads-online/internal/transport/http/ez"
)

type AuthHandler struct {
	accounts *service.AccountService
}

func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

func (h *AuthHandler) Priority() int { return 0 }

func (h *AuthHandler) MountAPI(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[dto.Register, dto.User]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ domain.Principal, in *dto.Register) (dto.User, error) {
			u, err := h.accounts.Register(c.Request.Context(), *in)
			if err != nil {
				return dto.User{}, err
			}
			c.Header("Location", fmt.Sprintf("/users/%d", u.ID))
			return u, nil
		},
	})

	// Basic 之外的可选方式：换取 Bearer token
	httpez.RegisterAction(e, httpez.Action[dto.Login, dto.Token]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ domain.Principal, in *dto.Login) (dto.Token, error) {
			return h.accounts.Login(c.Request.Context(), *in)
		},
	})
}
