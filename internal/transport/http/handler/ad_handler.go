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

type AdHandler struct {
	ads   *service.AdService
	authz *service.Authorizer
}

func NewAdHandler(ads *service.AdService, authz *service.Authorizer) *AdHandler {
	return &AdHandler{ads: ads, authz: authz}
}

func (h *AdHandler) Priority() int { return 10 }

func (h *AdHandler) MountAPI(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[struct{}, dto.Ads]{
		Method: http.MethodGet,
		Path:   "/ads",
		Handler: func(c *gin.Context, _ domain.Principal, _ *struct{}) (dto.Ads, error) {
			return h.ads.ListAll(c.Request.Context())
		},
	})

	// multipart: properties(JSON) + image
	httpez.RegisterAction(e, httpez.Action[dto.CreateOrUpdateAd, dto.Ad]{
		Method: http.MethodPost,
		Path:   "/ads",
		Binder: httpez.BindMultipart,
		Part:   "properties",
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p domain.Principal, in *dto.CreateOrUpdateAd) (dto.Ad, error) {
			image, err := httpez.FormBytes(c, "image")
			if err != nil {
				return dto.Ad{}, err
			}
			ad, err := h.ads.Create(c.Request.Context(), p, *in, image)
			if err != nil {
				return dto.Ad{}, err
			}
			c.Header("Location", fmt.Sprintf("/ads/%d", ad.PK))
			return ad, nil
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, dto.Ads]{
		Method: http.MethodGet,
		Path:   "/ads/me",
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (dto.Ads, error) {
			return h.ads.ListForUser(c.Request.Context(), p)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, dto.ExtendedAd]{
		Method: http.MethodGet,
		Path:   "/ads/:id",
		Handler: func(c *gin.Context, _ domain.Principal, _ *struct{}) (dto.ExtendedAd, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return dto.ExtendedAd{}, err
			}
			return h.ads.Get(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction(e, httpez.Action[dto.CreateOrUpdateAd, dto.Ad]{
		Method: http.MethodPatch,
		Path:   "/ads/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, in *dto.CreateOrUpdateAd) (dto.Ad, error) {
			id, err := h.authorized(c, p)
			if err != nil {
				return dto.Ad{}, err
			}
			return h.ads.Update(c.Request.Context(), id, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/ads/:id",
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (struct{}, error) {
			id, err := h.authorized(c, p)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.ads.Delete(c.Request.Context(), id)
		},
	})

	// 返回新的图片引用（text/plain）
	httpez.RegisterAction(e, httpez.Action[struct{}, string]{
		Method: http.MethodPatch,
		Path:   "/ads/:id/image",
		Auth:   true,
		Text:   true,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (string, error) {
			id, err := h.authorized(c, p)
			if err != nil {
				return "", err
			}
			image, err := httpez.FormBytes(c, "image")
			if err != nil {
				return "", err
			}
			return h.ads.UpdateImage(c.Request.Context(), id, image)
		},
	})
}

// authorized 解析 :id 并校验作者/管理员
func (h *AdHandler) authorized(c *gin.Context, p domain.Principal) (int64, error) {
	id, err := httpez.ParamID(c, "id")
	if err != nil {
		return 0, err
	}
	return id, h.authz.RequireAd(c.Request.Context(), p, id)
}
