package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ads-online/internal/service"
	httpez "ads-online/internal/transport/http/ez"
)

type ImageHandler struct {
	images *service.ImageService
}

func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

func (h *ImageHandler) MountAPI(e httpez.EZ) {
	// Content-Type 按字节嗅探
	e.Raw(http.MethodGet, "/images/:id", func(c *gin.Context) error {
		id, err := httpez.ParamID(c, "id")
		if err != nil {
			return err
		}
		img, err := h.images.Get(c.Request.Context(), id)
		if err != nil {
			return err
		}
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, service.ContentType(img.Data), img.Data)
		return nil
	})
}
