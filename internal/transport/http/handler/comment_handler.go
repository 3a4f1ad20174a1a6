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

type CommentHandler struct {
	comments *service.CommentService
	authz    *service.Authorizer
}

func NewCommentHandler(comments *service.CommentService, authz *service.Authorizer) *CommentHandler {
	return &CommentHandler{comments: comments, authz: authz}
}

func (h *CommentHandler) Priority() int { return 20 }

func (h *CommentHandler) MountAPI(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[struct{}, dto.Comments]{
		Method: http.MethodGet,
		Path:   "/ads/:id/comments",
		Auth:   true,
		Handler: func(c *gin.Context, _ domain.Principal, _ *struct{}) (dto.Comments, error) {
			adID, err := httpez.ParamID(c, "id")
			if err != nil {
				return dto.Comments{}, err
			}
			return h.comments.ListForAd(c.Request.Context(), adID)
		},
	})

	httpez.RegisterAction(e, httpez.Action[dto.CreateOrUpdateComment, dto.Comment]{
		Method: http.MethodPost,
		Path:   "/ads/:id/comments",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p domain.Principal, in *dto.CreateOrUpdateComment) (dto.Comment, error) {
			adID, err := httpez.ParamID(c, "id")
			if err != nil {
				return dto.Comment{}, err
			}
			out, err := h.comments.Create(c.Request.Context(), p, adID, *in)
			if err != nil {
				return dto.Comment{}, err
			}
			c.Header("Location", fmt.Sprintf("/ads/%d/comments/%d", adID, out.PK))
			return out, nil
		},
	})

	httpez.RegisterAction(e, httpez.Action[dto.CreateOrUpdateComment, dto.Comment]{
		Method: http.MethodPatch,
		Path:   "/ads/:id/comments/:commentId",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, in *dto.CreateOrUpdateComment) (dto.Comment, error) {
			adID, commentID, err := h.authorized(c, p)
			if err != nil {
				return dto.Comment{}, err
			}
			return h.comments.Update(c.Request.Context(), adID, commentID, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/ads/:id/comments/:commentId",
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (struct{}, error) {
			adID, commentID, err := h.authorized(c, p)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.comments.Delete(c.Request.Context(), adID, commentID)
		},
	})
}

func (h *CommentHandler) authorized(c *gin.Context, p domain.Principal) (adID, commentID int64, err error) {
	if adID, err = httpez.ParamID(c, "id"); err != nil {
		return 0, 0, err
	}
	if commentID, err = httpez.ParamID(c, "commentId"); err != nil {
		return 0, 0, err
	}
	return adID, commentID, h.authz.RequireComment(c.Request.Context(), p, adID, commentID)
}
