package service

import (
	"context"

	"go.uber.org/zap"

	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
)

// Authorizer 判断 principal 能否修改广告/评论：作者本人或 ADMIN。
// 资源不存在优先返回 NotFound，其次才是权限判断。
type Authorizer struct {
	ads      domain.AdRepository
	comments domain.CommentRepository
	log      *zap.Logger
}

func NewAuthorizer(ads domain.AdRepository, comments domain.CommentRepository, log *zap.Logger) *Authorizer {
	return &Authorizer{ads: ads, comments: comments, log: log}
}

func (a *Authorizer) CanModifyAd(ctx context.Context, p domain.Principal, adID int64) (bool, error) {
	ad, err := a.ads.FindByID(ctx, adID)
	if err != nil {
		return false, err
	}
	if ad == nil {
		a.log.Warn("ad not found", zap.Int64("ad_id", adID))
		return false, errs.NotFound("Ad with id=%d was not found", adID)
	}
	return p.Owns(ad.AuthorID) || p.IsAdmin(), nil
}

// CanModifyComment 评论不属于路径中的广告时按 NotFound 处理，不暴露其存在
func (a *Authorizer) CanModifyComment(ctx context.Context, p domain.Principal, adID, commentID int64) (bool, error) {
	c, err := a.comments.FindByID(ctx, commentID)
	if err != nil {
		return false, err
	}
	if c == nil {
		a.log.Warn("comment not found", zap.Int64("comment_id", commentID))
		return false, errs.NotFound("Comment with id=%d was not found", commentID)
	}
	if c.AdID != adID {
		a.log.Warn("comment does not belong to ad", zap.Int64("comment_id", commentID), zap.Int64("ad_id", adID))
		return false, errs.NotFound("Comment id=%d does not belong to ad id=%d", commentID, adID)
	}
	return p.Owns(c.AuthorID) || p.IsAdmin(), nil
}

// RequireAd CanModifyAd 的 false 转为 Forbidden
func (a *Authorizer) RequireAd(ctx context.Context, p domain.Principal, adID int64) error {
	ok, err := a.CanModifyAd(ctx, p, adID)
	if err != nil {
		return err
	}
	if !ok {
		a.log.Warn("forbidden ad mutation", zap.Int64("ad_id", adID), zap.Int64("user_id", p.ID))
		return errs.Forbidden("Access to ad id=%d is denied", adID)
	}
	return nil
}

func (a *Authorizer) RequireComment(ctx context.Context, p domain.Principal, adID, commentID int64) error {
	ok, err := a.CanModifyComment(ctx, p, adID, commentID)
	if err != nil {
		return err
	}
	if !ok {
		a.log.Warn("forbidden comment mutation", zap.Int64("comment_id", commentID), zap.Int64("user_id", p.ID))
		return errs.Forbidden("Access to comment id=%d is denied", commentID)
	}
	return nil
}
