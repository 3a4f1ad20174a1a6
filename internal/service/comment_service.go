package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
	"ads-online/internal/dto"
)

type CommentService struct {
	ads      domain.AdRepository
	comments domain.CommentRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewCommentService(ads domain.AdRepository, comments domain.CommentRepository, log *zap.Logger) *CommentService {
	return &CommentService{ads: ads, comments: comments, log: log, now: time.Now}
}

func (s *CommentService) requireAd(ctx context.Context, adID int64) error {
	ad, err := s.ads.FindByID(ctx, adID)
	if err != nil {
		return err
	}
	if ad == nil {
		s.log.Warn("ad not found", zap.Int64("ad_id", adID))
		return errs.NotFound("Ad with id=%d was not found", adID)
	}
	return nil
}

func (s *CommentService) ListForAd(ctx context.Context, adID int64) (dto.Comments, error) {
	if err := s.requireAd(ctx, adID); err != nil {
		return dto.Comments{}, err
	}
	list, err := s.comments.ListByAd(ctx, adID)
	if err != nil {
		return dto.Comments{}, err
	}
	return dto.ToComments(list), nil
}

func (s *CommentService) Create(ctx context.Context, p domain.Principal, adID int64, in dto.CreateOrUpdateComment) (dto.Comment, error) {
	if err := s.requireAd(ctx, adID); err != nil {
		return dto.Comment{}, err
	}
	c := domain.Comment{
		Text:      in.Text,
		CreatedAt: s.now().UnixMilli(),
		AuthorID:  p.ID,
		AdID:      adID,
	}
	if err := s.comments.Create(ctx, &c); err != nil {
		return dto.Comment{}, err
	}
	// 重新读取以带出作者姓名/头像
	saved, err := s.find(ctx, c.ID)
	if err != nil {
		return dto.Comment{}, err
	}
	s.log.Info("comment created", zap.Int64("comment_id", c.ID), zap.Int64("ad_id", adID))
	return dto.ToComment(*saved), nil
}

func (s *CommentService) find(ctx context.Context, id int64) (*domain.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		s.log.Warn("comment not found", zap.Int64("comment_id", id))
		return nil, errs.NotFound("Comment with id=%d was not found", id)
	}
	return c, nil
}

// findOnAd 评论须属于 adID
func (s *CommentService) findOnAd(ctx context.Context, adID, id int64) (*domain.Comment, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AdID != adID {
		return nil, errs.NotFound("Comment id=%d does not belong to ad id=%d", id, adID)
	}
	return c, nil
}

// Update 调用方须已通过 Authorizer；只改 text
func (s *CommentService) Update(ctx context.Context, adID, id int64, in dto.CreateOrUpdateComment) (dto.Comment, error) {
	c, err := s.findOnAd(ctx, adID, id)
	if err != nil {
		return dto.Comment{}, err
	}
	c.Text = in.Text
	if err := s.comments.Update(ctx, c); err != nil {
		return dto.Comment{}, err
	}
	return dto.ToComment(*c), nil
}

func (s *CommentService) Delete(ctx context.Context, adID, id int64) error {
	if _, err := s.findOnAd(ctx, adID, id); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("comment deleted", zap.Int64("comment_id", id), zap.Int64("ad_id", adID))
	return nil
}
