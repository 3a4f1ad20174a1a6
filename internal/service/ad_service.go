package service

import (
	"bytes"
	"context"

	"go.uber.org/zap"

	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
	"ads-online/internal/dto"
)

type AdService struct {
	repos  domain.Repos
	tx     domain.Transactor
	images *ImageService
	log    *zap.Logger
}

func NewAdService(repos domain.Repos, tx domain.Transactor, images *ImageService, log *zap.Logger) *AdService {
	return &AdService{repos: repos, tx: tx, images: images, log: log}
}

func (s *AdService) ListAll(ctx context.Context) (dto.Ads, error) {
	ads, err := s.repos.Ads.List(ctx)
	if err != nil {
		return dto.Ads{}, err
	}
	return dto.ToAds(ads), nil
}

// Create 图片与广告同一事务写入，任一步失败都不留孤儿图片
func (s *AdService) Create(ctx context.Context, p domain.Principal, in dto.CreateOrUpdateAd, image []byte) (dto.Ad, error) {
	if len(image) == 0 {
		s.log.Warn("no image provided for ad", zap.String("title", in.Title))
		return dto.Ad{}, errs.ImageUpload("No image provided for ad")
	}
	ad := domain.Ad{AuthorID: p.ID}
	in.Apply(&ad)
	err := s.tx.WithinTx(ctx, func(r domain.Repos) error {
		img, err := s.images.on(r.Images).Upload(ctx, image)
		if err != nil {
			return err
		}
		ad.Image = domain.ImageRef(img.ID)
		return r.Ads.Create(ctx, &ad)
	})
	if err != nil {
		return dto.Ad{}, err
	}
	s.log.Info("ad created", zap.Int64("ad_id", ad.ID), zap.Int64("author_id", p.ID))
	return dto.ToAd(ad), nil
}

func (s *AdService) find(ctx context.Context, r domain.Repos, id int64) (*domain.Ad, error) {
	ad, err := r.Ads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		s.log.Warn("ad not found", zap.Int64("ad_id", id))
		return nil, errs.NotFound("Ad with id=%d was not found", id)
	}
	return ad, nil
}

func (s *AdService) Get(ctx context.Context, id int64) (dto.ExtendedAd, error) {
	ad, err := s.find(ctx, s.repos, id)
	if err != nil {
		return dto.ExtendedAd{}, err
	}
	return dto.ToExtendedAd(*ad), nil
}

// Update 调用方须已通过 Authorizer；图片不变
func (s *AdService) Update(ctx context.Context, id int64, in dto.CreateOrUpdateAd) (dto.Ad, error) {
	ad, err := s.find(ctx, s.repos, id)
	if err != nil {
		return dto.Ad{}, err
	}
	in.Apply(ad)
	if err := s.repos.Ads.Update(ctx, ad); err != nil {
		return dto.Ad{}, err
	}
	return dto.ToAd(*ad), nil
}

func (s *AdService) imageID(ad *domain.Ad) (int64, error) {
	id, err := domain.ParseImageRef(ad.Image)
	if err != nil {
		s.log.Error("failed to parse image id", zap.Int64("ad_id", ad.ID), zap.String("image", ad.Image), zap.Error(err))
		return 0, errs.ImageDeletion("Failed to parse image ID", err)
	}
	return id, nil
}

// Delete 删除广告及其评论与图片
func (s *AdService) Delete(ctx context.Context, id int64) error {
	var imageID, removed int64
	err := s.tx.WithinTx(ctx, func(r domain.Repos) error {
		ad, err := s.find(ctx, r, id)
		if err != nil {
			return err
		}
		if imageID, err = s.imageID(ad); err != nil {
			return err
		}
		if removed, err = r.Comments.DeleteByAd(ctx, id); err != nil {
			return err
		}
		if err := s.images.on(r.Images).Delete(ctx, imageID); err != nil {
			return err
		}
		return r.Ads.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.images.Evict(ctx, imageID)
	s.log.Info("ad deleted", zap.Int64("ad_id", id), zap.Int64("comments_removed", removed))
	return nil
}

// UpdateImage 上传新图、删除旧图、改写引用；返回新引用。内容相同则保持原图
func (s *AdService) UpdateImage(ctx context.Context, id int64, image []byte) (string, error) {
	var oldID int64
	var ref string
	err := s.tx.WithinTx(ctx, func(r domain.Repos) error {
		ad, err := s.find(ctx, r, id)
		if err != nil {
			return err
		}
		if oldID, err = s.imageID(ad); err != nil {
			return err
		}
		imgs := s.images.on(r.Images)
		if old, err := r.Images.FindByID(ctx, oldID); err != nil {
			return err
		} else if old != nil && bytes.Equal(old.Data, image) {
			s.log.Info("ad image is unchanged, skipping save", zap.Int64("ad_id", id))
			ref = ad.Image
			return nil
		}
		img, err := imgs.Upload(ctx, image)
		if err != nil {
			return err
		}
		if err := imgs.Delete(ctx, oldID); err != nil {
			return err
		}
		ad.Image = domain.ImageRef(img.ID)
		ref = ad.Image
		return r.Ads.Update(ctx, ad)
	})
	if err != nil {
		return "", err
	}
	s.images.Evict(ctx, oldID)
	return ref, nil
}

// ListForUser 没有广告时返回空集合
func (s *AdService) ListForUser(ctx context.Context, p domain.Principal) (dto.Ads, error) {
	ads, err := s.repos.Ads.ListByAuthor(ctx, p.ID)
	if err != nil {
		s.log.Warn("failed to load ads for user", zap.Int64("user_id", p.ID), zap.Error(err))
		return dto.Ads{}, errs.NotFound("No ads found for the current user")
	}
	return dto.ToAds(ads), nil
}
