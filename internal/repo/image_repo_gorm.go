package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ads-online/internal/domain"
)

type ImageRepo struct{ db *gorm.DB }

func NewImageRepo(db *gorm.DB) *ImageRepo { return &ImageRepo{db: db} }

func (r *ImageRepo) Create(ctx context.Context, img *domain.Image) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *ImageRepo) FindByID(ctx context.Context, id int64) (*domain.Image, error) {
	var img domain.Image
	err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *ImageRepo) Update(ctx context.Context, img *domain.Image) error {
	return r.db.WithContext(ctx).Model(img).Update("data", img.Data).Error
}

func (r *ImageRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Image{}).Error
}
