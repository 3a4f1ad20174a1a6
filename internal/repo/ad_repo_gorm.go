package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ads-online/internal/domain"
)

type AdRepo struct{ db *gorm.DB }

func NewAdRepo(db *gorm.DB) *AdRepo { return &AdRepo{db: db} }

func (r *AdRepo) Create(ctx context.Context, a *domain.Ad) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *AdRepo) FindByID(ctx context.Context, id int64) (*domain.Ad, error) {
	var a domain.Ad
	err := r.db.WithContext(ctx).Preload("Author").First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdRepo) List(ctx context.Context) ([]domain.Ad, error) {
	ads := []domain.Ad{}
	err := r.db.WithContext(ctx).Order("id").Find(&ads).Error
	return ads, err
}

func (r *AdRepo) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Ad, error) {
	ads := []domain.Ad{}
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("id").Find(&ads).Error
	return ads, err
}

func (r *AdRepo) Update(ctx context.Context, a *domain.Ad) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *AdRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Ad{}).Error
}
