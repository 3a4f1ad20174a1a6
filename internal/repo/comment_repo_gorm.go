package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ads-online/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *CommentRepo) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) ListByAd(ctx context.Context, adID int64) ([]domain.Comment, error) {
	cs := []domain.Comment{}
	err := r.db.WithContext(ctx).Preload("Author").
		Where("ad_id = ?", adID).Order("created_at, id").Find(&cs).Error
	return cs, err
}

func (r *CommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *CommentRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{}).Error
}

// DeleteByAd 不依赖外键级联，显式删除
func (r *CommentRepo) DeleteByAd(ctx context.Context, adID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("ad_id = ?", adID).Delete(&domain.Comment{})
	return res.RowsAffected, res.Error
}
