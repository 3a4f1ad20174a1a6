package repo

import (
	"context"

	"gorm.io/gorm"

	"ads-online/internal/domain"
)

// Store 聚合四个仓储；WithinTx 内的仓储共享同一个 *gorm.DB 事务
type Store struct {
	db *gorm.DB
	domain.Repos
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, Repos: reposOn(db)}
}

func reposOn(db *gorm.DB) domain.Repos {
	return domain.Repos{
		Users:    NewUserRepo(db),
		Ads:      NewAdRepo(db),
		Comments: NewCommentRepo(db),
		Images:   NewImageRepo(db),
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(r domain.Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposOn(tx))
	})
}

// Models 自动迁移的全部模型（顺序即建表顺序）
func Models() []any {
	return []any{&domain.User{}, &domain.Image{}, &domain.Ad{}, &domain.Comment{}}
}
