package domain

import "context"

type Comment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Text      string `gorm:"size:64;not null"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:milli"` // epoch 毫秒
	AuthorID  int64  `gorm:"not null;index"`
	Author    User   `gorm:"foreignKey:AuthorID;references:ID"`
	AdID      int64  `gorm:"not null;index"`
	Ad        *Ad    `gorm:"foreignKey:AdID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Comment) TableName() string { return "comments" }

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	FindByID(ctx context.Context, id int64) (*Comment, error)
	ListByAd(ctx context.Context, adID int64) ([]Comment, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id int64) error
	DeleteByAd(ctx context.Context, adID int64) (int64, error)
}
