package domain

import "context"

type Ad struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:32;not null"`
	Price       int    `gorm:"not null"`
	Description string `gorm:"size:64;not null"`
	Image       string `gorm:"size:64;not null"`
	AuthorID    int64  `gorm:"not null;index"`
	Author      User   `gorm:"foreignKey:AuthorID;references:ID"`
}

func (Ad) TableName() string { return "ads" }

type AdRepository interface {
	Create(ctx context.Context, a *Ad) error
	FindByID(ctx context.Context, id int64) (*Ad, error)
	List(ctx context.Context) ([]Ad, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]Ad, error)
	Update(ctx context.Context, a *Ad) error
	Delete(ctx context.Context, id int64) error
}
