package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string    `gorm:"column:password;size:100;not null"`
	FirstName    string    `gorm:"size:64;not null"`
	LastName     string    `gorm:"size:64;not null"`
	Phone        string    `gorm:"uniqueIndex;size:32;not null"`
	Role         Role      `gorm:"size:16;not null;default:USER"`
	Image        *string   `gorm:"size:64"` // 头像引用 /images/{id}
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, offset, limit int, q string) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
}
