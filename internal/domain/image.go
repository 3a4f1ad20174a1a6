package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const ImageURLPrefix = "/images/"

type Image struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Data []byte `gorm:"not null" json:"data"`
}

func (Image) TableName() string { return "images" }

type ImageRepository interface {
	Create(ctx context.Context, img *Image) error
	FindByID(ctx context.Context, id int64) (*Image, error)
	Update(ctx context.Context, img *Image) error
	Delete(ctx context.Context, id int64) error
}

// ImageRef 图片引用字符串：/images/{id}
func ImageRef(id int64) string { return ImageURLPrefix + strconv.FormatInt(id, 10) }

// ParseImageRef 只接受 /images/{正整数}
func ParseImageRef(ref string) (int64, error) {
	if !strings.HasPrefix(ref, ImageURLPrefix) {
		return 0, fmt.Errorf("image reference %q has no %s prefix", ref, ImageURLPrefix)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(ref, ImageURLPrefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("image reference %q: %w", ref, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("image reference %q: non-positive id", ref)
	}
	return id, nil
}
