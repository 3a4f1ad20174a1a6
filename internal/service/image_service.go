package service

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"ads-online/internal/core/cache"
	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
)

type ImageService struct {
	repo    domain.ImageRepository
	cache   *cache.Cache
	ttl     time.Duration
	maxSize int
	log     *zap.Logger
}

// NewImageService c 可为 nil（不启用 redis）
func NewImageService(repo domain.ImageRepository, c *cache.Cache, ttl time.Duration, maxSize int, log *zap.Logger) *ImageService {
	return &ImageService{repo: repo, cache: c, ttl: ttl, maxSize: maxSize, log: log}
}

// on 绑定到事务内的仓储
func (s *ImageService) on(repo domain.ImageRepository) *ImageService {
	cp := *s
	cp.repo = repo
	return &cp
}

func cacheKey(id int64) string { return "image:" + strconv.FormatInt(id, 10) }

func (s *ImageService) Get(ctx context.Context, id int64) (*domain.Image, error) {
	img, err := cache.GetOrLoadJSON(s.cache, ctx, cacheKey(id), s.ttl, func(ctx context.Context) (*domain.Image, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if img == nil {
		s.log.Warn("image not found", zap.Int64("image_id", id))
		return nil, errs.NotFound("Image with id=%d was not found", id)
	}
	return img, nil
}

func (s *ImageService) validate(data []byte) error {
	if len(data) == 0 {
		imagesRejected.WithLabelValues("empty").Inc()
		s.log.Warn("no image provided or empty image data")
		return errs.ImageUpload("No image provided or empty image data")
	}
	if s.maxSize > 0 && len(data) > s.maxSize {
		imagesRejected.WithLabelValues("too_large").Inc()
		s.log.Warn("image too large", zap.Int("size", len(data)), zap.Int("max", s.maxSize))
		return errs.ImageUpload("Image size exceeds the allowed limit: %d bytes", s.maxSize)
	}
	if mt := ContentType(data); !strings.HasPrefix(mt, "image/") {
		imagesRejected.WithLabelValues("mime").Inc()
		s.log.Warn("unsupported image type", zap.String("mime", mt))
		return errs.ImageUpload("Unsupported media type: %s", mt)
	}
	return nil
}

func (s *ImageService) Upload(ctx context.Context, data []byte) (*domain.Image, error) {
	if err := s.validate(data); err != nil {
		return nil, err
	}
	img := &domain.Image{Data: data}
	if err := s.repo.Create(ctx, img); err != nil {
		return nil, errs.Internal("Image upload failed", err)
	}
	imagesUploaded.Inc()
	imageUploadBytes.Observe(float64(len(data)))
	return img, nil
}

// Update 内容完全一致时不写库
func (s *ImageService) Update(ctx context.Context, id int64, data []byte) (*domain.Image, error) {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		s.log.Warn("image not found", zap.Int64("image_id", id))
		return nil, errs.NotFound("Image with id=%d was not found", id)
	}
	if bytes.Equal(img.Data, data) {
		s.log.Info("image is unchanged, skipping save", zap.Int64("image_id", id))
		return img, nil
	}
	if err := s.validate(data); err != nil {
		return nil, err
	}
	img.Data = data
	if err := s.repo.Update(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ImageService) Delete(ctx context.Context, id int64) error {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if img == nil {
		s.log.Warn("image not found", zap.Int64("image_id", id))
		return errs.NotFound("Image with id=%d was not found", id)
	}
	return s.repo.Delete(ctx, id)
}

// Evict 事务提交后清缓存（延迟双删）
func (s *ImageService) Evict(ctx context.Context, ids ...int64) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cacheKey(id))
	}
	if err := s.cache.InvalidateDelayed(ctx, keys...); err != nil {
		s.log.Warn("image cache invalidate failed", zap.Error(err))
	}
}

// ContentType 按字节魔数判定，不落库
func ContentType(data []byte) string {
	return mimetype.Detect(data).String()
}
