package service

import (
	"context"

	"go.uber.org/zap"

	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
	"ads-online/internal/dto"
	"ads-online/pkg/utils"
)

type UserService struct {
	repos  domain.Repos
	tx     domain.Transactor
	images *ImageService
	log    *zap.Logger
}

func NewUserService(repos domain.Repos, tx domain.Transactor, images *ImageService, log *zap.Logger) *UserService {
	return &UserService{repos: repos, tx: tx, images: images, log: log}
}

func (s *UserService) find(ctx context.Context, r domain.Repos, id int64) (*domain.User, error) {
	u, err := r.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.log.Warn("user not found", zap.Int64("user_id", id))
		return nil, errs.NotFound("User with id=%d was not found", id)
	}
	return u, nil
}

// SetPassword 旧密码不匹配返回 403，库内哈希不变
func (s *UserService) SetPassword(ctx context.Context, p domain.Principal, in dto.NewPassword) error {
	u, err := s.find(ctx, s.repos, p.ID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(in.CurrentPassword, u.PasswordHash) {
		s.log.Warn("wrong current password", zap.Int64("user_id", p.ID))
		return errs.Forbidden("Wrong password")
	}
	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return errs.Internal("hash password failed", err)
	}
	u.PasswordHash = hash
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return err
	}
	s.log.Info("password updated", zap.Int64("user_id", p.ID))
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, p domain.Principal) (dto.User, error) {
	u, err := s.find(ctx, s.repos, p.ID)
	if err != nil {
		return dto.User{}, err
	}
	return dto.ToUser(*u), nil
}

// UpdateProfile 只改姓名与手机号
func (s *UserService) UpdateProfile(ctx context.Context, p domain.Principal, in dto.UpdateUser) (dto.UpdateUser, error) {
	u, err := s.find(ctx, s.repos, p.ID)
	if err != nil {
		return dto.UpdateUser{}, err
	}
	u.FirstName, u.LastName, u.Phone = in.FirstName, in.LastName, in.Phone
	if err := s.repos.Users.Update(ctx, u); err != nil {
		if isDupKey(err) {
			return dto.UpdateUser{}, errs.BadRequest("Phone %s is already in use", in.Phone)
		}
		return dto.UpdateUser{}, err
	}
	return dto.ToUpdateUser(*u), nil
}

// UpdateAvatar 首次上传新建图片；之后原地更新同一张图片
func (s *UserService) UpdateAvatar(ctx context.Context, p domain.Principal, image []byte) (string, error) {
	var ref string
	var evict int64
	err := s.tx.WithinTx(ctx, func(r domain.Repos) error {
		u, err := s.find(ctx, r, p.ID)
		if err != nil {
			return err
		}
		imgs := s.images.on(r.Images)
		if u.Image != nil {
			id, err := domain.ParseImageRef(*u.Image)
			if err != nil {
				s.log.Error("failed to parse avatar id", zap.Int64("user_id", p.ID), zap.String("image", *u.Image), zap.Error(err))
				return errs.Internal("Failed to parse avatar image ID", err)
			}
			_, err = imgs.Update(ctx, id, image)
			if err == nil {
				evict, ref = id, *u.Image
				return nil
			}
			if !errs.IsNotFound(err) {
				return err
			}
			// 引用指向的图片已不存在，改为新建
			s.log.Warn("avatar image missing, uploading new one", zap.Int64("user_id", p.ID), zap.Int64("image_id", id))
		}
		img, err := imgs.Upload(ctx, image)
		if err != nil {
			return err
		}
		ref = domain.ImageRef(img.ID)
		u.Image = &ref
		return r.Users.Update(ctx, u)
	})
	if err != nil {
		s.log.Warn("avatar update failed", zap.Int64("user_id", p.ID), zap.Error(err))
		return "", err
	}
	if evict != 0 {
		s.images.Evict(ctx, evict)
	}
	return ref, nil
}

type UserPage struct {
	Total int64      `json:"total"`
	Items []dto.User `json:"items"`
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int, q string) (UserPage, error) {
	list, total, err := s.repos.Users.List(ctx, offset, limit, q)
	if err != nil {
		return UserPage{}, err
	}
	out := UserPage{Total: total, Items: make([]dto.User, 0, len(list))}
	for _, u := range list {
		out.Items = append(out.Items, dto.ToUser(u))
	}
	return out, nil
}

func (s *UserService) SetRole(ctx context.Context, id int64, role domain.Role) (dto.User, error) {
	if !role.Valid() {
		return dto.User{}, errs.BadRequest("Unknown role: %s", role)
	}
	u, err := s.find(ctx, s.repos, id)
	if err != nil {
		return dto.User{}, err
	}
	if u.Role != role {
		u.Role = role
		if err := s.repos.Users.Update(ctx, u); err != nil {
			return dto.User{}, err
		}
		s.log.Info("user role changed", zap.Int64("user_id", id), zap.String("role", string(role)))
	}
	return dto.ToUser(*u), nil
}
