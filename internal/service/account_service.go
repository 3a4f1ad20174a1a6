package service

import (
	"context"

	"go.uber.org/zap"

	"ads-online/internal/core/auth"
	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
	"ads-online/internal/dto"
	"ads-online/pkg/utils"
)

// AccountService 注册、登录与凭据校验
type AccountService struct {
	users              domain.UserRepository
	jwt                *auth.JWTer
	allowRoleSelection bool
	log                *zap.Logger
}

func NewAccountService(users domain.UserRepository, jwt *auth.JWTer, allowRoleSelection bool, log *zap.Logger) *AccountService {
	return &AccountService{users: users, jwt: jwt, allowRoleSelection: allowRoleSelection, log: log}
}

func (s *AccountService) Register(ctx context.Context, in dto.Register) (dto.User, error) {
	existing, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return dto.User{}, err
	}
	if existing != nil {
		s.log.Warn("username already taken", zap.String("username", in.Username))
		return dto.User{}, errs.BadRequest("User %s already exists", in.Username)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return dto.User{}, errs.Internal("hash password failed", err)
	}
	role := domain.RoleUser
	if s.allowRoleSelection && in.Role.Valid() {
		role = in.Role
	}
	u := domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         role,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if isDupKey(err) {
			return dto.User{}, errs.BadRequest("Username or phone is already registered")
		}
		return dto.User{}, err
	}
	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.String("role", string(role)))
	return dto.ToUser(u), nil
}

// Authenticate 用户不存在与密码错误返回同一个 401
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (domain.Principal, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.Principal{}, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return domain.Principal{}, errs.Unauthorized("Bad credentials")
	}
	return domain.PrincipalOf(u), nil
}

func (s *AccountService) Login(ctx context.Context, in dto.Login) (dto.Token, error) {
	p, err := s.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return dto.Token{}, err
	}
	tok, err := s.jwt.Issue(p.ID, string(p.Role))
	if err != nil {
		return dto.Token{}, errs.Internal("issue token failed", err)
	}
	return dto.Token{Token: tok}, nil
}

// Resolve bearer token 中的 uid 重新查库，角色以库为准
func (s *AccountService) Resolve(ctx context.Context, userID int64) (domain.Principal, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.Principal{}, err
	}
	if u == nil {
		return domain.Principal{}, errs.Unauthorized("Unknown user")
	}
	return domain.PrincipalOf(u), nil
}
