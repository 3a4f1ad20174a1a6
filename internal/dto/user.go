package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"ads-online/internal/domain"
)

type User struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Phone     string      `json:"phone"`
	Role      domain.Role `json:"role"`
	Image     *string     `json:"image"`
}

type UpdateUser struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=16"`
	LastName  string `json:"lastName"  binding:"required,min=2,max=16"`
	Phone     string `json:"phone"     binding:"required,phone"`
}

type NewPassword struct {
	CurrentPassword string `json:"currentPassword" binding:"required,min=8,max=16"`
	NewPassword     string `json:"newPassword"     binding:"required,min=8,max=16"`
}

type Login struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Register struct {
	Username  string      `json:"username"  binding:"required,min=4,max=32"`
	Password  string      `json:"password"  binding:"required,min=8,max=16"`
	FirstName string      `json:"firstName" binding:"required,min=2,max=16"`
	LastName  string      `json:"lastName"  binding:"required,min=2,max=16"`
	Phone     string      `json:"phone"     binding:"required,phone"`
	Role      domain.Role `json:"role"      binding:"omitempty,oneof=USER ADMIN"`
}

type Token struct {
	Token string `json:"token"`
}

func ToUser(u domain.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		Image:     u.Image,
	}
}

func ToUpdateUser(u domain.User) UpdateUser {
	return UpdateUser{FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone}
}

// +7 (999) 123-45-67，空格/括号/连字符可省略
var phonePattern = regexp.MustCompile(`^\+7\s?\(?\d{3}\)?\s?\d{3}-?\d{2}-?\d{2}$`)

// RegisterValidations 注册自定义校验规则（gin 的 binding 引擎启动时调用一次）
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}
