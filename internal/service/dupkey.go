package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDupKey 唯一约束冲突（postgres/mysql 的报错文本不一致，按关键字兜底）
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
