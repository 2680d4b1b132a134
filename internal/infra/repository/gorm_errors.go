package repository

import (
	"errors"

	repo "delivery/internal/repository"

	"gorm.io/gorm"
)

// 一意制約違反を repository のエラーにそろえる（TranslateError 前提）
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicate
	}
	return err
}
