package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 错误分类，调用方通过 errors.Is 区分处理方式。
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("uniqueness conflict")
	ErrTransform  = errors.New("transform failed")
)

var (
	ErrPageNotFound       = fmt.Errorf("page %w", ErrNotFound)
	ErrSectionNotFound    = fmt.Errorf("section %w", ErrNotFound)
	ErrMediaNotFound      = fmt.Errorf("media asset %w", ErrNotFound)
	ErrPageNameMissing    = fmt.Errorf("page name is required: %w", ErrValidation)
	ErrPageSlugInvalid    = fmt.Errorf("page slug is invalid: %w", ErrValidation)
	ErrInvalidSectionType = fmt.Errorf("invalid section type: %w", ErrValidation)
	ErrInvalidDirection   = fmt.Errorf("move direction must be up or down: %w", ErrValidation)
	ErrSlugTaken          = fmt.Errorf("slug already taken: %w", ErrConflict)
	ErrSortOrderTaken     = fmt.Errorf("sort position already taken: %w", ErrConflict)
)

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
