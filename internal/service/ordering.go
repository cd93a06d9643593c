package service

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pagecraft/internal/db"
	"gorm.io/gorm"
)

// Direction 表示区块在页面内移动的方向。
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection accepts "up" or "down" in any case.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case DirectionUp:
		return DirectionUp, nil
	case DirectionDown:
		return DirectionDown, nil
	default:
		return "", ErrInvalidDirection
	}
}

// MoveUp swaps the section with its previous sibling. It reports false when
// the section is already first.
func (s *SectionService) MoveUp(sectionID uint) (bool, error) {
	return s.Move(sectionID, DirectionUp)
}

// MoveDown swaps the section with its next sibling. It reports false when
// the section is already last.
func (s *SectionService) MoveDown(sectionID uint) (bool, error) {
	return s.Move(sectionID, DirectionDown)
}

// Move 与相邻区块交换排序位置，两次写入在同一事务内完成。
// (page_id, sort_order) 有唯一索引，交换时先把当前区块停放到页面最小位置之前，
// 事务提交后外部观察不到该中间值。
func (s *SectionService) Move(sectionID uint, direction Direction) (bool, error) {
	if direction != DirectionUp && direction != DirectionDown {
		return false, ErrInvalidDirection
	}

	moved := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		section, err := s.load(tx, sectionID)
		if err != nil {
			return err
		}

		query := tx.Where("page_id = ?", section.PageID)
		if direction == DirectionUp {
			query = query.Where("sort_order < ?", section.SortOrder).Order("sort_order desc")
		} else {
			query = query.Where("sort_order > ?", section.SortOrder).Order("sort_order asc")
		}

		var neighbor db.Section
		if err := query.First(&neighbor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Debug("section already at boundary", "section", section.ID, "direction", direction)
				return nil
			}
			return err
		}

		var minOrder int
		if err := tx.Model(&db.Section{}).
			Where("page_id = ?", section.PageID).
			Select("COALESCE(MIN(sort_order), 0)").
			Scan(&minOrder).Error; err != nil {
			return err
		}

		steps := []struct {
			id    uint
			order int
		}{
			{section.ID, minOrder - 1},
			{neighbor.ID, section.SortOrder},
			{section.ID, neighbor.SortOrder},
		}
		for _, step := range steps {
			if err := tx.Model(&db.Section{}).Where("id = ?", step.id).Update("sort_order", step.order).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrSortOrderTaken
				}
				return err
			}
		}

		moved = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return moved, nil
}
