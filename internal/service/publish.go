package service

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/db"
	"gorm.io/gorm"
)

// ChangedSections 返回页面中草稿与发布文档不一致的区块（按排序位置）。
// 空草稿表示没有待发布的修改。
func (s *SectionService) ChangedSections(pageID uint) ([]db.Section, error) {
	sections, err := s.ListSections(pageID)
	if err != nil {
		return nil, err
	}

	changed := make([]db.Section, 0, len(sections))
	for i := range sections {
		if _, err := s.Reconcile(&sections[i]); err != nil {
			return nil, err
		}
		if sections[i].HasUnpublishedChanges() {
			changed = append(changed, sections[i])
		}
	}
	return changed, nil
}

// Publish 将草稿整体复制为发布文档。sectionIDs 为空时处理页面中所有有修改的区块。
// 每个区块单独提交：中途失败时已写入的区块保持发布状态，返回值是已发布的数量。
func (s *SectionService) Publish(pageID uint, sectionIDs []uint) (int, error) {
	count, err := s.promote(pageID, sectionIDs, func(section *db.Section) map[string]interface{} {
		return map[string]interface{}{"published_config": db.JSONMap(section.Draft().Clone())}
	})
	if err != nil {
		return count, fmt.Errorf("publish page %d: %w", pageID, err)
	}
	log.Info("published sections", "page", pageID, "count", count)
	return count, nil
}

// Discard 丢弃草稿：草稿整体重置为发布文档（发布文档为空时重置为空文档）。
func (s *SectionService) Discard(pageID uint, sectionIDs []uint) (int, error) {
	count, err := s.promote(pageID, sectionIDs, func(section *db.Section) map[string]interface{} {
		return map[string]interface{}{"draft_config": db.JSONMap(section.Published().Clone())}
	})
	if err != nil {
		return count, fmt.Errorf("discard page %d: %w", pageID, err)
	}
	log.Info("discarded section drafts", "page", pageID, "count", count)
	return count, nil
}

func (s *SectionService) promote(pageID uint, sectionIDs []uint, replacement func(*db.Section) map[string]interface{}) (int, error) {
	targets, err := s.selectSections(pageID, sectionIDs)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range targets {
		if _, err := s.Reconcile(&targets[i]); err != nil {
			return count, err
		}

		applied := false
		err := s.db.Transaction(func(tx *gorm.DB) error {
			current, err := s.load(tx, targets[i].ID)
			if err != nil {
				return err
			}
			if !content.HasPendingChanges(current.Draft(), current.Published()) {
				return nil
			}
			if err := tx.Model(&db.Section{}).Where("id = ?", current.ID).Updates(replacement(current)).Error; err != nil {
				return err
			}
			applied = true
			return nil
		})
		if err != nil {
			return count, fmt.Errorf("section %d: %w", targets[i].ID, err)
		}
		if applied {
			count++
		}
	}
	return count, nil
}

// selectSections 校验所有指定的区块都属于该页面，未指定时返回页面全部区块。
func (s *SectionService) selectSections(pageID uint, sectionIDs []uint) ([]db.Section, error) {
	sections, err := s.ListSections(pageID)
	if err != nil {
		return nil, err
	}
	if len(sectionIDs) == 0 {
		return sections, nil
	}

	byID := make(map[uint]db.Section, len(sections))
	for _, section := range sections {
		byID[section.ID] = section
	}

	selected := make([]db.Section, 0, len(sectionIDs))
	seen := make(map[uint]struct{}, len(sectionIDs))
	for _, id := range sectionIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		section, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("section %d on page %d: %w", id, pageID, ErrSectionNotFound)
		}
		selected = append(selected, section)
	}
	return selected, nil
}
