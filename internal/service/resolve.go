package service

import (
	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/db"
)

// ResolvedSection 是某个模式下渲染端看到的区块。
type ResolvedSection struct {
	ID          uint                `json:"id"`
	SectionType content.SectionType `json:"section_type"`
	SortOrder   int                 `json:"sort_order"`
	Content     content.Document    `json:"content"`
}

// Resolve returns the document the given mode renders for a section, migrating
// legacy content first. Resolution itself never writes.
func (s *SectionService) Resolve(sectionID uint, mode content.Mode) (content.Document, error) {
	section, err := s.load(s.db, sectionID)
	if err != nil {
		return nil, err
	}
	return s.resolveSection(section, mode)
}

func (s *SectionService) resolveSection(section *db.Section, mode content.Mode) (content.Document, error) {
	state, err := s.Reconcile(section)
	if err != nil {
		return nil, err
	}
	if migrated, ok := state.(content.Migrated); ok {
		return migrated.Resolve(mode), nil
	}
	return content.Document{}, nil
}

// ResolvePage 返回页面中已启用区块按排序位置解析后的文档，
// 解析结果为空文档的区块会被跳过。
func (s *SectionService) ResolvePage(pageID uint, mode content.Mode) ([]ResolvedSection, error) {
	if _, err := s.pages.GetPage(pageID); err != nil {
		return nil, err
	}

	var sections []db.Section
	if err := s.db.Where("page_id = ? AND is_enabled = ?", pageID, true).
		Order("sort_order asc").
		Find(&sections).Error; err != nil {
		return nil, err
	}

	resolved := make([]ResolvedSection, 0, len(sections))
	for i := range sections {
		section := &sections[i]
		doc, err := s.resolveSection(section, mode)
		if err != nil {
			return nil, err
		}
		if doc.IsEmpty() {
			continue
		}
		resolved = append(resolved, ResolvedSection{
			ID:          section.ID,
			SectionType: section.Type(),
			SortOrder:   section.SortOrder,
			Content:     doc,
		})
	}
	return resolved, nil
}
