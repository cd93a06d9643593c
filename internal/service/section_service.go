package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/db"
	"gorm.io/gorm"
)

// SectionService owns the section lifecycle: creation from type defaults,
// draft edits, migration, resolution, publishing and ordering.
type SectionService struct {
	db    *gorm.DB
	pages *PageService
}

// SectionSummary 是页面构建器列表中的一行。
type SectionSummary struct {
	Section               db.Section
	Headline              string
	HasUnpublishedChanges bool
}

// PageBuilder 汇总某个页面的区块与发布状态。
type PageBuilder struct {
	Page                  db.Page
	Sections              []SectionSummary
	HasUnpublishedChanges bool
}

// NewSectionService creates a SectionService instance.
func NewSectionService(gdb *gorm.DB) *SectionService {
	return &SectionService{db: gdb, pages: NewPageService(gdb)}
}

// CreateSection 在页面末尾追加区块，草稿与发布文档都设为类型默认文档，不写旧版文档。
func (s *SectionService) CreateSection(pageID uint, rawType, label string) (*db.Section, error) {
	sectionType, ok := content.ParseSectionType(rawType)
	if !ok {
		return nil, fmt.Errorf("%q: %w", rawType, ErrInvalidSectionType)
	}

	var section db.Section
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var page db.Page
		if err := tx.First(&page, pageID).Error; err != nil {
			return notFound(err, ErrPageNotFound)
		}

		var maxOrder int
		if err := tx.Model(&db.Section{}).
			Where("page_id = ?", page.ID).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}

		defaults := content.DefaultDocument(sectionType)
		section = db.Section{
			PageID:          page.ID,
			SectionType:     string(sectionType),
			InternalLabel:   strings.TrimSpace(label),
			SortOrder:       maxOrder + 1,
			IsEnabled:       true,
			LegacyConfig:    db.JSONMap(nil),
			DraftConfig:     db.JSONMap(defaults),
			PublishedConfig: db.JSONMap(defaults.Clone()),
		}
		return tx.Create(&section).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSortOrderTaken
		}
		return nil, err
	}
	return &section, nil
}

// UpdateSectionDraft 将表单映射结果合并到当前可编辑文档之上并整体写入草稿，
// 发布文档保持不变。表单中的 internal_label 同时更新内部标签。
func (s *SectionService) UpdateSectionDraft(sectionID uint, form url.Values) (*db.Section, error) {
	section, err := s.load(s.db, sectionID)
	if err != nil {
		return nil, err
	}

	editable, err := s.reconciledEditable(section)
	if err != nil {
		return nil, err
	}

	draft := content.Merge(editable, content.MapForm(form, section.Type()))
	if err := content.ValidateDocument(draft); err != nil {
		return nil, validationError(err)
	}

	updates := map[string]interface{}{"draft_config": db.JSONMap(draft)}
	if values, ok := form["internal_label"]; ok && len(values) > 0 {
		label := strings.TrimSpace(values[0])
		updates["internal_label"] = label
		section.InternalLabel = label
	}
	if err := s.db.Model(&db.Section{}).Where("id = ?", section.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	section.DraftConfig = db.JSONMap(draft)
	return section, nil
}

// ReplaceSectionDraft 是数组内容的批量编辑入口：接受 JSON 或 JSONC 对象，
// 校验 URL 后整体替换草稿。
func (s *SectionService) ReplaceSectionDraft(sectionID uint, raw []byte) (*db.Section, error) {
	doc, err := content.ParseDocument(raw)
	if err != nil {
		return nil, validationError(err)
	}
	if err := content.ValidateDocument(doc); err != nil {
		return nil, validationError(err)
	}

	section, err := s.load(s.db, sectionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Reconcile(section); err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Section{}).Where("id = ?", section.ID).
		Update("draft_config", db.JSONMap(doc)).Error; err != nil {
		return nil, err
	}
	section.DraftConfig = db.JSONMap(doc)
	return section, nil
}

// GetSection fetches a section by id.
func (s *SectionService) GetSection(id uint) (*db.Section, error) {
	return s.load(s.db, id)
}

// ListSections returns a page's sections ordered by sort position.
func (s *SectionService) ListSections(pageID uint) ([]db.Section, error) {
	if _, err := s.pages.GetPage(pageID); err != nil {
		return nil, err
	}

	var sections []db.Section
	if err := s.db.Where("page_id = ?", pageID).Order("sort_order asc").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// ToggleSection flips the enabled flag.
func (s *SectionService) ToggleSection(id uint) (*db.Section, error) {
	section, err := s.load(s.db, id)
	if err != nil {
		return nil, err
	}

	section.IsEnabled = !section.IsEnabled
	if err := s.db.Model(&db.Section{}).Where("id = ?", section.ID).
		Update("is_enabled", section.IsEnabled).Error; err != nil {
		return nil, err
	}
	return section, nil
}

// DeleteSection removes a section. Remaining positions keep their gaps.
func (s *SectionService) DeleteSection(id uint) error {
	section, err := s.load(s.db, id)
	if err != nil {
		return err
	}
	return s.db.Delete(section).Error
}

// Builder 返回页面构建器视图，读取前会先迁移旧版内容。
func (s *SectionService) Builder(pageID uint) (*PageBuilder, error) {
	page, err := s.pages.GetPage(pageID)
	if err != nil {
		return nil, err
	}
	sections, err := s.ListSections(pageID)
	if err != nil {
		return nil, err
	}

	builder := &PageBuilder{Page: *page, Sections: make([]SectionSummary, 0, len(sections))}
	for i := range sections {
		section := &sections[i]
		if _, err := s.Reconcile(section); err != nil {
			return nil, err
		}
		changed := section.HasUnpublishedChanges()
		builder.HasUnpublishedChanges = builder.HasUnpublishedChanges || changed
		builder.Sections = append(builder.Sections, SectionSummary{
			Section:               *section,
			Headline:              section.HeadlinePreview(),
			HasUnpublishedChanges: changed,
		})
	}
	return builder, nil
}
