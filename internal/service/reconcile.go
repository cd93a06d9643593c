package service

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/db"
	"gorm.io/gorm"
)

// Reconcile 在读取或编辑前调用：迁移前状态（仅旧版文档有内容）会被深拷贝到
// 草稿与发布文档，并以单条 UPDATE 同时写入两列。返回值只会是 Empty 或 Migrated。
//
// 重复执行是空操作；两个请求并发迁移同一区块时写入的内容相同，无需加锁。
func (s *SectionService) Reconcile(section *db.Section) (content.State, error) {
	state := section.State()
	pending, ok := state.(content.Legacy)
	if !ok {
		return state, nil
	}

	migrated := pending.Migrate()
	updates := map[string]interface{}{
		"draft_config":     db.JSONMap(migrated.Draft),
		"published_config": db.JSONMap(migrated.Published),
	}
	if err := s.db.Model(&db.Section{}).Where("id = ?", section.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("migrate legacy content (section_id=%d): %w", section.ID, err)
	}

	section.DraftConfig = db.JSONMap(migrated.Draft)
	section.PublishedConfig = db.JSONMap(migrated.Published)
	log.Info("migrated legacy section content", "section", section.ID, "page", section.PageID)
	return migrated, nil
}

// MigrationReport 汇总批量迁移的结果。
type MigrationReport struct {
	Migrated int
	Skipped  int
	Empty    int
}

// MigrateAll reconciles every section. Sections already on the draft/published
// model are counted as skipped, sections without any content as empty.
func (s *SectionService) MigrateAll() (MigrationReport, error) {
	var report MigrationReport
	if s == nil || s.db == nil {
		return report, errors.New("section service is not initialized")
	}

	var sections []db.Section
	if err := s.db.Order("page_id asc").Order("sort_order asc").Find(&sections).Error; err != nil {
		return report, fmt.Errorf("list sections: %w", err)
	}

	for i := range sections {
		section := &sections[i]
		switch section.State().(type) {
		case content.Empty:
			report.Empty++
			continue
		case content.Migrated:
			report.Skipped++
			continue
		}

		if _, err := s.Reconcile(section); err != nil {
			return report, err
		}
		report.Migrated++
	}

	return report, nil
}

// reconciledEditable returns the document an edit starts from. Sections
// without any content start from their type's default document.
func (s *SectionService) reconciledEditable(section *db.Section) (content.Document, error) {
	state, err := s.Reconcile(section)
	if err != nil {
		return nil, err
	}
	if migrated, ok := state.(content.Migrated); ok {
		return migrated.Editable(), nil
	}
	return content.DefaultDocument(section.Type()), nil
}

func (s *SectionService) load(tx *gorm.DB, id uint) (*db.Section, error) {
	var section db.Section
	if err := tx.First(&section, id).Error; err != nil {
		return nil, notFound(err, ErrSectionNotFound)
	}
	return &section, nil
}
