package db

import (
	"time"

	"github.com/pagecraft/internal/content"
	"gorm.io/datatypes"
)

// Section 是页面中的一个区块，持有三份内容文档：
// LegacyConfig（已废弃的单态文档）、DraftConfig（编辑态）与 PublishedConfig（线上态）。
// (page_id, sort_order) 唯一，保证上移/下移时交换目标明确。
type Section struct {
	ID              uint `gorm:"primarykey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PageID          uint              `gorm:"not null;uniqueIndex:idx_sections_page_sort,priority:1"`
	SectionType     string            `gorm:"size:50;not null;index"`
	InternalLabel   string            `gorm:"size:200"`
	SortOrder       int               `gorm:"not null;uniqueIndex:idx_sections_page_sort,priority:2"`
	IsEnabled       bool              `gorm:"not null;default:true"`
	LegacyConfig    datatypes.JSONMap `gorm:"column:section_config"`
	DraftConfig     datatypes.JSONMap `gorm:"column:draft_config"`
	PublishedConfig datatypes.JSONMap `gorm:"column:published_config"`
}

// Type returns the section's content type.
func (s *Section) Type() content.SectionType {
	return content.SectionType(s.SectionType)
}

// Legacy returns the deprecated single-state document.
func (s *Section) Legacy() content.Document {
	return content.Document(s.LegacyConfig)
}

// Draft returns the editable document.
func (s *Section) Draft() content.Document {
	return content.Document(s.DraftConfig)
}

// Published returns the live document.
func (s *Section) Published() content.Document {
	return content.Document(s.PublishedConfig)
}

// State classifies the three documents.
func (s *Section) State() content.State {
	return content.Classify(s.Legacy(), s.Draft(), s.Published())
}

// HasUnpublishedChanges 判断草稿是否存在尚未发布的修改。
func (s *Section) HasUnpublishedChanges() bool {
	return content.HasPendingChanges(s.Draft(), s.Published())
}

// HeadlinePreview 返回列表中展示的标题：草稿 -> 发布 -> 旧版。
func (s *Section) HeadlinePreview() string {
	for _, doc := range []content.Document{s.Draft(), s.Published(), s.Legacy()} {
		if headline := doc.Headline(); headline != "" {
			return headline
		}
	}
	return "No headline"
}

// JSONMap 将文档转换为可持久化的列值，空文档写入 {}。
func JSONMap(doc content.Document) datatypes.JSONMap {
	if doc == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(doc)
}
