package db

import "time"

// Page 是可通过 slug 访问的页面容器，独占其下的所有区块。
// 不使用软删除，删除页面时级联删除区块。
type Page struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string    `gorm:"size:200;not null"`
	Slug        string    `gorm:"size:200;uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"not null;default:true"`
	Sections    []Section `gorm:"constraint:OnDelete:CASCADE;"`
}

const (
	// DefaultPageSlug 是引导流程创建的首页 slug。
	DefaultPageSlug = "home"
	// DefaultPageName 是引导流程创建的首页名称。
	DefaultPageName = "Homepage"
)
