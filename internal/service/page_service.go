package service

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pagecraft/internal/db"
	"gorm.io/gorm"
)

// PageService manages page containers.
type PageService struct {
	db *gorm.DB
}

// PageInput 是创建页面时接受的字段，Slug 为空时由 Name 推导。
type PageInput struct {
	Name        string
	Slug        string
	Description string
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// CreatePage 创建页面；slug 冲突时返回 ErrSlugTaken 且不写入任何数据。
func (s *PageService) CreatePage(input PageInput) (*db.Page, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPageNameMissing
	}

	slug := slugify(input.Slug)
	if strings.TrimSpace(input.Slug) == "" {
		slug = slugify(name)
	}
	if slug == "" {
		return nil, ErrPageSlugInvalid
	}

	page := db.Page{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Page{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlugTaken
		}
		return tx.Create(&page).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &page, nil
}

// ListPages returns all pages ordered by name.
func (s *PageService) ListPages() ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Order("name asc").Order("id asc").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// GetPage fetches a page by id.
func (s *PageService) GetPage(id uint) (*db.Page, error) {
	var page db.Page
	if err := s.db.First(&page, id).Error; err != nil {
		return nil, notFound(err, ErrPageNotFound)
	}
	return &page, nil
}

// GetPageBySlug fetches a page for a given slug.
func (s *PageService) GetPageBySlug(slug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&page).Error; err != nil {
		return nil, notFound(err, ErrPageNotFound)
	}
	return &page, nil
}

// DeletePage 删除页面及其全部区块。
func (s *PageService) DeletePage(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var page db.Page
		if err := tx.First(&page, id).Error; err != nil {
			return notFound(err, ErrPageNotFound)
		}
		if err := tx.Where("page_id = ?", page.ID).Delete(&db.Section{}).Error; err != nil {
			return err
		}
		return tx.Delete(&page).Error
	})
}

// EnsureDefaultPage 是部署时调用的幂等引导步骤：没有任何页面时创建首页。
// 返回首页（或已存在的第一个页面）以及本次是否新建。
func (s *PageService) EnsureDefaultPage() (*db.Page, bool, error) {
	var existing db.Page
	err := s.db.Where("slug = ?", db.DefaultPageSlug).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	var count int64
	if err := s.db.Model(&db.Page{}).Count(&count).Error; err != nil {
		return nil, false, err
	}
	if count > 0 {
		if err := s.db.Order("id asc").First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}

	page, err := s.CreatePage(PageInput{Name: db.DefaultPageName, Slug: db.DefaultPageSlug})
	if err != nil {
		return nil, false, err
	}
	log.Info("created default page", "page", page.ID, "slug", page.Slug)
	return page, true, nil
}
