package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func createTestPage(t *testing.T, gdb *gorm.DB, slug string) *db.Page {
	t.Helper()
	page, err := NewPageService(gdb).CreatePage(PageInput{Name: slug, Slug: slug})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return page
}

// insertSection writes a section row directly, bypassing CreateSection, so
// tests can set up pre-migration and diverged states.
func insertSection(t *testing.T, gdb *gorm.DB, pageID uint, sortOrder int, legacy, draft, published content.Document) *db.Section {
	t.Helper()
	section := db.Section{
		PageID:          pageID,
		SectionType:     string(content.SectionHero),
		SortOrder:       sortOrder,
		IsEnabled:       true,
		LegacyConfig:    db.JSONMap(legacy),
		DraftConfig:     db.JSONMap(draft),
		PublishedConfig: db.JSONMap(published),
	}
	if err := gdb.Create(&section).Error; err != nil {
		t.Fatalf("insert section: %v", err)
	}
	return &section
}

func reloadSection(t *testing.T, gdb *gorm.DB, id uint) *db.Section {
	t.Helper()
	var section db.Section
	if err := gdb.First(&section, id).Error; err != nil {
		t.Fatalf("reload section %d: %v", id, err)
	}
	return &section
}
