package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pagecraft/internal/content"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return gdb
}

func TestSectionDocumentsRoundTrip(t *testing.T) {
	gdb := openTestDB(t)

	page := Page{Name: "Home", Slug: "home", IsActive: true}
	if err := gdb.Create(&page).Error; err != nil {
		t.Fatalf("create page: %v", err)
	}

	section := Section{
		PageID:       page.ID,
		SectionType:  string(content.SectionHero),
		SortOrder:    1,
		IsEnabled:    true,
		LegacyConfig: JSONMap(content.Document{"headline": "Legacy", "stats": []any{map[string]any{"value": 10}}}),
		DraftConfig:  JSONMap(nil),
	}
	if err := gdb.Create(&section).Error; err != nil {
		t.Fatalf("create section: %v", err)
	}

	var loaded Section
	if err := gdb.First(&loaded, section.ID).Error; err != nil {
		t.Fatalf("load section: %v", err)
	}

	if _, ok := loaded.State().(content.Legacy); !ok {
		t.Fatalf("expected legacy state, got %T", loaded.State())
	}
	if got := loaded.HeadlinePreview(); got != "Legacy" {
		t.Fatalf("unexpected headline preview %q", got)
	}
	if !content.Equal(loaded.Legacy(), section.Legacy()) {
		t.Fatalf("legacy document changed across persistence: %v", loaded.Legacy())
	}
	if loaded.HasUnpublishedChanges() {
		t.Fatalf("empty draft must not report pending changes")
	}
}

func TestSectionSortOrderUniquePerPage(t *testing.T) {
	gdb := openTestDB(t)

	page := Page{Name: "Home", Slug: "home"}
	if err := gdb.Create(&page).Error; err != nil {
		t.Fatalf("create page: %v", err)
	}

	first := Section{PageID: page.ID, SectionType: "hero", SortOrder: 1}
	if err := gdb.Create(&first).Error; err != nil {
		t.Fatalf("create first section: %v", err)
	}

	dup := Section{PageID: page.ID, SectionType: "footer", SortOrder: 1}
	err := gdb.Create(&dup).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}
}

func TestEnsureUserAndAuthenticate(t *testing.T) {
	gdb := openTestDB(t)

	created, err := EnsureUser(gdb, " admin ", "s3cret")
	if err != nil || !created {
		t.Fatalf("expected user to be created, got created=%v err=%v", created, err)
	}

	created, err = EnsureUser(gdb, "admin", "other")
	if err != nil || created {
		t.Fatalf("expected existing user to be kept, got created=%v err=%v", created, err)
	}

	if _, err := Authenticate(gdb, "admin", "s3cret"); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if _, err := Authenticate(gdb, "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := Authenticate(gdb, "ghost", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}
