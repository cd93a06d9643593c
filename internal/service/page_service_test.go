package service

import (
	"errors"
	"testing"

	"github.com/pagecraft/internal/db"
)

func TestCreatePageDerivesSlug(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)

	page, err := svc.CreatePage(PageInput{Name: "  Speaking_Page Two ", Description: "talks"})
	if err != nil {
		t.Fatalf("CreatePage returned error: %v", err)
	}
	if page.Slug != "speaking-page-two" {
		t.Fatalf("expected derived slug, got %q", page.Slug)
	}
	if !page.IsActive {
		t.Fatal("expected new page to be active")
	}

	if _, err := svc.CreatePage(PageInput{Name: "\t"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestCreatePageRejectsDuplicateSlug(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)

	if _, err := svc.CreatePage(PageInput{Name: "Homepage", Slug: "home"}); err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}

	_, err := svc.CreatePage(PageInput{Name: "Another home", Slug: "home"})
	if !errors.Is(err, ErrSlugTaken) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected uniqueness conflict, got %v", err)
	}

	var count int64
	gdb.Model(&db.Page{}).Where("slug = ?", "home").Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one home page, got %d", count)
	}
}

func TestGetPageNotFound(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)

	if _, err := svc.GetPage(42); !errors.Is(err, ErrPageNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected page not found, got %v", err)
	}
	if _, err := svc.GetPageBySlug("missing"); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected page not found, got %v", err)
	}
}

func TestDeletePageCascadesSections(t *testing.T) {
	gdb := setupServiceTestDB(t)
	pages := NewPageService(gdb)
	sections := NewSectionService(gdb)

	page := createTestPage(t, gdb, "landing")
	other := createTestPage(t, gdb, "other")
	for _, sectionType := range []string{"hero", "footer"} {
		if _, err := sections.CreateSection(page.ID, sectionType, ""); err != nil {
			t.Fatalf("create section: %v", err)
		}
	}
	if _, err := sections.CreateSection(other.ID, "hero", ""); err != nil {
		t.Fatalf("create section: %v", err)
	}

	if err := pages.DeletePage(page.ID); err != nil {
		t.Fatalf("DeletePage returned error: %v", err)
	}

	var remaining int64
	gdb.Model(&db.Section{}).Where("page_id = ?", page.ID).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("expected sections to be deleted, %d remain", remaining)
	}
	gdb.Model(&db.Section{}).Where("page_id = ?", other.ID).Count(&remaining)
	if remaining != 1 {
		t.Fatalf("expected other page sections to survive, got %d", remaining)
	}

	if err := pages.DeletePage(page.ID); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestEnsureDefaultPageIsIdempotent(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)

	page, created, err := svc.EnsureDefaultPage()
	if err != nil || !created {
		t.Fatalf("expected default page to be created, created=%v err=%v", created, err)
	}
	if page.Slug != db.DefaultPageSlug || page.Name != db.DefaultPageName {
		t.Fatalf("unexpected default page %+v", page)
	}

	again, created, err := svc.EnsureDefaultPage()
	if err != nil || created {
		t.Fatalf("expected existing page to be returned, created=%v err=%v", created, err)
	}
	if again.ID != page.ID {
		t.Fatalf("expected same page, got %d and %d", page.ID, again.ID)
	}

	var count int64
	gdb.Model(&db.Page{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one page, got %d", count)
	}
}

func TestEnsureDefaultPageKeepsExistingPages(t *testing.T) {
	gdb := setupServiceTestDB(t)
	existing := createTestPage(t, gdb, "about")

	page, created, err := NewPageService(gdb).EnsureDefaultPage()
	if err != nil || created {
		t.Fatalf("expected no page to be created, created=%v err=%v", created, err)
	}
	if page.ID != existing.ID {
		t.Fatalf("expected first existing page, got %+v", page)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Homepage":           "homepage",
		"Meet Kim_Bio":       "meet-kim-bio",
		"  --Hello   World ": "hello-world",
		"Café & Co.":         "cafe-and-co",
		"首页":                 "shou-ye",
		"!!!":                "",
		"":                   "",
	}
	for input, want := range cases {
		if got := slugify(input); got != want {
			t.Errorf("slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCreatePageSlugFromName(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)

	page, err := svc.CreatePage(PageInput{Name: "首页"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if page.Slug != "shou-ye" {
		t.Fatalf("expected transliterated slug, got %q", page.Slug)
	}

	if _, err := svc.CreatePage(PageInput{Name: "???"}); !errors.Is(err, ErrPageSlugInvalid) {
		t.Fatalf("expected ErrPageSlugInvalid, got %v", err)
	}
	if _, err := svc.CreatePage(PageInput{Name: "Valid", Slug: "***"}); !errors.Is(err, ErrPageSlugInvalid) {
		t.Fatalf("expected ErrPageSlugInvalid for explicit slug, got %v", err)
	}
}
