package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/service"
	"github.com/pagecraft/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTest(t *testing.T) (*API, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	uploadDir := t.TempDir()
	return NewAPI(gdb, storage.NewLocalStore(uploadDir, "/static/uploads"), "media", nil), uploadDir
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	return r
}

func createPage(t *testing.T, api *API, slug string) *db.Page {
	t.Helper()
	page, err := api.pages.CreatePage(service.PageInput{Name: slug, Slug: slug})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return page
}

func createSection(t *testing.T, api *API, pageID uint, published content.Document) *db.Section {
	t.Helper()
	var existing int64
	if err := api.db.Model(&db.Section{}).Where("page_id = ?", pageID).Count(&existing).Error; err != nil {
		t.Fatalf("count sections: %v", err)
	}
	section := db.Section{
		PageID:          pageID,
		SectionType:     string(content.SectionHero),
		SortOrder:       int(existing) + 1,
		IsEnabled:       true,
		LegacyConfig:    db.JSONMap(nil),
		DraftConfig:     db.JSONMap(published),
		PublishedConfig: db.JSONMap(published),
	}
	if err := api.db.Create(&section).Error; err != nil {
		t.Fatalf("create section: %v", err)
	}
	return &section
}

func TestRespondServiceErrorMapsCategories(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: service.ErrPageNotFound, status: http.StatusNotFound},
		{name: "validation", err: service.ErrInvalidSectionType, status: http.StatusBadRequest},
		{name: "conflict", err: service.ErrSlugTaken, status: http.StatusConflict},
		{name: "transform", err: service.ErrImageTooLarge, status: http.StatusUnprocessableEntity},
		{name: "wrapped", err: fmt.Errorf("publish page 3: %w", service.ErrSectionNotFound), status: http.StatusNotFound},
		{name: "internal", err: errors.New("disk on fire"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(c, tt.err, "操作失败")
			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(rr.Body.String(), "disk on fire") {
				t.Fatalf("internal error leaked to client: %s", rr.Body.String())
			}
		})
	}
}

func TestRespondServiceErrorIncludesField(t *testing.T) {
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)

	err := fmt.Errorf("%w: %w", service.ErrValidation, &content.FieldError{Field: "items[0].url", Value: "nope", Err: content.ErrInvalidURL})
	respondServiceError(c, err, "保存草稿失败")

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["field"] != "items[0].url" {
		t.Fatalf("expected field in body, got %v", body)
	}
}

func TestParseUintQuerySliceSplitsCommas(t *testing.T) {
	got, err := parseUintQuerySlice([]string{"1,2", " 3 ", ""})
	if err != nil {
		t.Fatalf("parse ids: %v", err)
	}
	want := []uint{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	for _, bad := range []string{"1x", "2,abc", "-1"} {
		if _, err := parseUintQuerySlice([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestMalformedSectionIDsDoNotWidenSelection(t *testing.T) {
	api, _ := setupHandlerTest(t)
	page := createPage(t, api, "home")
	first := createSection(t, api, page.ID, content.Document{"headline": "A"})
	second := createSection(t, api, page.ID, content.Document{"headline": "B"})
	for _, section := range []*db.Section{first, second} {
		if err := api.db.Model(section).Update("draft_config", db.JSONMap(content.Document{"headline": "changed"})).Error; err != nil {
			t.Fatalf("edit draft: %v", err)
		}
	}

	r := newEngine()
	r.POST("/pages/:id/publish", api.PublishPage)
	r.POST("/pages/:id/discard", api.DiscardPage)

	for _, action := range []string{"publish", "discard"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/pages/%d/%s?section_ids=%dx", page.ID, action, first.ID), nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", action, rr.Code, rr.Body.String())
		}
	}

	changed, err := api.sections.ChangedSections(page.ID)
	if err != nil {
		t.Fatalf("changed sections: %v", err)
	}
	if len(changed) != 2 {
		t.Fatalf("expected both drafts untouched, got %d pending", len(changed))
	}
}

func multipartImage(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(data)
	writer.WriteField("tags", "hero, banner")
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadImageStoresAsset(t *testing.T) {
	api, uploadDir := setupHandlerTest(t)
	r := newEngine()
	r.POST("/media", api.UploadImage)
	r.GET("/media", api.ListMedia)
	r.GET("/media/:id", api.GetMedia)

	body, contentType := multipartImage(t, "file", "Team Photo.png", testPNG(t))
	req := httptest.NewRequest(http.MethodPost, "/media", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var asset map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &asset); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if asset["public_id"] != "media/team-photo" {
		t.Fatalf("unexpected public id %v", asset["public_id"])
	}
	if asset["url"] != "/static/uploads/media/team-photo.jpg" {
		t.Fatalf("unexpected url %v", asset["url"])
	}
	if asset["tags"] != "hero,banner" {
		t.Fatalf("unexpected tags %v", asset["tags"])
	}
	for _, name := range []string{"team-photo.jpg", "team-photo_thumb.jpg"} {
		if _, err := os.Stat(filepath.Join(uploadDir, "media", name)); err != nil {
			t.Fatalf("expected %s on disk: %v", name, err)
		}
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/media", nil))
	if !strings.Contains(rr.Body.String(), "media/team-photo") {
		t.Fatalf("expected asset in list, got %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/media/%v", asset["id"]), nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for asset, got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/media/999", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing asset, got %d", rr.Code)
	}
}

func TestUploadImageRejectsBadInput(t *testing.T) {
	api, _ := setupHandlerTest(t)
	r := newEngine()
	r.POST("/media", api.UploadImage)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/media", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", rr.Code)
	}

	body, contentType := multipartImage(t, "image", "broken.png", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/media", body)
	req.Header.Set("Content-Type", contentType)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for undecodable image, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestPublicPageSkipsHiddenSections(t *testing.T) {
	api, _ := setupHandlerTest(t)
	page := createPage(t, api, "home")
	createSection(t, api, page.ID, content.Document{"headline": "Visible", "show_section": true, "body_text": "**bold**"})
	createSection(t, api, page.ID, content.Document{"headline": "Hidden", "show_section": false})

	r := newEngine()
	r.GET("/", api.PublicHome)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body publicPage
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Sections) != 1 {
		t.Fatalf("expected one visible section, got %d", len(body.Sections))
	}
	doc := body.Sections[0].Content
	if doc["headline"] != "Visible" {
		t.Fatalf("unexpected section %v", doc)
	}
	if html, _ := doc["body_text_html"].(string); !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected rendered body html, got %q", html)
	}
}

func TestPublicPageInactiveIsNotFound(t *testing.T) {
	api, _ := setupHandlerTest(t)
	page := createPage(t, api, "about")
	if err := api.db.Model(page).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate page: %v", err)
	}

	r := newEngine()
	r.GET("/api/pages/:slug", api.PublicPage)

	for _, slug := range []string{"about", "missing"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/pages/"+slug, nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", slug, rr.Code)
		}
	}
}

func TestPublishSelectedSections(t *testing.T) {
	api, _ := setupHandlerTest(t)
	page := createPage(t, api, "home")
	other := createPage(t, api, "other")
	first := createSection(t, api, page.ID, content.Document{"headline": "A"})
	second := createSection(t, api, page.ID, content.Document{"headline": "B"})
	foreign := createSection(t, api, other.ID, content.Document{"headline": "X"})

	for _, section := range []*db.Section{first, second} {
		if err := api.db.Model(section).Update("draft_config", db.JSONMap(content.Document{"headline": "changed"})).Error; err != nil {
			t.Fatalf("edit draft: %v", err)
		}
	}

	r := newEngine()
	r.POST("/pages/:id/publish", api.PublishPage)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/pages/%d/publish", page.ID), strings.NewReader(fmt.Sprintf(`{"section_ids":[%d]}`, foreign.ID)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign section, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/pages/%d/publish?section_ids=%d", page.ID, first.ID), nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"publishedCount":1`) {
		t.Fatalf("expected one published section, got %s", rr.Body.String())
	}

	changed, err := api.sections.ChangedSections(page.ID)
	if err != nil {
		t.Fatalf("changed sections: %v", err)
	}
	if len(changed) != 1 || changed[0].ID != second.ID {
		t.Fatalf("expected only second section pending, got %+v", changed)
	}
}

func TestDashboardCounts(t *testing.T) {
	api, _ := setupHandlerTest(t)
	page := createPage(t, api, "home")
	section := createSection(t, api, page.ID, content.Document{"headline": "A"})
	if err := api.db.Model(section).Update("draft_config", db.JSONMap(content.Document{"headline": "B"})).Error; err != nil {
		t.Fatalf("edit draft: %v", err)
	}

	r := newEngine()
	r.GET("/dashboard", api.Dashboard)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["pageCount"] != float64(1) || body["sectionCount"] != float64(1) || body["pendingSections"] != float64(1) {
		t.Fatalf("unexpected counts %v", body)
	}
}
