package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/cache"
	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/service"
	"github.com/pagecraft/internal/view"
)

type publicSection struct {
	ID          uint                `json:"id"`
	SectionType content.SectionType `json:"section_type"`
	SortOrder   int                 `json:"sort_order"`
	Content     content.Document    `json:"content"`
}

type publicPage struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Mode        content.Mode    `json:"mode"`
	Sections    []publicSection `json:"sections"`
}

// PublicHome 返回首页（slug=home）的公开内容
func (a *API) PublicHome(c *gin.Context) {
	a.servePublicPage(c, db.DefaultPageSlug)
}

// PublicPage 按 slug 返回页面的公开内容
func (a *API) PublicPage(c *gin.Context) {
	a.servePublicPage(c, c.Param("slug"))
}

func (a *API) servePublicPage(c *gin.Context, slug string) {
	page, err := a.pages.GetPageBySlug(slug)
	if err != nil {
		respondServiceError(c, err, "获取页面失败")
		return
	}
	if !page.IsActive {
		respondError(c, http.StatusNotFound, service.ErrPageNotFound.Error())
		return
	}

	ctx := c.Request.Context()
	if payload, err := a.cache.Get(ctx, page.ID); err == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Warn("public page cache read failed", "page", page.ID, "err", err)
	}

	body, err := a.buildPage(page, content.ModePublic)
	if err != nil {
		respondServiceError(c, err, "获取页面失败")
		return
	}
	payload, err := json.Marshal(body)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取页面失败")
		return
	}
	if err := a.cache.Set(ctx, page.ID, payload); err != nil {
		log.Warn("public page cache write failed", "page", page.ID, "err", err)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// PreviewPage 以草稿模式渲染页面，仅管理员可见，不经过缓存
func (a *API) PreviewPage(c *gin.Context) {
	pageID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的页面ID")
		return
	}
	page, err := a.pages.GetPage(pageID)
	if err != nil {
		respondServiceError(c, err, "获取页面失败")
		return
	}

	body, err := a.buildPage(page, content.ModePreview)
	if err != nil {
		respondServiceError(c, err, "获取页面失败")
		return
	}
	c.JSON(http.StatusOK, body)
}

// buildPage 解析页面区块并生成访客视图，show_section 为 false 的区块不输出。
func (a *API) buildPage(page *db.Page, mode content.Mode) (*publicPage, error) {
	resolved, err := a.sections.ResolvePage(page.ID, mode)
	if err != nil {
		return nil, err
	}

	out := &publicPage{
		ID:          page.ID,
		Name:        page.Name,
		Slug:        page.Slug,
		Description: page.Description,
		Mode:        mode,
		Sections:    make([]publicSection, 0, len(resolved)),
	}
	for _, section := range resolved {
		doc, visible, err := view.PublicDocument(section.Content)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}
		out.Sections = append(out.Sections, publicSection{
			ID:          section.ID,
			SectionType: section.SectionType,
			SortOrder:   section.SortOrder,
			Content:     doc,
		})
	}
	return out, nil
}
