package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/service"
)

type pageRequest struct {
	Name        string `json:"name" form:"name"`
	Slug        string `json:"slug" form:"slug"`
	Description string `json:"description" form:"description"`
}

type sectionSelection struct {
	SectionIDs []uint `json:"section_ids"`
}

type sectionSummaryResponse struct {
	sectionResponse
	Headline              string `json:"headline"`
	HasUnpublishedChanges bool   `json:"has_unpublished_changes"`
}

func pageResponse(page *db.Page) gin.H {
	return gin.H{
		"id":          page.ID,
		"name":        page.Name,
		"slug":        page.Slug,
		"description": page.Description,
		"is_active":   page.IsActive,
		"created_at":  page.CreatedAt,
		"updated_at":  page.UpdatedAt,
	}
}

// ListPages 返回所有页面
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.ListPages()
	if err != nil {
		respondServiceError(c, err, "获取页面失败")
		return
	}

	items := make([]gin.H, 0, len(pages))
	for i := range pages {
		items = append(items, pageResponse(&pages[i]))
	}
	c.JSON(http.StatusOK, gin.H{"pages": items})
}

// CreatePage 创建页面，slug 冲突返回 409
func (a *API) CreatePage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	page, err := a.pages.CreatePage(service.PageInput{Name: req.Name, Slug: req.Slug, Description: req.Description})
	if err != nil {
		respondServiceError(c, err, "创建页面失败")
		return
	}
	c.JSON(http.StatusCreated, pageResponse(page))
}

// GetPageBuilder 返回页面构建器视图
func (a *API) GetPageBuilder(c *gin.Context) {
	pageID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的页面ID")
		return
	}

	builder, err := a.sections.Builder(pageID)
	if err != nil {
		respondServiceError(c, err, "获取页面失败")
		return
	}

	sections := make([]sectionSummaryResponse, 0, len(builder.Sections))
	for i := range builder.Sections {
		summary := builder.Sections[i]
		sections = append(sections, sectionSummaryResponse{
			sectionResponse:       newSectionResponse(&summary.Section),
			Headline:              summary.Headline,
			HasUnpublishedChanges: summary.HasUnpublishedChanges,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"page":                    pageResponse(&builder.Page),
		"sections":                sections,
		"has_unpublished_changes": builder.HasUnpublishedChanges,
	})
}

// DeletePage 删除页面及其区块
func (a *API) DeletePage(c *gin.Context) {
	pageID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的页面ID")
		return
	}

	if err := a.pages.DeletePage(pageID); err != nil {
		respondServiceError(c, err, "删除页面失败")
		return
	}
	a.invalidatePage(c, pageID)
	c.Status(http.StatusNoContent)
}

// ChangedSections 返回页面中有待发布修改的区块
func (a *API) ChangedSections(c *gin.Context) {
	pageID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的页面ID")
		return
	}

	sections, err := a.sections.ChangedSections(pageID)
	if err != nil {
		respondServiceError(c, err, "获取待发布区块失败")
		return
	}

	items := make([]sectionResponse, 0, len(sections))
	for i := range sections {
		items = append(items, newSectionResponse(&sections[i]))
	}
	c.JSON(http.StatusOK, gin.H{"sections": items})
}

// PublishPage 发布页面中（指定的或全部）有修改的区块
func (a *API) PublishPage(c *gin.Context) {
	pageID, ids, ok := a.pageSelection(c)
	if !ok {
		return
	}

	count, err := a.sections.Publish(pageID, ids)
	if count > 0 {
		a.invalidatePage(c, pageID)
	}
	if err != nil {
		respondServiceError(c, err, "发布失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"publishedCount": count})
}

// DiscardPage 丢弃页面中（指定的或全部）区块的草稿
func (a *API) DiscardPage(c *gin.Context) {
	pageID, ids, ok := a.pageSelection(c)
	if !ok {
		return
	}

	count, err := a.sections.Discard(pageID, ids)
	if err != nil {
		respondServiceError(c, err, "丢弃草稿失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"discardedCount": count})
}

// pageSelection 读取页面ID，以及 JSON body 或 section_ids 查询参数中的区块ID。
func (a *API) pageSelection(c *gin.Context) (uint, []uint, bool) {
	pageID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的页面ID")
		return 0, nil, false
	}

	ids, err := parseUintQuerySlice(c.QueryArray("section_ids"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "请求参数错误")
		return 0, nil, false
	}
	if c.Request.ContentLength > 0 && c.ContentType() == "application/json" {
		var selection sectionSelection
		if !bindJSON(c, &selection, "请求参数错误") {
			return 0, nil, false
		}
		ids = append(ids, selection.SectionIDs...)
	}
	return pageID, ids, true
}
