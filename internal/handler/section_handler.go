package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/service"
	"github.com/pagecraft/internal/view"
)

const maxSectionConfigBytes = 1 << 20

type sectionResponse struct {
	ID              uint                `json:"id"`
	PageID          uint                `json:"page_id"`
	SectionType     content.SectionType `json:"section_type"`
	DisplayName     string              `json:"display_name"`
	InternalLabel   string              `json:"internal_label"`
	SortOrder       int                 `json:"sort_order"`
	IsEnabled       bool                `json:"is_enabled"`
	DraftConfig     content.Document    `json:"draft_config"`
	PublishedConfig content.Document    `json:"published_config"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type createSectionRequest struct {
	SectionType   string `json:"section_type" form:"section_type"`
	InternalLabel string `json:"internal_label" form:"internal_label"`
}

func newSectionResponse(section *db.Section) sectionResponse {
	return sectionResponse{
		ID:              section.ID,
		PageID:          section.PageID,
		SectionType:     section.Type(),
		DisplayName:     section.Type().DisplayName(),
		InternalLabel:   section.InternalLabel,
		SortOrder:       section.SortOrder,
		IsEnabled:       section.IsEnabled,
		DraftConfig:     section.Draft(),
		PublishedConfig: section.Published(),
		UpdatedAt:       section.UpdatedAt,
	}
}

// SectionTypes 返回可创建的区块类型与社交图标选项，供编辑器渲染下拉框。
func (a *API) SectionTypes(c *gin.Context) {
	types := make([]gin.H, 0, len(content.SectionTypes()))
	for _, t := range content.SectionTypes() {
		types = append(types, gin.H{
			"value":    t,
			"label":    t.DisplayName(),
			"defaults": content.DefaultDocument(t),
		})
	}
	c.JSON(http.StatusOK, gin.H{"types": types, "socialIcons": view.SocialIconOptions()})
}

// CreateSection 在页面末尾新增区块
func (a *API) CreateSection(c *gin.Context) {
	pageID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的页面ID")
		return
	}

	var req createSectionRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	section, err := a.sections.CreateSection(pageID, req.SectionType, req.InternalLabel)
	if err != nil {
		respondServiceError(c, err, "创建区块失败")
		return
	}
	a.invalidatePage(c, section.PageID)
	c.JSON(http.StatusCreated, newSectionResponse(section))
}

// GetSection 返回区块详情，旧版内容会先被迁移
func (a *API) GetSection(c *gin.Context) {
	section, ok := a.loadSection(c)
	if !ok {
		return
	}
	if _, err := a.sections.Reconcile(section); err != nil {
		respondServiceError(c, err, "获取区块失败")
		return
	}
	c.JSON(http.StatusOK, newSectionResponse(section))
}

// UpdateSectionDraft 保存表单编辑结果到草稿
func (a *API) UpdateSectionDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的区块ID")
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	section, err := a.sections.UpdateSectionDraft(id, c.Request.PostForm)
	if err != nil {
		respondServiceError(c, err, "保存草稿失败")
		return
	}
	c.JSON(http.StatusOK, newSectionResponse(section))
}

// ReplaceSectionConfig 用请求体中的 JSON/JSONC 对象整体替换草稿
func (a *API) ReplaceSectionConfig(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的区块ID")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSectionConfigBytes))
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取请求失败")
		return
	}

	section, err := a.sections.ReplaceSectionDraft(id, raw)
	if err != nil {
		respondServiceError(c, err, "保存草稿失败")
		return
	}
	c.JSON(http.StatusOK, newSectionResponse(section))
}

// ToggleSection 切换区块的启用状态
func (a *API) ToggleSection(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的区块ID")
		return
	}

	section, err := a.sections.ToggleSection(id)
	if err != nil {
		respondServiceError(c, err, "更新区块失败")
		return
	}
	a.invalidatePage(c, section.PageID)
	c.JSON(http.StatusOK, newSectionResponse(section))
}

// DeleteSection 删除区块
func (a *API) DeleteSection(c *gin.Context) {
	section, ok := a.loadSection(c)
	if !ok {
		return
	}

	if err := a.sections.DeleteSection(section.ID); err != nil {
		respondServiceError(c, err, "删除区块失败")
		return
	}
	a.invalidatePage(c, section.PageID)
	c.Status(http.StatusNoContent)
}

// MoveSection 与相邻区块交换位置，已在边界时 moved 为 false
func (a *API) MoveSection(c *gin.Context) {
	section, ok := a.loadSection(c)
	if !ok {
		return
	}

	direction, err := service.ParseDirection(c.Param("direction"))
	if err != nil {
		respondServiceError(c, err, "移动区块失败")
		return
	}

	moved, err := a.sections.Move(section.ID, direction)
	if err != nil {
		respondServiceError(c, err, "移动区块失败")
		return
	}
	if moved {
		a.invalidatePage(c, section.PageID)
	}

	sections, err := a.sections.ListSections(section.PageID)
	if err != nil {
		respondServiceError(c, err, "获取区块失败")
		return
	}
	order := make([]uint, 0, len(sections))
	for _, s := range sections {
		order = append(order, s.ID)
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved, "order": order})
}

// ResolveSection 返回指定模式（preview/public）下的区块文档
func (a *API) ResolveSection(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的区块ID")
		return
	}

	mode := content.ParseMode(c.Query("mode"))
	doc, err := a.sections.Resolve(id, mode)
	if err != nil {
		respondServiceError(c, err, "解析区块失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode, "content": doc})
}

func (a *API) loadSection(c *gin.Context) (*db.Section, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的区块ID")
		return nil, false
	}
	section, err := a.sections.GetSection(id)
	if err != nil {
		respondServiceError(c, err, "获取区块失败")
		return nil, false
	}
	return section, true
}
